package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"freight-backend/internal/auth"
	"freight-backend/internal/config"
	"freight-backend/internal/database"
	"freight-backend/internal/db"
	"freight-backend/internal/handlers"
	"freight-backend/internal/health"
	httprouter "freight-backend/internal/http"
	"freight-backend/internal/middleware"
	"freight-backend/internal/queue"
	"freight-backend/internal/repositories"
	"freight-backend/internal/services"
	"freight-backend/internal/storage"
	"freight-backend/internal/worker"
	"freight-backend/migrations"
)

func main() {
	mode := flag.String("mode", "all", "process mode: api, worker, or all")
	flag.Parse()

	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	truckRepo := repositories.NewTruckRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)

	// Queue
	pdfQueue := queue.NewRedisQueue(redisClient)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	truckService := services.NewTruckService(truckRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, truckService, uploader, pdfQueue)
	pdfService := services.NewPDFService(time.Duration(cfg.PDF.FetchTimeoutSeconds) * time.Second)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runWorker := *mode == "worker" || *mode == "all"
	runAPI := *mode == "api" || *mode == "all"
	if !runWorker && !runAPI {
		log.Fatalf("Unknown mode %q (expected api, worker, or all)", *mode)
	}

	if runWorker {
		pdfWorker := worker.NewPDFWorker(invoiceRepo, pdfService, uploader)
		go func() {
			log.Printf("[Worker] starting %d document worker(s)", cfg.PDF.Workers)
			pdfQueue.Consume(ctx, pdfWorker.Handle, cfg.PDF.Workers)
		}()
	}

	if !runAPI {
		<-ctx.Done()
		log.Println("Shutting down worker")
		return
	}

	// Handlers
	healthChecker := health.NewHealthChecker(pool, redisClient)
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	truckHandler := handlers.NewTruckHandler(truckService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	healthHandler := handlers.NewHealthHandler(healthChecker)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := httprouter.NewRouter(
		authHandler,
		userHandler,
		truckHandler,
		invoiceHandler,
		healthHandler,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	go func() {
		log.Printf("Server running on port %d (mode: %s)", cfg.Server.Port, *mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
