package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL RECORD DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all invoices")
	fmt.Println("  - Delete all trucks")
	fmt.Println("  - Delete all users")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "freight_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	ctx := context.Background()

	fmt.Println()
	fmt.Println("Resetting database...")

	// Invoices reference trucks, so they go first
	statements := []struct {
		label string
		sql   string
	}{
		{"invoices", "DELETE FROM invoices"},
		{"trucks", "DELETE FROM trucks"},
		{"users", "DELETE FROM users"},
	}

	for _, stmt := range statements {
		tag, err := pool.Exec(ctx, stmt.sql)
		if err != nil {
			log.Fatalf("Failed to clear %s: %v\n", stmt.label, err)
		}
		fmt.Printf("  - cleared %s (%d rows)\n", stmt.label, tag.RowsAffected())
	}

	fmt.Println()
	fmt.Println("Done. Database is empty.")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
