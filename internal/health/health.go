package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const checkTimeout = 2 * time.Second

// HealthChecker probes the two stateful dependencies: the record store
// and the queue broker.
type HealthChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database DependencyCheck `json:"database"`
	Queue    DependencyCheck `json:"queue"`
}

type DependencyCheck struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

func NewHealthChecker(db *pgxpool.Pool, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{db: db, redis: redisClient}
}

func (h *HealthChecker) Check() HealthStatus {
	dbCheck := h.checkDatabase()
	queueCheck := h.checkQueue()

	status := "healthy"
	if dbCheck.Status != "healthy" || queueCheck.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbCheck,
		Queue:    queueCheck,
	}
}

func (h *HealthChecker) checkDatabase() DependencyCheck {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	return dependencyCheck(err, time.Since(start))
}

func (h *HealthChecker) checkQueue() DependencyCheck {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	start := time.Now()
	err := h.redis.Ping(ctx).Err()
	return dependencyCheck(err, time.Since(start))
}

func dependencyCheck(err error, elapsed time.Duration) DependencyCheck {
	status := "healthy"
	if err != nil {
		status = "unhealthy"
	}
	return DependencyCheck{
		Status:       status,
		ResponseTime: elapsed.Milliseconds(),
	}
}
