package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"freight-backend/internal/metrics"
)

const (
	pendingKey    = "invoice-pdf:pending"
	processingKey = "invoice-pdf:processing"

	popTimeout = 5 * time.Second

	// A job that keeps failing is dropped after this many deliveries so
	// it cannot occupy a worker forever.
	maxDeliveryAttempts = 5
)

// RedisQueue is a durable at-least-once work queue over Redis lists.
// Producers LPUSH onto the pending list; consumers move jobs into a
// processing list with BRPOPLPUSH, so a crashed worker leaves its job
// recoverable instead of lost. Failed jobs rejoin the back of the line
// and are abandoned once their delivery budget runs out.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// Enqueue durably hands a job to the broker. It returns once Redis has
// accepted the payload; processing happens later on a worker.
func (q *RedisQueue) Enqueue(ctx context.Context, invoiceID string) error {
	payload, err := marshalJob(Job{InvoiceID: invoiceID})
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	if err := q.client.LPush(ctx, pendingKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job for invoice %s: %w", invoiceID, err)
	}

	metrics.PDFJobsEnqueued.Inc()
	return nil
}

// Consume delivers jobs to the handler one at a time per worker goroutine
// until the context is cancelled. A handler error re-queues the job onto
// the pending list (broker-governed redelivery, no local retry loop).
func (q *RedisQueue) Consume(ctx context.Context, handler Handler, workers int) {
	if workers < 1 {
		workers = 1
	}

	// Jobs left on the processing list by a crashed worker are delivered again
	q.recoverOrphans(ctx)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log.Printf("[Queue] worker %d started", id)
			for {
				if err := q.consumeOne(ctx, handler); err != nil {
					if errors.Is(err, context.Canceled) || ctx.Err() != nil {
						log.Printf("[Queue] worker %d stopped", id)
						return
					}
					log.Printf("[Queue] worker %d: %v", id, err)
					time.Sleep(time.Second)
				}
			}
		}(i)
	}
	wg.Wait()
}

func (q *RedisQueue) consumeOne(ctx context.Context, handler Handler) error {
	payload, err := q.client.BRPopLPush(ctx, pendingKey, processingKey, popTimeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil // timeout, poll again
		}
		return err
	}

	job, err := unmarshalJob([]byte(payload))
	if err != nil {
		// Malformed payload: drop it, redelivery can never succeed
		log.Printf("[Queue] dropping malformed job payload: %v", err)
		q.client.LRem(ctx, processingKey, 1, payload)
		return nil
	}

	if err := handler(ctx, job); err != nil {
		metrics.PDFJobsFailed.Inc()
		job.Attempts++
		if job.Attempts >= maxDeliveryAttempts {
			log.Printf("[Queue] job for invoice %s failed on attempt %d/%d, dropping: %v",
				job.InvoiceID, job.Attempts, maxDeliveryAttempts, err)
			q.client.LRem(ctx, processingKey, 1, payload)
			return nil
		}

		log.Printf("[Queue] job for invoice %s failed on attempt %d/%d, re-queueing: %v",
			job.InvoiceID, job.Attempts, maxDeliveryAttempts, err)
		requeued, marshalErr := marshalJob(job)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode re-queued job: %w", marshalErr)
		}
		// LPUSH puts the job at the head of the pending list. The consumer
		// pops the tail, so the retry waits behind every queued job instead
		// of being redelivered immediately and starving the rest.
		pipe := q.client.TxPipeline()
		pipe.LRem(ctx, processingKey, 1, payload)
		pipe.LPush(ctx, pendingKey, requeued)
		if _, pipeErr := pipe.Exec(ctx); pipeErr != nil {
			return fmt.Errorf("failed to re-queue job: %w", pipeErr)
		}
		return nil
	}

	metrics.PDFJobsProcessed.Inc()
	q.client.LRem(ctx, processingKey, 1, payload)
	return nil
}

// recoverOrphans pushes jobs stranded on the processing list back onto
// pending. Runs once at consumer startup.
func (q *RedisQueue) recoverOrphans(ctx context.Context) {
	recovered := 0
	for {
		_, err := q.client.RPopLPush(ctx, processingKey, pendingKey).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Printf("[Queue] orphan recovery: %v", err)
			}
			break
		}
		recovered++
	}
	if recovered > 0 {
		log.Printf("[Queue] recovered %d orphaned job(s)", recovered)
	}
}
