package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*RedisQueue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisQueue(client), client
}

func pendingJobs(t *testing.T, client *redis.Client) []Job {
	t.Helper()
	payloads, err := client.LRange(context.Background(), pendingKey, 0, -1).Result()
	require.NoError(t, err)
	jobs := make([]Job, len(payloads))
	for i, p := range payloads {
		require.NoError(t, json.Unmarshal([]byte(p), &jobs[i]))
	}
	return jobs
}

func listLen(t *testing.T, client *redis.Client, key string) int64 {
	t.Helper()
	n, err := client.LLen(context.Background(), key).Result()
	require.NoError(t, err)
	return n
}

func TestEnqueueAndDeliver(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "inv-1"))

	var delivered []Job
	err := q.consumeOne(ctx, func(ctx context.Context, job Job) error {
		delivered = append(delivered, job)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, delivered, 1)
	assert.Equal(t, "inv-1", delivered[0].InvoiceID)
	assert.Zero(t, delivered[0].Attempts)

	// Acked: nothing left on either list
	assert.Zero(t, listLen(t, client, pendingKey))
	assert.Zero(t, listLen(t, client, processingKey))
}

func TestFailedJobIsRequeuedWithAttemptCount(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "inv-1"))

	err := q.consumeOne(ctx, func(ctx context.Context, job Job) error {
		return errors.New("render failed")
	})
	require.NoError(t, err)

	jobs := pendingJobs(t, client)
	require.Len(t, jobs, 1)
	assert.Equal(t, "inv-1", jobs[0].InvoiceID)
	assert.Equal(t, 1, jobs[0].Attempts)
	assert.Zero(t, listLen(t, client, processingKey))
}

func TestFailedJobWaitsBehindQueuedJobs(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "inv-bad"))
	require.NoError(t, q.Enqueue(ctx, "inv-good"))

	var order []string
	handler := func(ctx context.Context, job Job) error {
		order = append(order, job.InvoiceID)
		if job.InvoiceID == "inv-bad" {
			return errors.New("render failed")
		}
		return nil
	}

	// First delivery fails; the retry must not jump ahead of inv-good
	for i := 0; i < 3; i++ {
		require.NoError(t, q.consumeOne(ctx, handler))
	}

	assert.Equal(t, []string{"inv-bad", "inv-good", "inv-bad"}, order)
}

func TestPoisonJobDroppedAfterDeliveryBudget(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "inv-poison"))

	deliveries := 0
	handler := func(ctx context.Context, job Job) error {
		deliveries++
		return errors.New("invoice no longer exists")
	}

	for i := 0; i < maxDeliveryAttempts; i++ {
		require.NoError(t, q.consumeOne(ctx, handler))
	}

	assert.Equal(t, maxDeliveryAttempts, deliveries)
	assert.Zero(t, listLen(t, client, pendingKey), "exhausted job must not be re-queued")
	assert.Zero(t, listLen(t, client, processingKey))
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, client.LPush(ctx, pendingKey, "{not json").Err())

	err := q.consumeOne(ctx, func(ctx context.Context, job Job) error {
		t.Fatal("handler must not run for a malformed payload")
		return nil
	})
	require.NoError(t, err)

	assert.Zero(t, listLen(t, client, pendingKey))
	assert.Zero(t, listLen(t, client, processingKey))
}

func TestRecoverOrphansReturnsStrandedJobs(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	// A worker crashed mid-job: the payload is stuck on the processing list
	payload, err := marshalJob(Job{InvoiceID: "inv-stranded"})
	require.NoError(t, err)
	require.NoError(t, client.LPush(ctx, processingKey, payload).Err())

	q.recoverOrphans(ctx)

	assert.Zero(t, listLen(t, client, processingKey))
	jobs := pendingJobs(t, client)
	require.Len(t, jobs, 1)
	assert.Equal(t, "inv-stranded", jobs[0].InvoiceID)

	var delivered []string
	require.NoError(t, q.consumeOne(ctx, func(ctx context.Context, job Job) error {
		delivered = append(delivered, job.InvoiceID)
		return nil
	}))
	assert.Equal(t, []string{"inv-stranded"}, delivered)
}
