package worker

// retry_cron.go
// Background goroutine that periodically drains dead-lettered notification
// jobs back into the live queue, so mails lost to a transient SMTP outage are
// eventually delivered. The circuit breaker in the mailer keeps a still-down
// relay from being hammered.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	// Entries re-dead-lettered this many times are abandoned for good.
	maxDLQRequeues = 10
)

// StartRetryCron launches a background goroutine that ticks every 5 minutes
// and re-queues a batch of DLQ entries. It respects ctx for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				requeueBatch(ctx, rdb)
			}
		}
	}()
}

func requeueBatch(ctx context.Context, rdb *redis.Client) {
	dlqKey := DLQPrefix + QueueNotificaciones

	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty queue or redis unavailable — try again next tick
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: malformed DLQ entry dropped")
			continue
		}
		if entry.Attempts >= maxAttempts*maxDLQRequeues {
			log.Warn().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).
				Msg("retry_cron: entry abandoned after too many retries")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: marshal job")
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: re-queue failed")
			return
		}
		log.Info().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).
			Msg("retry_cron: job re-queued from DLQ")
	}
}
