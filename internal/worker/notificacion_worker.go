package worker

// notificacion_worker.go
// Processes notification jobs from QueueNotificaciones: incident mails to the
// administrators of the affected barrio. Failed sends are re-queued up to
// maxAttempts, then moved to the DLQ.

import (
	"context"
	"encoding/json"

	"actalibro/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxAttempts = 3

// NotificacionWorker delivers admin notification emails via the mailer.
type NotificacionWorker struct {
	mailer *infra.Mailer
}

func NewNotificacionWorker(mailer *infra.Mailer) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer}
}

// Process sends the notification, retrying transient failures.
func (w *NotificacionWorker) Process(ctx context.Context, rdb *redis.Client, job Job) {
	var payload NotificacionPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	if len(payload.Para) == 0 {
		log.Warn().Msg("notificacion_worker: no recipients — skipping")
		return
	}

	err := w.mailer.SendNotificacion(payload.Para, payload.Asunto, payload.Cuerpo)
	if err == nil {
		log.Info().Strs("para", payload.Para).Msg("notificacion_worker: enviada")
		return
	}

	log.Error().Err(err).Int("attempts", job.Attempts+1).Msg("notificacion_worker: fallo de envío")

	if job.Attempts+1 >= maxAttempts {
		SendToDLQ(ctx, rdb, QueueNotificaciones, job.Type, job.Payload, err.Error(), job.Attempts+1)
		return
	}

	// Re-queue with the incremented attempt count.
	retry := Job{Type: job.Type, Payload: job.Payload, Attempts: job.Attempts + 1}
	encoded, mErr := json.Marshal(retry)
	if mErr != nil {
		log.Error().Err(mErr).Msg("notificacion_worker: marshal retry")
		return
	}
	if pErr := rdb.LPush(ctx, QueueNotificaciones, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Msg("notificacion_worker: re-queue failed")
	}
}
