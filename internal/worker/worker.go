// Package worker consumes the mail queue and runs periodic housekeeping.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mizusato/orghub/internal/mailer"
	"github.com/mizusato/orghub/pkg/queue"
)

const (
	dequeueTimeout = 5 * time.Second
	sweepInterval  = time.Hour
)

// Sweeper marks lapsed invitations as expired. Expiry is evaluated lazily at
// validation time, so the sweep only exists for reporting hygiene.
type Sweeper interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// Worker drains mail jobs and periodically sweeps lapsed invitations.
type Worker struct {
	queue   *queue.Queue
	mailer  mailer.Mailer
	sweeper Sweeper
	logger  *zap.Logger
}

func New(q *queue.Queue, m mailer.Mailer, s Sweeper, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{queue: q, mailer: m, sweeper: s, logger: logger}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		default:
		}

		job, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *queue.Job) {
	var err error
	switch job.Type {
	case queue.JobTypeInvitationEmail:
		var p queue.InvitationEmailPayload
		if err = json.Unmarshal(job.Payload, &p); err == nil {
			err = w.mailer.SendInvitation(ctx, p)
		}
	case queue.JobTypeOwnerWelcome:
		var p queue.OwnerWelcomePayload
		if err = json.Unmarshal(job.Payload, &p); err == nil {
			err = w.mailer.SendOwnerWelcome(ctx, p)
		}
	default:
		w.logger.Warn("unknown job type", zap.String("type", string(job.Type)))
		return
	}

	if err != nil {
		w.logger.Error("job failed",
			zap.String("job_id", job.ID),
			zap.String("type", string(job.Type)),
			zap.Error(err))
		if rerr := w.queue.Retry(ctx, job); rerr != nil {
			w.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(rerr))
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	if w.sweeper == nil {
		return
	}
	n, err := w.sweeper.ExpireLapsed(ctx)
	if err != nil {
		w.logger.Error("invitation sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("marked lapsed invitations expired", zap.Int64("count", n))
	}
}
