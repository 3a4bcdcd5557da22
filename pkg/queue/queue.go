// Package queue is a redis-list job queue connecting the API process to the
// background worker.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueMail is the redis list key for outbound mail jobs.
	QueueMail = "worker:mail"
	// QueueDLQ is the dead-letter queue for jobs that exhausted retries.
	QueueDLQ = "worker:dlq"
	// MaxRetries is the number of attempts before a job moves to the DLQ.
	MaxRetries = 3
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeInvitationEmail JobType = "invitation_email"
	JobTypeOwnerWelcome    JobType = "owner_welcome"
)

// InvitationEmailPayload carries everything the mailer needs to deliver an
// invitation, including the raw token that exists nowhere else.
type InvitationEmailPayload struct {
	InvitationID     uint64    `json:"invitation_id"`
	OrganizationID   uint64    `json:"organization_id"`
	OrganizationSlug string    `json:"organization_slug"`
	RecipientEmail   string    `json:"recipient_email"`
	RecipientName    string    `json:"recipient_name"`
	RawToken         string    `json:"raw_token"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// OwnerWelcomePayload is the payload for the owner-welcome mail sent after
// organization onboarding.
type OwnerWelcomePayload struct {
	OrganizationID   uint64 `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	OrganizationSlug string `json:"organization_slug"`
	OwnerEmail       string `json:"owner_email"`
	OwnerName        string `json:"owner_name"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues jobs via redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates a redis-backed job queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

func (q *Queue) enqueue(ctx context.Context, jobType JobType, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	job := Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   body,
		Attempt:   0,
		CreatedAt: time.Now(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, QueueMail, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued job", zap.String("job_id", job.ID), zap.String("type", string(jobType)))
	return nil
}

// EnqueueInvitationEmail enqueues an invitation delivery job.
func (q *Queue) EnqueueInvitationEmail(ctx context.Context, payload InvitationEmailPayload) error {
	return q.enqueue(ctx, JobTypeInvitationEmail, payload)
}

// EnqueueOwnerWelcome enqueues an owner-welcome mail job.
func (q *Queue) EnqueueOwnerWelcome(ctx context.Context, payload OwnerWelcomePayload) error {
	return q.enqueue(ctx, JobTypeOwnerWelcome, payload)
}

// Dequeue blocks up to timeout waiting for the next mail job. Returns nil
// when the wait times out.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.client.BLPop(ctx, timeout, QueueMail).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("blpop: %w", err)
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// Retry requeues a failed job, moving it to the DLQ once attempts run out.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if job.Attempt >= MaxRetries {
		q.logger.Warn("job moved to DLQ",
			zap.String("job_id", job.ID),
			zap.String("type", string(job.Type)),
			zap.Int("attempts", job.Attempt))
		return q.client.RPush(ctx, QueueDLQ, raw).Err()
	}
	return q.client.RPush(ctx, QueueMail, raw).Err()
}
