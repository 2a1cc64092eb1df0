package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type OutboxRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	FetchBatch(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkProcessed(ctx context.Context, ids []string) error
	MarkFailed(ctx context.Context, ids []string) error
}

const defaultReclaimAfter = 5 * time.Minute

type PGOutboxRepository struct {
	db           DB
	reclaimAfter time.Duration
}

type OutboxOption func(*PGOutboxRepository)

// WithReclaimAfter sets how long a claimed event may stay in processing
// before another poll picks it up again.
func WithReclaimAfter(d time.Duration) OutboxOption {
	return func(r *PGOutboxRepository) {
		if d > 0 {
			r.reclaimAfter = d
		}
	}
}

func NewOutboxRepository(db DB, opts ...OutboxOption) OutboxRepository {
	r := &PGOutboxRepository{db: db, reclaimAfter: defaultReclaimAfter}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PGOutboxRepository) Create(ctx context.Context, e *domain.OutboxEvent) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO outbox (id, event_type, payload, status, correlation_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		e.ID, e.EventType, []byte(e.Payload), domain.OutboxStatusNew, e.CorrelationID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return storageErr("insert outbox event", err)
	}
	e.Status = domain.OutboxStatusNew
	return nil
}

// FetchBatch claims up to limit new events, plus events a dead relay left in
// processing for longer than reclaimAfter. Rows locked by another relay are
// skipped, so several workers can poll the same table.
func (r *PGOutboxRepository) FetchBatch(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		WITH claimed AS (
			SELECT id FROM outbox
			WHERE status = $1
				OR (status = $3 AND updated_at < now() - make_interval(secs => $4))
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox SET status = $3, updated_at = now()
		WHERE id IN (SELECT id FROM claimed)
		RETURNING id, event_type, payload, status, correlation_id, created_at, updated_at`,
		domain.OutboxStatusNew, limit, domain.OutboxStatusProcessing, r.reclaimAfter.Seconds())
	if err != nil {
		return nil, storageErr("fetch outbox batch", err)
	}
	defer rows.Close()

	events := make([]domain.OutboxEvent, 0)
	for rows.Next() {
		var e domain.OutboxEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.EventType, &payload, &e.Status, &e.CorrelationID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, storageErr("scan outbox event", err)
		}
		e.Payload = payload
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("fetch outbox batch", err)
	}
	return events, nil
}

func (r *PGOutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	return r.setStatus(ctx, "mark outbox processed", ids, domain.OutboxStatusProcessed)
}

// MarkFailed puts events back in the queue for the next poll.
func (r *PGOutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	return r.setStatus(ctx, "mark outbox failed", ids, domain.OutboxStatusNew)
}

func (r *PGOutboxRepository) setStatus(ctx context.Context, op string, ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := conn(ctx, r.db).Exec(ctx, `UPDATE outbox SET status = $2, updated_at = now() WHERE id = ANY($1)`, ids, status); err != nil {
		return storageErr(op, err)
	}
	return nil
}

var _ OutboxRepository = (*PGOutboxRepository)(nil)
