package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-agent/internal/domain"
)

// TicketLogRepository encapsulates audit record persistence. Records are
// looked up by the tracker-issued issue key, which is expected unique.
type TicketLogRepository interface {
	Create(ctx context.Context, log *domain.TicketLog) error
	GetByIssueKey(ctx context.Context, issueKey string) (*domain.TicketLog, error)
	Update(ctx context.Context, log *domain.TicketLog) error
}

type ticketLogRepository struct {
	pool *pgxpool.Pool
}

// NewTicketLogRepository instantiates repository.
func NewTicketLogRepository(pool *pgxpool.Pool) TicketLogRepository {
	return &ticketLogRepository{pool: pool}
}

func (r *ticketLogRepository) Create(ctx context.Context, log *domain.TicketLog) error {
	const query = `
        INSERT INTO ticket_logs (requester_user_id, channel_id, issue_key, label, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.RequesterID,
		log.ChannelID,
		log.IssueKey,
		log.Label,
		log.Status,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *ticketLogRepository) GetByIssueKey(ctx context.Context, issueKey string) (*domain.TicketLog, error) {
	const query = `
        SELECT id, requester_user_id, channel_id, issue_key, label, status, created_at
        FROM ticket_logs WHERE issue_key=$1
        ORDER BY id DESC LIMIT 1`
	var log domain.TicketLog
	if err := r.pool.QueryRow(ctx, query, issueKey).Scan(
		&log.ID,
		&log.RequesterID,
		&log.ChannelID,
		&log.IssueKey,
		&log.Label,
		&log.Status,
		&log.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *ticketLogRepository) Update(ctx context.Context, log *domain.TicketLog) error {
	const query = `UPDATE ticket_logs SET status=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, log.Status, log.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
