package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
)

// LinkRepository stores related links attached to tickets.
type LinkRepository interface {
	Create(ctx context.Context, link *domain.TicketLink) error
	GetByID(ctx context.Context, id string) (*domain.TicketLink, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketLink, error)
	Delete(ctx context.Context, id string) error
}

type linkRepository struct {
	pool *pgxpool.Pool
}

// NewLinkRepository builds repository.
func NewLinkRepository(pool *pgxpool.Pool) LinkRepository {
	return &linkRepository{pool: pool}
}

func (r *linkRepository) Create(ctx context.Context, link *domain.TicketLink) error {
	const query = `
        INSERT INTO chamado_links (chamado_id, nome, url)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		link.TicketID,
		link.Name,
		link.URL,
	).Scan(&link.ID, &link.CreatedAt)
}

func (r *linkRepository) GetByID(ctx context.Context, id string) (*domain.TicketLink, error) {
	const query = `SELECT id, chamado_id, nome, url, created_at FROM chamado_links WHERE id=$1`
	var link domain.TicketLink
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&link.ID,
		&link.TicketID,
		&link.Name,
		&link.URL,
		&link.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketLink, error) {
	const query = `
        SELECT id, chamado_id, nome, url, created_at
        FROM chamado_links WHERE chamado_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketLink
	for rows.Next() {
		var link domain.TicketLink
		if err := rows.Scan(
			&link.ID,
			&link.TicketID,
			&link.Name,
			&link.URL,
			&link.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, link)
	}
	return result, rows.Err()
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM chamado_links WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
