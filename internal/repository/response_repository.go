package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
)

// ResponseRepository stores ticket thread responses.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.Response) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error)
	CountByTicketOwner(ctx context.Context, fromISO, toISO string) (int, error)
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

func (r *responseRepository) Create(ctx context.Context, response *domain.Response) error {
	const query = `
        INSERT INTO respostas (chamado_id, user_id, conteudo, tipo)
        VALUES ($1,$2,$3,$4)
        RETURNING id, data_criacao`
	return r.pool.QueryRow(ctx, query,
		response.TicketID,
		response.UserID,
		response.Content,
		response.Type,
	).Scan(&response.ID, &response.CreatedAt)
}

func (r *responseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error) {
	const query = `
        SELECT id, chamado_id, user_id, conteudo, tipo, data_criacao
        FROM respostas WHERE chamado_id=$1 ORDER BY data_criacao ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Response
	for rows.Next() {
		var response domain.Response
		if err := rows.Scan(
			&response.ID,
			&response.TicketID,
			&response.UserID,
			&response.Content,
			&response.Type,
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, rows.Err()
}

// CountByTicketOwner counts responses written inside the range, for reports.
func (r *responseRepository) CountByTicketOwner(ctx context.Context, fromISO, toISO string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM respostas
        WHERE data_criacao >= $1::timestamptz AND data_criacao <= $2::timestamptz`
	var count int
	err := r.pool.QueryRow(ctx, query, fromISO, toISO).Scan(&count)
	return count, err
}
