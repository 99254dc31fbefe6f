package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
)

// CatalogRepository manages the operator-maintained configuration lists:
// estruturantes and the status vocabulary.
type CatalogRepository interface {
	CreateEstruturante(ctx context.Context, e *domain.Estruturante) error
	ListEstruturantes(ctx context.Context) ([]domain.Estruturante, error)
	DeleteEstruturante(ctx context.Context, id string) error

	CreateStatusOption(ctx context.Context, s *domain.StatusOption) error
	ListStatusOptions(ctx context.Context) ([]domain.StatusOption, error)
	DeleteStatusOption(ctx context.Context, id string) error
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository builds repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) CreateEstruturante(ctx context.Context, e *domain.Estruturante) error {
	const query = `INSERT INTO estruturantes (nome) VALUES ($1) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, e.Name).Scan(&e.ID, &e.CreatedAt)
}

func (r *catalogRepository) ListEstruturantes(ctx context.Context) ([]domain.Estruturante, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nome, created_at FROM estruturantes ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Estruturante
	for rows.Next() {
		var e domain.Estruturante
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *catalogRepository) DeleteEstruturante(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM estruturantes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) CreateStatusOption(ctx context.Context, s *domain.StatusOption) error {
	const query = `INSERT INTO status_opcoes (nome, cor) VALUES ($1,$2) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, s.Name, s.Color).Scan(&s.ID, &s.CreatedAt)
}

func (r *catalogRepository) ListStatusOptions(ctx context.Context) ([]domain.StatusOption, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nome, cor, created_at FROM status_opcoes ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusOption
	for rows.Next() {
		var s domain.StatusOption
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *catalogRepository) DeleteStatusOption(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM status_opcoes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
