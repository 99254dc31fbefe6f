package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OwnerID      *string
	SearchTerm   *string
	Level        *int
	Estruturante *string
	Statuses     []string
	// CreatedFromISO/CreatedToISO are UTC-normalized timestamp strings
	// produced by the sla day-boundary helpers.
	CreatedFromISO *string
	CreatedToISO   *string
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListExpired returns tickets whose deadline is set, strictly before now,
	// and whose status is not terminal (matched case-insensitively).
	ListExpired(ctx context.Context, now time.Time) ([]domain.Ticket, error)
	CountsByColumn(ctx context.Context, column string, fromISO, toISO string) (map[string]int, error)
	CountExpiredOpen(ctx context.Context, now time.Time) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, numero_chamado, titulo, descricao_usuario, status, nivel, estruturante,
               data_criacao, data_prazo, data_encaminhamento, nivel_encaminhado, data_fechamento,
               user_id, anotacoes_internas, last_edited_at, last_edited_by`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO chamados (numero_chamado, titulo, descricao_usuario, status, nivel, estruturante, data_prazo, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, data_criacao`
	return r.pool.QueryRow(ctx, query,
		ticket.Number,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Level,
		ticket.Estruturante,
		ticket.DeadlineAt,
		ticket.OwnerID,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE chamados SET titulo=$1, status=$2, nivel=$3, estruturante=$4, data_prazo=$5,
            data_encaminhamento=$6, nivel_encaminhado=$7, data_fechamento=$8,
            anotacoes_internas=$9, last_edited_at=$10, last_edited_by=$11
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Status,
		ticket.Level,
		ticket.Estruturante,
		ticket.DeadlineAt,
		ticket.ForwardedAt,
		ticket.ForwardedLevel,
		ticket.ClosedAt,
		ticket.InternalNotes,
		ticket.LastEditedAt,
		ticket.LastEditedBy,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM chamados WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM chamados WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM chamados`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Level != nil {
		args = append(args, *filter.Level)
		clauses = append(clauses, fmt.Sprintf("nivel=$%d", len(args)))
	}
	if filter.Estruturante != nil {
		args = append(args, *filter.Estruturante)
		clauses = append(clauses, fmt.Sprintf("estruturante=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFromISO != nil {
		args = append(args, *filter.CreatedFromISO)
		clauses = append(clauses, fmt.Sprintf("data_criacao >= $%d::timestamptz", len(args)))
	}
	if filter.CreatedToISO != nil {
		args = append(args, *filter.CreatedToISO)
		clauses = append(clauses, fmt.Sprintf("data_criacao <= $%d::timestamptz", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(titulo) LIKE %s OR LOWER(id::text) LIKE %s OR LOWER(COALESCE(numero_chamado,'')) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY last_edited_at DESC NULLS LAST, data_criacao DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM chamados
        WHERE data_prazo IS NOT NULL
          AND data_prazo < $1
          AND NOT (LOWER(status) = ANY($2))`
	rows, err := r.pool.Query(ctx, query, now, domain.TerminalStatusesLower())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// CountsByColumn groups tickets created inside [fromISO, toISO] by one of the
// report dimensions (status, nivel, estruturante).
func (r *ticketRepository) CountsByColumn(ctx context.Context, column string, fromISO, toISO string) (map[string]int, error) {
	switch column {
	case "status", "nivel", "estruturante":
	default:
		return nil, fmt.Errorf("unsupported report column %q", column)
	}
	query := fmt.Sprintf(`
        SELECT %s::text, COUNT(*) FROM chamados
        WHERE data_criacao >= $1::timestamptz AND data_criacao <= $2::timestamptz
        GROUP BY %s`, column, column)
	rows, err := r.pool.Query(ctx, query, fromISO, toISO)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (r *ticketRepository) CountExpiredOpen(ctx context.Context, now time.Time) (int, error) {
	const query = `
        SELECT COUNT(*) FROM chamados
        WHERE data_prazo IS NOT NULL
          AND data_prazo < $1
          AND NOT (LOWER(status) = ANY($2))`
	var count int
	err := r.pool.QueryRow(ctx, query, now, domain.TerminalStatusesLower()).Scan(&count)
	return count, err
}

func ticketFields(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.Number,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Level,
		&ticket.Estruturante,
		&ticket.CreatedAt,
		&ticket.DeadlineAt,
		&ticket.ForwardedAt,
		&ticket.ForwardedLevel,
		&ticket.ClosedAt,
		&ticket.OwnerID,
		&ticket.InternalNotes,
		&ticket.LastEditedAt,
		&ticket.LastEditedBy,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
