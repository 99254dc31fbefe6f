package dto

import (
	"time"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string `json:"titulo"`
	Description  string `json:"descricao_usuario"`
	Level        int    `json:"nivel"`
	Estruturante string `json:"estruturante"`
}

// UpdateTicketRequest payload; omitted fields stay unchanged.
type UpdateTicketRequest struct {
	Title        *string `json:"titulo"`
	Status       *string `json:"status"`
	Level        *int    `json:"nivel"`
	Estruturante *string `json:"estruturante"`
}

// UpdateNotesRequest payload.
type UpdateNotesRequest struct {
	Notes string `json:"anotacoes_internas"`
}

// CreateResponseRequest payload.
type CreateResponseRequest struct {
	Content string `json:"conteudo"`
	Type    string `json:"tipo"`
}

// CreateLinkRequest payload.
type CreateLinkRequest struct {
	Name string `json:"nome"`
	URL  string `json:"url"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string     `json:"id"`
	Number       *string    `json:"numero_chamado"`
	Title        string     `json:"titulo"`
	Status       string     `json:"status"`
	Level        int        `json:"nivel"`
	Estruturante string     `json:"estruturante"`
	CreatedAt    time.Time  `json:"data_criacao"`
	DeadlineAt   *time.Time `json:"data_prazo"`
	ClosedAt     *time.Time `json:"data_fechamento"`
	Expired      bool       `json:"prazo_expirado"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID             string             `json:"id"`
	Number         *string            `json:"numero_chamado"`
	Title          string             `json:"titulo"`
	Description    string             `json:"descricao_usuario"`
	Status         string             `json:"status"`
	Level          int                `json:"nivel"`
	Estruturante   string             `json:"estruturante"`
	CreatedAt      time.Time          `json:"data_criacao"`
	DeadlineAt     *time.Time         `json:"data_prazo"`
	ForwardedAt    *time.Time         `json:"data_encaminhamento"`
	ForwardedLevel *int               `json:"nivel_encaminhado"`
	ClosedAt       *time.Time         `json:"data_fechamento"`
	InternalNotes  *string            `json:"anotacoes_internas"`
	Expired        bool               `json:"prazo_expirado"`
	Links          []LinkResponse     `json:"links"`
	Responses      []ResponseResponse `json:"respostas"`
	AuditTrail     []AuditLogResponse `json:"historico"`
}

// LinkResponse represents a related link.
type LinkResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseResponse represents one thread entry.
type ResponseResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Content   string              `json:"conteudo"`
	Type      domain.ResponseType `json:"tipo"`
	CreatedAt time.Time           `json:"data_criacao"`
}

// AuditLogResponse represents one audit trail entry.
type AuditLogResponse struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Action       domain.AuditAction `json:"acao"`
	ChangedField *string            `json:"campo_alterado"`
	OldValue     *string            `json:"valor_antigo"`
	NewValue     *string            `json:"valor_novo"`
	CreatedAt    time.Time          `json:"created_at"`
}
