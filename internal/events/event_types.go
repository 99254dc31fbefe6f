package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "chamado_created"
	EventTicketStatusChanged EventType = "chamado_status_changed"
	EventTicketEscalated     EventType = "chamado_escalated"
	EventTicketResponseAdded EventType = "chamado_response_added"
	EventTicketDeleted       EventType = "chamado_deleted"
	EventDeadlineExpired     EventType = "chamado_deadline_expired"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"chamado_id"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Number       *string `json:"numero_chamado,omitempty"`
	Title        string  `json:"titulo"`
	Level        int     `json:"nivel"`
	Estruturante string  `json:"estruturante"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus string `json:"status_antigo"`
	NewStatus string `json:"status_novo"`
}

// EscalatedPayload payload.
type EscalatedPayload struct {
	OldLevel    int       `json:"nivel_antigo"`
	NewLevel    int       `json:"nivel_novo"`
	NewDeadline time.Time `json:"data_prazo"`
}

// DeadlineExpiredPayload payload.
type DeadlineExpiredPayload struct {
	Number   string    `json:"numero"`
	Title    string    `json:"titulo"`
	Deadline time.Time `json:"data_prazo"`
}
