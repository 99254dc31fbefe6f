package domain

import (
	"strings"
	"time"
)

// StatusAberto is the status assigned to newly created tickets. The status
// vocabulary itself is open: operators manage it through the status_opcoes
// configuration list.
const StatusAberto = "Aberto"

// terminalStatuses are the states that stop SLA tracking. Matching is
// case-insensitive so variant capitalizations stored over time
// ("fechado", "FECHADO") still count as closed.
var terminalStatuses = []string{"Fechado", "Encerrado"}

// IsTerminalStatus reports whether a status ends the ticket lifecycle.
func IsTerminalStatus(status string) bool {
	for _, terminal := range terminalStatuses {
		if strings.EqualFold(status, terminal) {
			return true
		}
	}
	return false
}

// TerminalStatusesLower returns the terminal set lowercased, for use in
// normalized store-side filters.
func TerminalStatusesLower() []string {
	lowered := make([]string, len(terminalStatuses))
	for i, status := range terminalStatuses {
		lowered[i] = strings.ToLower(status)
	}
	return lowered
}

// Ticket is the aggregate for support cases (chamados).
type Ticket struct {
	ID             string
	Number         *string // human-readable numero_chamado, unique when present
	Title          string
	Description    string
	Status         string
	Level          int // severity tier 1 (low) to 3 (high)
	Estruturante   string
	CreatedAt      time.Time
	DeadlineAt     *time.Time // SLA deadline (data_prazo)
	ForwardedAt    *time.Time // set when the ticket is escalated
	ForwardedLevel *int
	ClosedAt       *time.Time // set once on the transition into a terminal status
	OwnerID        string
	InternalNotes  *string
	LastEditedAt   *time.Time
	LastEditedBy   *string
	Links          []TicketLink
}

// DisplayNumber returns the identifier shown to users: the human-readable
// number when assigned, otherwise a truncated id.
func (t *Ticket) DisplayNumber() string {
	if t.Number != nil && *t.Number != "" {
		return *t.Number
	}
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

// TicketLink is a named URL attached to a ticket.
type TicketLink struct {
	ID        string
	TicketID  string
	Name      string
	URL       string
	CreatedAt time.Time
}
