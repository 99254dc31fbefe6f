package domain

import "time"

// AuditAction identifies the kind of change recorded in a log entry.
type AuditAction string

const (
	AuditActionCreated        AuditAction = "created"
	AuditActionUpdate         AuditAction = "update"
	AuditActionStatusChange   AuditAction = "status_change"
	AuditActionEscalation     AuditAction = "escalation"
	AuditActionMovedToPlanner AuditAction = "moved_to_planner"
	AuditActionResponseAdded  AuditAction = "response_added"
	AuditActionNotesUpdated   AuditAction = "notes_updated"
	AuditActionLinkAdded      AuditAction = "link_added"
	AuditActionLinkRemoved    AuditAction = "link_removed"
	AuditActionDeleted        AuditAction = "deleted"
)

// AuditLogEntry is an append-only record of a ticket mutation. Entries are
// created alongside every mutating operation and never updated or deleted.
type AuditLogEntry struct {
	ID           string
	TicketID     string
	UserID       string
	Action       AuditAction
	ChangedField *string
	OldValue     *string
	NewValue     *string
	CreatedAt    time.Time
}
