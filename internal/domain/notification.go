package domain

import "time"

// Notification alerts a user about an overdue ticket. At most one unread
// notification should exist per (ticket, recipient) pair; the reconciliation
// sweep checks for an existing unread row before inserting.
type Notification struct {
	ID        string
	UserID    string
	TicketID  string
	Message   string
	Unread    bool
	CreatedAt time.Time
}
