package domain

import "time"

// ResponseType distinguishes who wrote a ticket response.
type ResponseType string

const (
	ResponseTypeUser  ResponseType = "usuario"
	ResponseTypeAgent ResponseType = "atendente"
)

// Response is a message appended to a ticket thread.
type Response struct {
	ID        string
	TicketID  string
	UserID    string
	Content   string
	Type      ResponseType
	CreatedAt time.Time
}
