package dto

import "time"

// NotificationResponse represents one unread notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"chamado_id"`
	Message   string    `json:"mensagem"`
	Viewed    bool      `json:"visualizada"`
	CreatedAt time.Time `json:"created_at"`
}
