package dto

import "time"

// CreateEstruturanteRequest payload.
type CreateEstruturanteRequest struct {
	Name string `json:"nome"`
}

// EstruturanteResponse response.
type EstruturanteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStatusOptionRequest payload.
type CreateStatusOptionRequest struct {
	Name  string `json:"nome"`
	Color string `json:"cor"`
}

// StatusOptionResponse response.
type StatusOptionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Color     string    `json:"cor"`
	CreatedAt time.Time `json:"created_at"`
}
