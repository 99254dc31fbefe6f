package domain

import "time"

// Estruturante is an organizational unit tickets belong to.
type Estruturante struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// StatusOption is one entry of the operator-managed status vocabulary.
type StatusOption struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}
