package model

import "time"

// User represents a registered buyer.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}
