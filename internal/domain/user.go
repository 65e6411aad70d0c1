package domain

import "time"

// User is the domain entity for a registered account.
// Email is stored normalized (trimmed, lowercased) and is unique.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
