package domain

import "time"

// Task statuses. Transitions between them are unrestricted.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is owned by exactly one user; every query against it is
// scoped by UserID.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
