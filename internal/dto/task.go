package dto

import "time"

// CreateTaskRequest is the JSON body for POST /task.
// Status defaults to "pending" when omitted.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is the partial JSON body for PUT /task/:id.
// nil = leave field unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeleteTaskResponse is returned on successful delete.
type DeleteTaskResponse struct {
	Message string `json:"message"`
}
