package models

import "time"

// TaskStatus is the two-state lifecycle of a task. DONE is terminal.
type TaskStatus string

const (
	StatusNotDone TaskStatus = "NOT_DONE"
	StatusDone    TaskStatus = "DONE"
)

// Task represents a to-do item owned by exactly one user.
type Task struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	Created     time.Time  `db:"created" json:"created"`
	Updated     time.Time  `db:"updated" json:"updated"`
	UserID      int64      `db:"user_id" json:"-"`
}

// TaskRequest is the body of create_todo and edit_todo. Description must be
// present but may be empty, so an edit never drops it by omission.
type TaskRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=255"`
	Description *string `json:"description" binding:"required"`
}
