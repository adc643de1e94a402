package models

import "time"

// Task states. The only legal transition is incomplete -> complete.
const (
	TaskStateIncomplete = "INCOMPLETE"
	TaskStateComplete   = "COMPLETE"
)

// TaskFilter restricts task listings by state.
type TaskFilter string

const (
	FilterAll        TaskFilter = "ALL"
	FilterIncomplete TaskFilter = TaskFilter(TaskStateIncomplete)
	FilterComplete   TaskFilter = TaskFilter(TaskStateComplete)
)

// TaskOrder selects the ascending sort key for task listings.
type TaskOrder string

const (
	OrderByDescription TaskOrder = "DESCRIPTION"
	OrderByCreatedAt   TaskOrder = "CREATED_AT"
	OrderByCompletedAt TaskOrder = "COMPLETED_AT"
)

// Task is a single todo item owned by exactly one user.
type Task struct {
	ID          string
	Description string
	State       string
	CreatedAt   time.Time

	// CompletedAt is nil until the task transitions to complete and is never
	// reset afterwards.
	CompletedAt *time.Time

	Owner string
}
