package models

import "time"

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusCompleted  = "completed"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task is a unit of work assigned to a person by name.
type Task struct {
	ID             string     `json:"id" bson:"_id"`
	Title          string     `json:"title" bson:"title" validate:"required,max=200"`
	Description    string     `json:"description" bson:"description" validate:"max=1000"`
	AssignedTo     string     `json:"assigned_to" bson:"assigned_to" validate:"required,max=100"`
	Status         string     `json:"status" bson:"status" validate:"oneof=todo in_progress review completed"`
	Priority       string     `json:"priority" bson:"priority" validate:"oneof=low medium high urgent"`
	DueDate        *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Tags           []string   `json:"tags" bson:"tags" validate:"dive,max=50"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty" bson:"estimated_hours,omitempty" validate:"omitempty,gte=0,lte=1000"`
	ActualHours    *float64   `json:"actual_hours,omitempty" bson:"actual_hours,omitempty" validate:"omitempty,gte=0,lte=1000"`
	ProjectID      string     `json:"project_id,omitempty" bson:"project_id,omitempty" validate:"max=100"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty" bson:"created_by,omitempty" validate:"max=100"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// NewTask returns a task carrying the schema defaults.
func NewTask(now time.Time) Task {
	return Task{
		Status:    TaskStatusTodo,
		Priority:  TaskPriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Fields returns the stored document keyed by field name. Nil values are
// absent from the document.
func (t Task) Fields() map[string]any {
	return map[string]any{
		"title":           t.Title,
		"description":     t.Description,
		"assigned_to":     t.AssignedTo,
		"status":          t.Status,
		"priority":        t.Priority,
		"due_date":        optional(t.DueDate),
		"tags":            nonNil(t.Tags),
		"estimated_hours": optional(t.EstimatedHours),
		"actual_hours":    optional(t.ActualHours),
		"project_id":      omitEmpty(t.ProjectID),
		"completed_at":    optional(t.CompletedAt),
		"created_by":      omitEmpty(t.CreatedBy),
		"created_at":      t.CreatedAt,
		"updated_at":      t.UpdatedAt,
	}
}

// IsCompleted reports whether the task is in the completed state.
func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue reports whether the due date has passed on an open task.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsCompleted()
}

// AgeInDays counts whole days since creation.
func (t Task) AgeInDays(now time.Time) int {
	return int(now.Sub(t.CreatedAt) / day)
}

// TaskView is the wire representation of a task with derived attributes.
type TaskView struct {
	Task
	AgeInDays   int  `json:"age_in_days"`
	IsOverdue   bool `json:"is_overdue"`
	IsCompleted bool `json:"is_completed"`
}

// View computes the derived attributes as of now.
func (t Task) View(now time.Time) TaskView {
	return TaskView{
		Task:        t,
		AgeInDays:   t.AgeInDays(now),
		IsOverdue:   t.IsOverdue(now),
		IsCompleted: t.IsCompleted(),
	}
}
