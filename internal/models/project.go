package models

import (
	"math"
	"time"
)

// Project statuses.
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Project priorities.
const (
	ProjectPriorityLow      = "low"
	ProjectPriorityMedium   = "medium"
	ProjectPriorityHigh     = "high"
	ProjectPriorityCritical = "critical"
)

// Team roles.
const (
	RoleLead      = "lead"
	RoleDeveloper = "developer"
	RoleDesigner  = "designer"
	RoleTester    = "tester"
	RoleAnalyst   = "analyst"
)

// TeamMember is keyed by the user's name.
type TeamMember struct {
	User     string    `json:"user" bson:"user" validate:"required"`
	Role     string    `json:"role" bson:"role" validate:"oneof=lead developer designer tester analyst"`
	JoinedAt time.Time `json:"joined_at" bson:"joined_at"`
}

// Budget tracks allocated and spent amounts.
type Budget struct {
	Allocated *float64 `json:"allocated,omitempty" bson:"allocated,omitempty" validate:"omitempty,gte=0"`
	Spent     float64  `json:"spent" bson:"spent" validate:"gte=0"`
}

// Project groups people around a time-boxed goal.
type Project struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string       `json:"description" bson:"description" validate:"max=1000"`
	Status      string       `json:"status" bson:"status" validate:"oneof=planning active on_hold completed cancelled"`
	Priority    string       `json:"priority" bson:"priority" validate:"oneof=low medium high critical"`
	StartDate   time.Time    `json:"start_date" bson:"start_date"`
	EndDate     *time.Time   `json:"end_date,omitempty" bson:"end_date,omitempty"`
	TeamMembers []TeamMember `json:"team_members" bson:"team_members" validate:"dive"`
	Budget      Budget       `json:"budget" bson:"budget"`
	Progress    float64      `json:"progress" bson:"progress" validate:"gte=0,lte=100"`
	Tags        []string     `json:"tags" bson:"tags" validate:"dive,max=50"`
	CreatedBy   string       `json:"created_by" bson:"created_by" validate:"required"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// NewProject returns a project carrying the schema defaults.
func NewProject(now time.Time) Project {
	return Project{
		Status:      ProjectStatusPlanning,
		Priority:    ProjectPriorityMedium,
		StartDate:   now,
		TeamMembers: []TeamMember{},
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Fields returns the stored document keyed by field name.
func (p Project) Fields() map[string]any {
	return map[string]any{
		"name":         p.Name,
		"description":  p.Description,
		"status":       p.Status,
		"priority":     p.Priority,
		"start_date":   p.StartDate,
		"end_date":     optional(p.EndDate),
		"team_members": nonNil(p.TeamMembers),
		"budget":       p.Budget,
		"progress":     p.Progress,
		"tags":         nonNil(p.Tags),
		"created_by":   p.CreatedBy,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
}

// HasMember reports whether user is on the team.
func (p Project) HasMember(user string) bool {
	for _, m := range p.TeamMembers {
		if m.User == user {
			return true
		}
	}
	return false
}

// DurationInDays is nil while the project has no end date.
func (p Project) DurationInDays() *int {
	if p.EndDate == nil {
		return nil
	}
	days := int(math.Ceil(float64(p.EndDate.Sub(p.StartDate)) / float64(day)))
	return &days
}

// RemainingBudget is nil while no budget is allocated.
func (p Project) RemainingBudget() *float64 {
	if p.Budget.Allocated == nil {
		return nil
	}
	remaining := *p.Budget.Allocated - p.Budget.Spent
	return &remaining
}

// ProjectView is the wire representation of a project.
type ProjectView struct {
	Project
	DurationInDays  *int     `json:"duration_in_days"`
	RemainingBudget *float64 `json:"remaining_budget"`
	TaskCount       int64    `json:"task_count"`
}

// View attaches derived attributes; taskCount is computed by the caller.
func (p Project) View(taskCount int64) ProjectView {
	return ProjectView{
		Project:         p,
		DurationInDays:  p.DurationInDays(),
		RemainingBudget: p.RemainingBudget(),
		TaskCount:       taskCount,
	}
}
