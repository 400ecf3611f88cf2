package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TaskPatch carries the client-writable task fields of a create or update.
type TaskPatch struct {
	Title          Optional[string]
	Description    Optional[string]
	AssignedTo     Optional[string]
	Status         Optional[string]
	Priority       Optional[string]
	DueDate        Optional[time.Time]
	Tags           Optional[[]string]
	EstimatedHours Optional[float64]
	ActualHours    Optional[float64]
	ProjectID      Optional[string]
	CreatedBy      Optional[string]
}

// TeamMemberInput is a team member as written by a client.
type TeamMemberInput struct {
	User     string     `json:"user"`
	Role     string     `json:"role"`
	JoinedAt *time.Time `json:"joined_at"`
}

// BudgetInput is merged field by field onto the current budget.
type BudgetInput struct {
	Allocated Optional[float64] `json:"allocated"`
	Spent     Optional[float64] `json:"spent"`
}

// ProjectPatch carries the client-writable project fields.
type ProjectPatch struct {
	Name        Optional[string]
	Description Optional[string]
	Status      Optional[string]
	Priority    Optional[string]
	StartDate   Optional[time.Time]
	EndDate     Optional[time.Time]
	TeamMembers Optional[[]TeamMemberInput]
	Budget      Optional[BudgetInput]
	Progress    Optional[float64]
	Tags        Optional[[]string]
	CreatedBy   Optional[string]
}

// NotificationsInput is merged field by field onto current notifications.
type NotificationsInput struct {
	Email           Optional[bool] `json:"email"`
	Push            Optional[bool] `json:"push"`
	TaskAssigned    Optional[bool] `json:"task_assigned"`
	TaskCompleted   Optional[bool] `json:"task_completed"`
	DueDateReminder Optional[bool] `json:"due_date_reminder"`
}

// PreferencesInput is merged field by field onto current preferences.
type PreferencesInput struct {
	Theme         Optional[string]             `json:"theme"`
	Notifications Optional[NotificationsInput] `json:"notifications"`
}

// UserPatch carries the client-writable user fields.
type UserPatch struct {
	Name        Optional[string]
	Email       Optional[string]
	Role        Optional[string]
	Department  Optional[string]
	Avatar      Optional[string]
	IsActive    Optional[bool]
	Preferences Optional[PreferencesInput]
}

// DecodeTaskPatch reads a JSON object into a TaskPatch. Unknown and
// system-managed keys are ignored; every ill-typed field is reported.
func DecodeTaskPatch(data []byte) (TaskPatch, error) {
	var p TaskPatch
	d, err := newPatchDecoder("task", data)
	if err != nil {
		return p, err
	}
	d.field("title", &p.Title)
	d.field("description", &p.Description)
	d.field("assigned_to", &p.AssignedTo)
	d.field("status", &p.Status)
	d.field("priority", &p.Priority)
	d.field("due_date", &p.DueDate)
	d.field("tags", &p.Tags)
	d.field("estimated_hours", &p.EstimatedHours)
	d.field("actual_hours", &p.ActualHours)
	d.field("project_id", &p.ProjectID)
	d.field("created_by", &p.CreatedBy)
	return p, d.err()
}

// DecodeProjectPatch reads a JSON object into a ProjectPatch.
func DecodeProjectPatch(data []byte) (ProjectPatch, error) {
	var p ProjectPatch
	d, err := newPatchDecoder("project", data)
	if err != nil {
		return p, err
	}
	d.field("name", &p.Name)
	d.field("description", &p.Description)
	d.field("status", &p.Status)
	d.field("priority", &p.Priority)
	d.field("start_date", &p.StartDate)
	d.field("end_date", &p.EndDate)
	d.field("team_members", &p.TeamMembers)
	d.field("budget", &p.Budget)
	d.field("progress", &p.Progress)
	d.field("tags", &p.Tags)
	d.field("created_by", &p.CreatedBy)
	return p, d.err()
}

// DecodeUserPatch reads a JSON object into a UserPatch.
func DecodeUserPatch(data []byte) (UserPatch, error) {
	var p UserPatch
	d, err := newPatchDecoder("user", data)
	if err != nil {
		return p, err
	}
	d.field("name", &p.Name)
	d.field("email", &p.Email)
	d.field("role", &p.Role)
	d.field("department", &p.Department)
	d.field("avatar", &p.Avatar)
	d.field("is_active", &p.IsActive)
	d.field("preferences", &p.Preferences)
	return p, d.err()
}

type patchDecoder struct {
	raw  map[string]json.RawMessage
	verr *ValidationError
}

func newPatchDecoder(entity string, data []byte) (*patchDecoder, error) {
	d := &patchDecoder{verr: &ValidationError{Entity: entity}}
	if len(bytes.TrimSpace(data)) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(data, &d.raw); err != nil {
		d.verr.Add("body", "request body must be a JSON object")
		return nil, d.verr
	}
	return d, nil
}

func (d *patchDecoder) field(name string, dst json.Unmarshaler) {
	raw, ok := d.raw[name]
	if !ok {
		return
	}
	if err := dst.UnmarshalJSON(raw); err != nil {
		d.verr.Add(name, describeDecodeError(name, err))
	}
}

func (d *patchDecoder) err() error {
	return d.verr.Err()
}

func describeDecodeError(name string, err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s: expected %s, got %s", name, jsonKind(typeErr.Type.Kind().String()), typeErr.Value)
	}
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("%s must be an RFC 3339 timestamp or a YYYY-MM-DD date", name)
	}
	return fmt.Sprintf("%s has an invalid value", name)
}

func jsonKind(goKind string) string {
	switch goKind {
	case "float32", "float64", "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return "number"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "array"
	case "struct", "map":
		return "object"
	default:
		return goKind
	}
}
