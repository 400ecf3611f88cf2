package models

import "time"

// User roles.
const (
	UserRoleAdmin     = "admin"
	UserRoleManager   = "manager"
	UserRoleDeveloper = "developer"
	UserRoleDesigner  = "designer"
	UserRoleTester    = "tester"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Notifications are independent opt-outs, all on by default.
type Notifications struct {
	Email           bool `json:"email" bson:"email"`
	Push            bool `json:"push" bson:"push"`
	TaskAssigned    bool `json:"task_assigned" bson:"task_assigned"`
	TaskCompleted   bool `json:"task_completed" bson:"task_completed"`
	DueDateReminder bool `json:"due_date_reminder" bson:"due_date_reminder"`
}

// Preferences hold per-user UI settings.
type Preferences struct {
	Theme         string        `json:"theme" bson:"theme" validate:"oneof=light dark auto"`
	Notifications Notifications `json:"notifications" bson:"notifications"`
}

// User is a person tasks can be assigned to. Tasks reference users by name.
type User struct {
	ID          string      `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email       string      `json:"email" bson:"email" validate:"required,email_address"`
	Role        string      `json:"role" bson:"role" validate:"oneof=admin manager developer designer tester"`
	Department  string      `json:"department,omitempty" bson:"department,omitempty" validate:"max=100"`
	Avatar      string      `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsActive    bool        `json:"is_active" bson:"is_active"`
	LastLogin   *time.Time  `json:"last_login,omitempty" bson:"last_login,omitempty"`
	Preferences Preferences `json:"preferences" bson:"preferences"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// DefaultPreferences returns light theme with every notification enabled.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: ThemeLight,
		Notifications: Notifications{
			Email:           true,
			Push:            true,
			TaskAssigned:    true,
			TaskCompleted:   true,
			DueDateReminder: true,
		},
	}
}

// NewUser returns a user carrying the schema defaults.
func NewUser(now time.Time) User {
	return User{
		Role:        UserRoleDeveloper,
		IsActive:    true,
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Fields returns the stored document keyed by field name.
func (u User) Fields() map[string]any {
	return map[string]any{
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"department":  omitEmpty(u.Department),
		"avatar":      omitEmpty(u.Avatar),
		"is_active":   u.IsActive,
		"last_login":  optional(u.LastLogin),
		"preferences": u.Preferences,
		"created_at":  u.CreatedAt,
		"updated_at":  u.UpdatedAt,
	}
}

// DisplayName aliases the user's name.
func (u User) DisplayName() string {
	return u.Name
}

// UserView is the wire representation of a user.
type UserView struct {
	User
	DisplayName string `json:"display_name"`
	TaskCount   int64  `json:"task_count"`
}

// View attaches derived attributes; taskCount is computed by the caller.
func (u User) View(taskCount int64) UserView {
	return UserView{User: u, DisplayName: u.DisplayName(), TaskCount: taskCount}
}
