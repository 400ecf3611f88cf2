// Package validation enforces entity constraints before anything reaches
// storage. Constraints are declared once as struct tags on the models and
// checked against the merged state of every create and update.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tracker/internal/models"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Engine validates and normalizes entity writes.
type Engine struct {
	validate *validator.Validate
}

// New builds an Engine with the custom rules registered.
func New() *Engine {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(projectDateOrder, models.Project{})
	return &Engine{validate: v}
}

// Task merges p onto existing (or onto the schema defaults when existing is
// nil) and validates the result.
func (e *Engine) Task(p models.TaskPatch, existing *models.Task, now time.Time) (models.Task, error) {
	verr := &models.ValidationError{Entity: "task"}

	var t models.Task
	if existing != nil {
		t = cloneTask(*existing)
	} else {
		t = models.NewTask(now)
	}
	applyTask(&t, p)

	// Only a due date that is part of this write must lie in the future.
	if p.DueDate.Present() && !t.DueDate.After(now) {
		verr.Add("due_date", "due_date must be in the future")
	}
	e.check(t, verr)
	return t, verr.Err()
}

// Project merges p onto existing (or the defaults) and validates the result,
// including the end_date > start_date rule against the merged dates.
func (e *Engine) Project(p models.ProjectPatch, existing *models.Project, now time.Time) (models.Project, error) {
	verr := &models.ValidationError{Entity: "project"}

	var pr models.Project
	if existing != nil {
		pr = cloneProject(*existing)
	} else {
		pr = models.NewProject(now)
	}
	applyProject(&pr, p, now)

	e.check(pr, verr)
	return pr, verr.Err()
}

// User merges p onto existing (or the defaults) and validates the result.
// Emails are lowercased before checking; uniqueness is left to storage.
func (e *Engine) User(p models.UserPatch, existing *models.User, now time.Time) (models.User, error) {
	verr := &models.ValidationError{Entity: "user"}

	var u models.User
	if existing != nil {
		u = *existing
	} else {
		u = models.NewUser(now)
	}
	applyUser(&u, p)

	e.check(u, verr)
	return u, verr.Err()
}

// TeamMember validates a roster addition, defaulting the role to developer.
func (e *Engine) TeamMember(user, role string, now time.Time) (models.TeamMember, error) {
	verr := &models.ValidationError{Entity: "team member"}
	m := newTeamMember(models.TeamMemberInput{User: user, Role: role}, now)
	e.check(m, verr)
	return m, verr.Err()
}

func (e *Engine) check(v any, verr *models.ValidationError) {
	err := e.validate.Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		verr.Add(field, message(field, fe))
	}
}

func projectDateOrder(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(models.Project)
	if !ok {
		return
	}
	if p.EndDate != nil && !p.EndDate.After(p.StartDate) {
		sl.ReportError(p.EndDate, "end_date", "EndDate", "after_start_date", "")
	}
}

// fieldPath drops the root struct name: "Project.budget.spent" -> "budget.spent".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(field string, fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required and must be non-empty", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot be more than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "email_address":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "after_start_date":
		return "end_date must be after start_date"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
