// Package lifecycle holds the state-dependent mutations applied around
// writes: completion stamping on tasks and roster changes on projects.
package lifecycle

import (
	"time"

	"tracker/internal/models"
)

// Effect names a side effect a transition produced.
type Effect string

const (
	EffectCompletionStamped Effect = "completion_stamped"
	EffectCompletionCleared Effect = "completion_cleared"
)

// TaskTransition returns next with completed_at reconciled against the
// status change from old. A nil old means next is being created.
//
// completed_at is set exactly when status is completed after every call.
func TaskTransition(old *models.Task, next models.Task, now time.Time) (models.Task, []Effect) {
	statusChanged := old == nil || old.Status != next.Status
	if !statusChanged {
		if old.CompletedAt != nil {
			completedAt := *old.CompletedAt
			next.CompletedAt = &completedAt
		} else {
			next.CompletedAt = nil
		}
		return next, nil
	}

	if next.IsCompleted() {
		if next.CompletedAt == nil {
			stamp := now
			next.CompletedAt = &stamp
			return next, []Effect{EffectCompletionStamped}
		}
		return next, nil
	}

	if next.CompletedAt != nil {
		next.CompletedAt = nil
		return next, []Effect{EffectCompletionCleared}
	}
	return next, nil
}

// MarkCompleted moves t to completed. Repeating it keeps the first
// completion time.
func MarkCompleted(t models.Task, now time.Time) (models.Task, []Effect) {
	return ChangeStatus(t, models.TaskStatusCompleted, now)
}

// ChangeStatus moves t to status, stamping or clearing completed_at.
func ChangeStatus(t models.Task, status string, now time.Time) (models.Task, []Effect) {
	next := t
	next.Status = status
	return TaskTransition(&t, next, now)
}

// AddTeamMember appends m unless a member with the same user already
// exists. It reports whether the roster changed.
func AddTeamMember(p *models.Project, m models.TeamMember) bool {
	if p.HasMember(m.User) {
		return false
	}
	p.TeamMembers = append(p.TeamMembers, m)
	return true
}

// RemoveTeamMember drops every entry for user. It reports whether the
// roster changed.
func RemoveTeamMember(p *models.Project, user string) bool {
	kept := make([]models.TeamMember, 0, len(p.TeamMembers))
	for _, m := range p.TeamMembers {
		if m.User != user {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(p.TeamMembers) {
		return false
	}
	p.TeamMembers = kept
	return true
}
