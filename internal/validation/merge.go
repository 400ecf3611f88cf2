package validation

import (
	"slices"
	"strings"
	"time"

	"tracker/internal/models"
)

func applyTask(t *models.Task, p models.TaskPatch) {
	setString(&t.Title, p.Title)
	setString(&t.Description, p.Description)
	setString(&t.AssignedTo, p.AssignedTo)
	setDefaulted(&t.Status, p.Status, models.TaskStatusTodo)
	setDefaulted(&t.Priority, p.Priority, models.TaskPriorityMedium)
	setTime(&t.DueDate, p.DueDate)
	setTags(&t.Tags, p.Tags)
	setNumber(&t.EstimatedHours, p.EstimatedHours)
	setNumber(&t.ActualHours, p.ActualHours)
	setString(&t.ProjectID, p.ProjectID)
	setString(&t.CreatedBy, p.CreatedBy)
}

func applyProject(pr *models.Project, p models.ProjectPatch, now time.Time) {
	setString(&pr.Name, p.Name)
	setString(&pr.Description, p.Description)
	setDefaulted(&pr.Status, p.Status, models.ProjectStatusPlanning)
	setDefaulted(&pr.Priority, p.Priority, models.ProjectPriorityMedium)
	if p.StartDate.Set {
		pr.StartDate = models.NormalizeTime(now)
		if !p.StartDate.Null {
			pr.StartDate = models.NormalizeTime(p.StartDate.Value)
		}
	}
	setTime(&pr.EndDate, p.EndDate)
	if p.TeamMembers.Set {
		members := make([]models.TeamMember, 0, len(p.TeamMembers.Value))
		for _, in := range p.TeamMembers.Value {
			members = append(members, newTeamMember(in, now))
		}
		pr.TeamMembers = members
	}
	if p.Budget.Set {
		if p.Budget.Null {
			pr.Budget = models.Budget{}
		} else {
			setNumber(&pr.Budget.Allocated, p.Budget.Value.Allocated)
			if p.Budget.Value.Spent.Set {
				pr.Budget.Spent = p.Budget.Value.Spent.Value
			}
		}
	}
	if p.Progress.Set {
		pr.Progress = p.Progress.Value
	}
	setTags(&pr.Tags, p.Tags)
	setString(&pr.CreatedBy, p.CreatedBy)
}

func applyUser(u *models.User, p models.UserPatch) {
	setString(&u.Name, p.Name)
	if p.Email.Set {
		u.Email = strings.ToLower(strings.TrimSpace(p.Email.Value))
	}
	setDefaulted(&u.Role, p.Role, models.UserRoleDeveloper)
	setString(&u.Department, p.Department)
	setString(&u.Avatar, p.Avatar)
	if p.IsActive.Set {
		u.IsActive = p.IsActive.Null || p.IsActive.Value
	}
	if p.Preferences.Set {
		if p.Preferences.Null {
			u.Preferences = models.DefaultPreferences()
		} else {
			applyPreferences(&u.Preferences, p.Preferences.Value)
		}
	}
}

func applyPreferences(prefs *models.Preferences, in models.PreferencesInput) {
	setDefaulted(&prefs.Theme, in.Theme, models.ThemeLight)
	if !in.Notifications.Set {
		return
	}
	if in.Notifications.Null {
		prefs.Notifications = models.DefaultPreferences().Notifications
		return
	}
	n := in.Notifications.Value
	setFlag(&prefs.Notifications.Email, n.Email)
	setFlag(&prefs.Notifications.Push, n.Push)
	setFlag(&prefs.Notifications.TaskAssigned, n.TaskAssigned)
	setFlag(&prefs.Notifications.TaskCompleted, n.TaskCompleted)
	setFlag(&prefs.Notifications.DueDateReminder, n.DueDateReminder)
}

func newTeamMember(in models.TeamMemberInput, now time.Time) models.TeamMember {
	m := models.TeamMember{
		User:     strings.TrimSpace(in.User),
		Role:     strings.TrimSpace(in.Role),
		JoinedAt: models.NormalizeTime(now),
	}
	if m.Role == "" {
		m.Role = models.RoleDeveloper
	}
	if in.JoinedAt != nil {
		m.JoinedAt = models.NormalizeTime(*in.JoinedAt)
	}
	return m
}

func cloneTask(t models.Task) models.Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}

func cloneProject(p models.Project) models.Project {
	p.TeamMembers = slices.Clone(p.TeamMembers)
	p.Tags = slices.Clone(p.Tags)
	return p
}

// setString trims; null clears.
func setString(dst *string, o models.Optional[string]) {
	if o.Set {
		*dst = strings.TrimSpace(o.Value)
	}
}

// setDefaulted trims; null restores the schema default.
func setDefaulted(dst *string, o models.Optional[string], def string) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = def
		return
	}
	*dst = strings.TrimSpace(o.Value)
}

func setTime(dst **time.Time, o models.Optional[time.Time]) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := models.NormalizeTime(o.Value)
	*dst = &v
}

func setNumber(dst **float64, o models.Optional[float64]) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := o.Value
	*dst = &v
}

func setFlag(dst *bool, o models.Optional[bool]) {
	if o.Set {
		*dst = o.Null || o.Value
	}
}

func setTags(dst *[]string, o models.Optional[[]string]) {
	if !o.Set {
		return
	}
	tags := make([]string, 0, len(o.Value))
	for _, tag := range o.Value {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	*dst = tags
}
