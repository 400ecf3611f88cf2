package query

import (
	"time"

	"tracker/internal/models"
)

// Kind selects the entity a filter targets.
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindUser    Kind = "user"
)

// Build translates raw list parameters for kind. Empty parameters and
// unknown keys are ignored.
func Build(kind Kind, p Params) Filter {
	switch kind {
	case KindTask:
		return TaskFilter(p)
	case KindProject:
		return ProjectFilter(p)
	case KindUser:
		return UserFilter(p)
	default:
		return Filter{}
	}
}

// TaskFilter accepts status, priority, assigned_to (or assignedTo),
// project_id and search. Newest tasks come first.
func TaskFilter(p Params) Filter {
	var f Filter
	if v := p.Get("status"); v != "" {
		f = f.Eq("status", v)
	}
	if v := p.Get("priority"); v != "" {
		f = f.Eq("priority", v)
	}
	if v := p.Get("assigned_to", "assignedTo"); v != "" {
		f = f.Eq("assigned_to", v)
	}
	if v := p.Get("project_id"); v != "" {
		f = f.Eq("project_id", v)
	}
	if v := p.Get("search"); v != "" {
		f = f.Search(v, "title", "description")
	}
	return f.OrderBy(Desc("created_at"))
}

// ProjectFilter accepts status, priority, member and search. Latest start
// date comes first.
func ProjectFilter(p Params) Filter {
	var f Filter
	if v := p.Get("status"); v != "" {
		f = f.Eq("status", v)
	}
	if v := p.Get("priority"); v != "" {
		f = f.Eq("priority", v)
	}
	if v := p.Get("member"); v != "" {
		f = f.Member("team_members", "user", v)
	}
	if v := p.Get("search"); v != "" {
		f = f.Search(v, "name", "description")
	}
	return f.OrderBy(Desc("start_date"))
}

// UserFilter accepts role, department, active and search, ordered by name.
// active is true only for the literal "true"; any other non-empty value
// selects inactive users.
func UserFilter(p Params) Filter {
	var f Filter
	if v := p.Get("role"); v != "" {
		f = f.Eq("role", v)
	}
	if v := p.Get("department"); v != "" {
		f = f.Eq("department", v)
	}
	if v := p.Get("active"); v != "" {
		f = f.Eq("is_active", v == "true")
	}
	if v := p.Get("search"); v != "" {
		f = f.Search(v, "name", "email")
	}
	return f.OrderBy(Asc("name"))
}

// TasksByStatus lists tasks in one status, newest first.
func TasksByStatus(status string) Filter {
	return Filter{}.Eq("status", status).OrderBy(Desc("created_at"))
}

// TasksByAssignee lists tasks assigned to a user name, newest first.
func TasksByAssignee(assignee string) Filter {
	return Filter{}.Eq("assigned_to", assignee).OrderBy(Desc("created_at"))
}

// TasksInProject lists tasks linked to a project id, newest first.
func TasksInProject(projectID string) Filter {
	return Filter{}.Eq("project_id", projectID).OrderBy(Desc("created_at"))
}

// OverdueTasks lists open tasks whose due date passed before now, most
// overdue first.
func OverdueTasks(now time.Time) Filter {
	return Filter{}.
		Lt("due_date", now).
		Ne("status", models.TaskStatusCompleted).
		OrderBy(Asc("due_date"))
}

// ActiveProjects lists active projects by priority then latest start.
// Priority is compared as stored text.
func ActiveProjects() Filter {
	return Filter{}.
		Eq("status", models.ProjectStatusActive).
		OrderBy(Desc("priority"), Desc("start_date"))
}

// ProjectsByMember lists projects whose team includes user.
func ProjectsByMember(user string) Filter {
	return Filter{}.Member("team_members", "user", user).OrderBy(Desc("start_date"))
}

// ActiveUsers lists active users by name.
func ActiveUsers() Filter {
	return Filter{}.Eq("is_active", true).OrderBy(Asc("name"))
}

// UsersByRole lists active users holding role, by name.
func UsersByRole(role string) Filter {
	return Filter{}.Eq("role", role).Eq("is_active", true).OrderBy(Asc("name"))
}
