package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"tracker/internal/lifecycle"
	"tracker/internal/models"
	"tracker/internal/query"
	"tracker/internal/storage"
)

// ListProjects returns projects matching the list parameters.
func (r *Repository) ListProjects(ctx context.Context, params query.Params) ([]models.ProjectView, error) {
	return r.findProjects(ctx, query.ProjectFilter(params))
}

// ListActiveProjects returns active projects by priority, then most recent start.
func (r *Repository) ListActiveProjects(ctx context.Context) ([]models.ProjectView, error) {
	return r.findProjects(ctx, query.ActiveProjects())
}

// ListProjectsByMember returns the projects user is a team member of.
func (r *Repository) ListProjectsByMember(ctx context.Context, user string) ([]models.ProjectView, error) {
	return r.findProjects(ctx, query.ProjectsByMember(strings.TrimSpace(user)))
}

func (r *Repository) findProjects(ctx context.Context, f query.Filter) ([]models.ProjectView, error) {
	var projects []models.Project
	if err := r.store.FindMany(ctx, storage.Projects, f, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	views := make([]models.ProjectView, 0, len(projects))
	for _, p := range projects {
		v, err := r.projectView(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *Repository) projectView(ctx context.Context, p models.Project) (models.ProjectView, error) {
	n, err := r.store.Count(ctx, storage.Tasks, query.TasksInProject(p.ID))
	if err != nil {
		return models.ProjectView{}, fmt.Errorf("count project tasks: %w", err)
	}
	return p.View(n), nil
}

// GetProject returns one project with its task count.
func (r *Repository) GetProject(ctx context.Context, id string) (models.ProjectView, error) {
	p, err := r.getProject(ctx, id)
	if err != nil {
		return models.ProjectView{}, err
	}
	return r.projectView(ctx, p)
}

func (r *Repository) getProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	if err := r.store.FindByID(ctx, storage.Projects, id, &p); err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// CreateProject validates p against the defaults and stores the new project.
func (r *Repository) CreateProject(ctx context.Context, p models.ProjectPatch) (models.ProjectView, error) {
	now := r.clock()
	pr, err := r.validate.Project(p, nil, now)
	if err != nil {
		return models.ProjectView{}, err
	}
	pr.ID = r.newID()
	pr.CreatedAt, pr.UpdatedAt = now, now

	if err := r.store.Insert(ctx, storage.Projects, pr.ID, pr); err != nil {
		return models.ProjectView{}, fmt.Errorf("create project: %w", err)
	}
	return r.GetProject(ctx, pr.ID)
}

// UpdateProject applies a partial update and returns the stored result.
func (r *Repository) UpdateProject(ctx context.Context, id string, p models.ProjectPatch) (models.ProjectView, error) {
	current, err := r.getProject(ctx, id)
	if err != nil {
		return models.ProjectView{}, err
	}
	next, err := r.validate.Project(p, &current, r.clock())
	if err != nil {
		return models.ProjectView{}, err
	}
	return r.saveProject(ctx, current, next)
}

// AddTeamMember puts user on the roster. A user already present is left
// untouched and nothing is written.
func (r *Repository) AddTeamMember(ctx context.Context, id, user, role string) (models.ProjectView, error) {
	current, err := r.getProject(ctx, id)
	if err != nil {
		return models.ProjectView{}, err
	}
	m, err := r.validate.TeamMember(user, role, r.clock())
	if err != nil {
		return models.ProjectView{}, err
	}

	next := current
	next.TeamMembers = slices.Clone(current.TeamMembers)
	if !lifecycle.AddTeamMember(&next, m) {
		return r.projectView(ctx, current)
	}
	r.logger.WithFields(logrus.Fields{"project_id": id, "user": m.User}).Debug("team member added")
	return r.saveProject(ctx, current, next)
}

// RemoveTeamMember drops user from the roster; absent users are a no-op.
func (r *Repository) RemoveTeamMember(ctx context.Context, id, user string) (models.ProjectView, error) {
	current, err := r.getProject(ctx, id)
	if err != nil {
		return models.ProjectView{}, err
	}

	next := current
	next.TeamMembers = slices.Clone(current.TeamMembers)
	if !lifecycle.RemoveTeamMember(&next, strings.TrimSpace(user)) {
		return r.projectView(ctx, current)
	}
	r.logger.WithFields(logrus.Fields{"project_id": id, "user": user}).Debug("team member removed")
	return r.saveProject(ctx, current, next)
}

func (r *Repository) saveProject(ctx context.Context, current, next models.Project) (models.ProjectView, error) {
	fields := diffFields(current.Fields(), next.Fields())
	if len(fields) == 0 {
		return r.projectView(ctx, current)
	}
	fields["updated_at"] = r.clock()

	if err := r.store.UpdateByID(ctx, storage.Projects, current.ID, fields); err != nil {
		return models.ProjectView{}, fmt.Errorf("update project: %w", err)
	}
	return r.GetProject(ctx, current.ID)
}

// DeleteProject permanently removes a project. Its tasks keep their
// project_id.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	if err := r.store.DeleteByID(ctx, storage.Projects, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
