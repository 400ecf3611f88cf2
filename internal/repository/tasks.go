package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tracker/internal/lifecycle"
	"tracker/internal/models"
	"tracker/internal/query"
	"tracker/internal/storage"
)

// ListTasks returns tasks matching the list parameters, newest first.
func (r *Repository) ListTasks(ctx context.Context, params query.Params) ([]models.TaskView, error) {
	return r.findTasks(ctx, query.TaskFilter(params))
}

// ListTasksByStatus returns tasks in one status, newest first.
func (r *Repository) ListTasksByStatus(ctx context.Context, status string) ([]models.TaskView, error) {
	return r.findTasks(ctx, query.TasksByStatus(status))
}

// ListOverdueTasks returns open tasks past their due date.
func (r *Repository) ListOverdueTasks(ctx context.Context) ([]models.TaskView, error) {
	return r.findTasks(ctx, query.OverdueTasks(r.clock()))
}

func (r *Repository) findTasks(ctx context.Context, f query.Filter) ([]models.TaskView, error) {
	var tasks []models.Task
	if err := r.store.FindMany(ctx, storage.Tasks, f, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	now := r.clock()
	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.View(now))
	}
	return views, nil
}

// GetTask returns one task.
func (r *Repository) GetTask(ctx context.Context, id string) (models.TaskView, error) {
	t, err := r.getTask(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	return t.View(r.clock()), nil
}

func (r *Repository) getTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	if err := r.store.FindByID(ctx, storage.Tasks, id, &t); err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CreateTask validates p against the defaults and stores the new task.
func (r *Repository) CreateTask(ctx context.Context, p models.TaskPatch) (models.TaskView, error) {
	now := r.clock()
	t, err := r.validate.Task(p, nil, now)
	if err != nil {
		return models.TaskView{}, err
	}
	t, effects := lifecycle.TaskTransition(nil, t, now)
	t.ID = r.newID()
	t.CreatedAt, t.UpdatedAt = now, now

	if err := r.store.Insert(ctx, storage.Tasks, t.ID, t); err != nil {
		return models.TaskView{}, fmt.Errorf("create task: %w", err)
	}
	r.logEffects("task", t.ID, effects)
	return r.GetTask(ctx, t.ID)
}

// UpdateTask applies a partial update and returns the stored result.
func (r *Repository) UpdateTask(ctx context.Context, id string, p models.TaskPatch) (models.TaskView, error) {
	current, err := r.getTask(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	now := r.clock()
	next, err := r.validate.Task(p, &current, now)
	if err != nil {
		return models.TaskView{}, err
	}
	next, effects := lifecycle.TaskTransition(&current, next, now)
	return r.saveTask(ctx, current, next, effects)
}

// ChangeTaskStatus moves a task to status, stamping or clearing completed_at.
func (r *Repository) ChangeTaskStatus(ctx context.Context, id, status string) (models.TaskView, error) {
	current, err := r.getTask(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	now := r.clock()
	checked, err := r.validate.Task(models.TaskPatch{Status: models.Some(status)}, &current, now)
	if err != nil {
		return models.TaskView{}, err
	}
	next, effects := lifecycle.ChangeStatus(current, checked.Status, now)
	return r.saveTask(ctx, current, next, effects)
}

// MarkTaskCompleted completes a task; repeating it keeps the first
// completion time.
func (r *Repository) MarkTaskCompleted(ctx context.Context, id string) (models.TaskView, error) {
	current, err := r.getTask(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	next, effects := lifecycle.MarkCompleted(current, r.clock())
	return r.saveTask(ctx, current, next, effects)
}

func (r *Repository) saveTask(ctx context.Context, current, next models.Task, effects []lifecycle.Effect) (models.TaskView, error) {
	now := r.clock()
	fields := diffFields(current.Fields(), next.Fields())
	if len(fields) == 0 {
		return current.View(now), nil
	}
	fields["updated_at"] = now

	if err := r.store.UpdateByID(ctx, storage.Tasks, current.ID, fields); err != nil {
		return models.TaskView{}, fmt.Errorf("update task: %w", err)
	}
	r.logEffects("task", current.ID, effects)
	return r.GetTask(ctx, current.ID)
}

// DeleteTask permanently removes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	if err := r.store.DeleteByID(ctx, storage.Tasks, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// TeamMemberRoster returns the sorted, distinct, non-blank assignee names.
func (r *Repository) TeamMemberRoster(ctx context.Context) ([]string, error) {
	raw, err := r.store.Distinct(ctx, storage.Tasks, "assigned_to")
	if err != nil {
		return nil, fmt.Errorf("team member roster: %w", err)
	}
	seen := make(map[string]struct{}, len(raw))
	roster := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		roster = append(roster, name)
	}
	sort.Strings(roster)
	return roster, nil
}
