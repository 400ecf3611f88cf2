package repository

import (
	"context"
	"errors"
	"fmt"

	"tracker/internal/models"
	"tracker/internal/query"
	"tracker/internal/storage"
)

// ListUsers returns users matching the list parameters, by name.
func (r *Repository) ListUsers(ctx context.Context, params query.Params) ([]models.UserView, error) {
	return r.findUsers(ctx, query.UserFilter(params))
}

// ListActiveUsers returns users with is_active set.
func (r *Repository) ListActiveUsers(ctx context.Context) ([]models.UserView, error) {
	return r.findUsers(ctx, query.ActiveUsers())
}

// ListUsersByRole returns active users holding role.
func (r *Repository) ListUsersByRole(ctx context.Context, role string) ([]models.UserView, error) {
	return r.findUsers(ctx, query.UsersByRole(role))
}

func (r *Repository) findUsers(ctx context.Context, f query.Filter) ([]models.UserView, error) {
	var users []models.User
	if err := r.store.FindMany(ctx, storage.Users, f, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		v, err := r.userView(ctx, u)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// userView counts tasks assigned to the user's name, the same string
// tasks carry in assigned_to.
func (r *Repository) userView(ctx context.Context, u models.User) (models.UserView, error) {
	n, err := r.store.Count(ctx, storage.Tasks, query.TasksByAssignee(u.Name))
	if err != nil {
		return models.UserView{}, fmt.Errorf("count user tasks: %w", err)
	}
	return u.View(n), nil
}

// GetUser returns one user with their task count.
func (r *Repository) GetUser(ctx context.Context, id string) (models.UserView, error) {
	u, err := r.getUser(ctx, id)
	if err != nil {
		return models.UserView{}, err
	}
	return r.userView(ctx, u)
}

func (r *Repository) getUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := r.store.FindByID(ctx, storage.Users, id, &u); err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser validates p and stores the new user. The email must not be
// registered already.
func (r *Repository) CreateUser(ctx context.Context, p models.UserPatch) (models.UserView, error) {
	now := r.clock()
	u, err := r.validate.User(p, nil, now)
	if err != nil {
		return models.UserView{}, err
	}
	u.ID = r.newID()
	u.CreatedAt, u.UpdatedAt = now, now

	if err := r.store.Insert(ctx, storage.Users, u.ID, u); err != nil {
		return models.UserView{}, fmt.Errorf("create user: %w", emailConflict(u.Email, err))
	}
	return r.GetUser(ctx, u.ID)
}

// UpdateUser applies a partial update and returns the stored result.
func (r *Repository) UpdateUser(ctx context.Context, id string, p models.UserPatch) (models.UserView, error) {
	current, err := r.getUser(ctx, id)
	if err != nil {
		return models.UserView{}, err
	}
	next, err := r.validate.User(p, &current, r.clock())
	if err != nil {
		return models.UserView{}, err
	}
	return r.saveUser(ctx, current, next)
}

// TouchLastLogin records a login at the current time.
func (r *Repository) TouchLastLogin(ctx context.Context, id string) (models.UserView, error) {
	current, err := r.getUser(ctx, id)
	if err != nil {
		return models.UserView{}, err
	}
	now := r.clock()
	next := current
	next.LastLogin = &now
	return r.saveUser(ctx, current, next)
}

func (r *Repository) saveUser(ctx context.Context, current, next models.User) (models.UserView, error) {
	fields := diffFields(current.Fields(), next.Fields())
	if len(fields) == 0 {
		return r.userView(ctx, current)
	}
	fields["updated_at"] = r.clock()

	if err := r.store.UpdateByID(ctx, storage.Users, current.ID, fields); err != nil {
		return models.UserView{}, fmt.Errorf("update user: %w", emailConflict(next.Email, err))
	}
	return r.GetUser(ctx, current.ID)
}

// DeleteUser permanently removes a user. Tasks assigned to them are kept.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	if err := r.store.DeleteByID(ctx, storage.Users, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func emailConflict(email string, err error) error {
	if errors.Is(err, models.ErrDuplicateKey) {
		return fmt.Errorf("email %s is already registered: %w", email, models.ErrDuplicateKey)
	}
	return err
}
