package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/internal/models"
	"tracker/internal/query"
)

func (f fixture) user(t *testing.T, name, email string, extra func(*models.UserPatch)) models.UserView {
	t.Helper()
	p := models.UserPatch{Name: models.Some(name), Email: models.Some(email)}
	if extra != nil {
		extra(&p)
	}
	v, err := f.repo.CreateUser(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateUser %q: %v", name, err)
	}
	return v
}

func TestCreateUser_DefaultsAndNormalizedEmail(t *testing.T) {
	f := newFixture(t)
	v := f.user(t, "Ada", " Ada@Example.com ", nil)
	if v.Email != "ada@example.com" || v.Role != models.UserRoleDeveloper || !v.IsActive {
		t.Fatalf("defaults: %+v", v.User)
	}
	if v.DisplayName != "Ada" || v.Preferences != models.DefaultPreferences() {
		t.Fatalf("derived/preferences: %+v", v)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "Ada", "ada@example.com", nil)

	_, err := f.repo.CreateUser(ctx, models.UserPatch{Name: models.Some("Imposter"), Email: models.Some("ADA@example.com")})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("duplicate email: got %v", err)
	}

	other := f.user(t, "Bob", "bob@example.com", nil)
	_, err = f.repo.UpdateUser(ctx, other.ID, models.UserPatch{Email: models.Some("ada@example.com")})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("duplicate email on update: got %v", err)
	}
}

func TestUserTaskCountAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "Ada", "ada@example.com", nil)
	f.task(t, "one", "Ada", nil)
	f.task(t, "two", "Ada", nil)
	f.task(t, "three", "Bob", nil)

	got, err := f.repo.GetUser(ctx, u.ID)
	if err != nil || got.TaskCount != 2 {
		t.Fatalf("task_count: %d %v", got.TaskCount, err)
	}
	if got.LastLogin != nil {
		t.Fatalf("last_login should start unset")
	}

	f.clock.Advance(time.Hour)
	logged, err := f.repo.TouchLastLogin(ctx, u.ID)
	if err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}
	if logged.LastLogin == nil || !logged.LastLogin.Equal(f.clock.Now()) {
		t.Fatalf("last_login: %v", logged.LastLogin)
	}
}

func TestListUsers_Filters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "Zed", "zed@example.com", func(p *models.UserPatch) { p.Role = models.Some(models.UserRoleTester) })
	f.user(t, "Amy", "amy@example.com", func(p *models.UserPatch) {
		p.Role = models.Some(models.UserRoleTester)
		p.Department = models.Some("QA")
	})
	f.user(t, "Max", "max@example.com", func(p *models.UserPatch) {
		p.Role = models.Some(models.UserRoleTester)
		p.IsActive = models.Some(false)
	})

	all, err := f.repo.ListUsers(ctx, query.Params{})
	if err != nil || len(all) != 3 || all[0].Name != "Amy" || all[2].Name != "Zed" {
		t.Fatalf("ListUsers by name: %+v %v", all, err)
	}

	inactive, err := f.repo.ListUsers(ctx, query.Params{"active": "false"})
	if err != nil || len(inactive) != 1 || inactive[0].Name != "Max" {
		t.Fatalf("active=false: %+v %v", inactive, err)
	}

	dept, err := f.repo.ListUsers(ctx, query.Params{"department": "QA"})
	if err != nil || len(dept) != 1 || dept[0].Name != "Amy" {
		t.Fatalf("department: %+v %v", dept, err)
	}

	testers, err := f.repo.ListUsersByRole(ctx, models.UserRoleTester)
	if err != nil || len(testers) != 2 {
		t.Fatalf("ListUsersByRole: %+v %v", testers, err)
	}

	active, err := f.repo.ListActiveUsers(ctx)
	if err != nil || len(active) != 2 {
		t.Fatalf("ListActiveUsers: %+v %v", active, err)
	}

	found, err := f.repo.ListUsers(ctx, query.Params{"search": "AMY@"})
	if err != nil || len(found) != 1 {
		t.Fatalf("search: %+v %v", found, err)
	}
}

func TestUpdateUser_PreferencesAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "Ada", "ada@example.com", nil)

	got, err := f.repo.UpdateUser(ctx, u.ID, models.UserPatch{Preferences: models.Some(models.PreferencesInput{
		Theme: models.Some(models.ThemeDark),
	})})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.Preferences.Theme != models.ThemeDark || !got.Preferences.Notifications.Email {
		t.Fatalf("preferences: %+v", got.Preferences)
	}

	if _, err := f.repo.UpdateUser(ctx, u.ID, models.UserPatch{Name: models.Some("A")}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("short name: got %v", err)
	}

	if err := f.repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := f.repo.GetUser(ctx, u.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetUser after delete: %v", err)
	}
}
