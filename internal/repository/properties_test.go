package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/internal/models"
	"tracker/internal/query"
)

func TestSearch_MatchesTitleSubstring(t *testing.T) {
	f := newFixture(t)
	f.task(t, "Design user authentication flow", "ana", nil)
	f.task(t, "Set up database", "ana", nil)

	got, err := f.repo.ListTasks(context.Background(), query.Params{"search": "auth"})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Design user authentication flow" {
		t.Fatalf("search: %v", titles(got))
	}
}

func TestUserActiveFilter_EmptyMeansUnfiltered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "Ada", "ada@example.com", nil)
	f.user(t, "Bob", "bob@example.com", func(p *models.UserPatch) { p.IsActive = models.Some(false) })

	all, err := f.repo.ListUsers(ctx, query.Params{"active": ""})
	if err != nil || len(all) != 2 {
		t.Fatalf("active=\"\": %d %v", len(all), err)
	}
	active, err := f.repo.ListUsers(ctx, query.Params{"active": "true"})
	if err != nil || len(active) != 1 || !active[0].IsActive {
		t.Fatalf("active=true: %+v %v", active, err)
	}
}

func TestPartialUpdate_DescriptionOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.task(t, "Ship", "ana", func(p *models.TaskPatch) {
		p.Status = models.Some(models.TaskStatusCompleted)
		p.Priority = models.Some(models.TaskPriorityUrgent)
		p.Tags = models.Some([]string{"release"})
	})

	f.clock.Advance(time.Hour)
	got, err := f.repo.UpdateTask(ctx, v.ID, models.TaskPatch{Description: models.Some("notes")})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Description != "notes" {
		t.Fatalf("description: %q", got.Description)
	}
	if got.Status != v.Status || got.Priority != v.Priority || got.Title != v.Title || got.AssignedTo != v.AssignedTo {
		t.Fatalf("unrelated fields changed: before %+v after %+v", v.Task, got.Task)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(*v.CompletedAt) {
		t.Fatalf("completed_at changed: %v -> %v", v.CompletedAt, got.CompletedAt)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "release" {
		t.Fatalf("tags changed: %v", got.Tags)
	}
}

func TestCreateTask_DueDateRules(t *testing.T) {
	f := newFixture(t)
	_, err := f.repo.CreateTask(context.Background(), models.TaskPatch{
		Title:      models.Some("Late"),
		AssignedTo: models.Some("ana"),
		DueDate:    models.Some(f.clock.Now().Add(-time.Minute)),
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) || !verr.Has("due_date") {
		t.Fatalf("past due_date: got %v", err)
	}
	f.task(t, "No due date", "ana", nil)
}

func TestCreateProject_EndDateRules(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.repo.CreateProject(context.Background(), models.ProjectPatch{
		Name:      models.Some("Apollo"),
		CreatedBy: models.Some("ana"),
		StartDate: models.Some(start),
		EndDate:   models.Some(start),
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) || !verr.Has("end_date") {
		t.Fatalf("end_date == start_date: got %v", err)
	}
	if v := f.project(t, "Open ended", nil); v.DurationInDays != nil {
		t.Fatalf("duration without end date: %v", *v.DurationInDays)
	}
}
