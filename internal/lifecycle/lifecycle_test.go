package lifecycle

import (
	"testing"
	"time"

	"tracker/internal/models"
)

var t0 = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

// completionConsistent holds when completed_at is set exactly for completed tasks.
func completionConsistent(task models.Task) bool {
	return (task.Status == models.TaskStatusCompleted) == (task.CompletedAt != nil)
}

func TestTaskTransition_CreateCompletedStampsNow(t *testing.T) {
	next := models.NewTask(t0)
	next.Status = models.TaskStatusCompleted

	got, effects := TaskTransition(nil, next, t0)
	if got.CompletedAt == nil || !got.CompletedAt.Equal(t0) {
		t.Fatalf("completed_at: got %v, want %v", got.CompletedAt, t0)
	}
	if len(effects) != 1 || effects[0] != EffectCompletionStamped {
		t.Fatalf("effects: got %v", effects)
	}
}

func TestTaskTransition_InvariantOverSequences(t *testing.T) {
	sequences := [][]string{
		{"todo", "in_progress", "completed", "review", "completed"},
		{"completed", "completed", "todo"},
		{"review", "todo", "todo", "completed", "in_progress"},
	}
	for _, seq := range sequences {
		var current *models.Task
		now := t0
		for i, status := range seq {
			next := models.NewTask(t0)
			if current != nil {
				next = *current
			}
			next.Status = status
			got, _ := TaskTransition(current, next, now)
			if !completionConsistent(got) {
				t.Fatalf("seq %v step %d (%s): completed_at=%v", seq, i, status, got.CompletedAt)
			}
			current = &got
			now = now.Add(time.Hour)
		}
	}
}

func TestTaskTransition_ClientCannotForgeCompletion(t *testing.T) {
	old := models.NewTask(t0)
	next := old
	forged := t0.Add(-72 * time.Hour)
	next.CompletedAt = &forged

	got, _ := TaskTransition(&old, next, t0)
	if got.CompletedAt != nil {
		t.Fatalf("completed_at must follow status, got %v", got.CompletedAt)
	}
}

func TestMarkCompleted_Idempotent(t *testing.T) {
	task := models.NewTask(t0)
	first, effects := MarkCompleted(task, t0)
	if len(effects) != 1 || first.CompletedAt == nil {
		t.Fatalf("first MarkCompleted: %v %v", first.CompletedAt, effects)
	}

	second, effects := MarkCompleted(first, t0.Add(time.Hour))
	if len(effects) != 0 {
		t.Fatalf("second MarkCompleted produced effects %v", effects)
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("completion time moved: %v -> %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestChangeStatus_ClearsCompletion(t *testing.T) {
	done, _ := MarkCompleted(models.NewTask(t0), t0)
	reopened, effects := ChangeStatus(done, models.TaskStatusInProgress, t0.Add(time.Hour))
	if reopened.CompletedAt != nil {
		t.Fatalf("completed_at should be cleared")
	}
	if len(effects) != 1 || effects[0] != EffectCompletionCleared {
		t.Fatalf("effects: got %v", effects)
	}
	if done.CompletedAt == nil {
		t.Fatalf("ChangeStatus mutated its input")
	}
}

func TestTeamMembers_AddAndRemoveAreIdempotent(t *testing.T) {
	p := models.NewProject(t0)
	m := models.TeamMember{User: "dana", Role: models.RoleLead, JoinedAt: t0}

	if !AddTeamMember(&p, m) {
		t.Fatalf("first add should change the roster")
	}
	if AddTeamMember(&p, models.TeamMember{User: "dana", Role: models.RoleTester, JoinedAt: t0}) {
		t.Fatalf("second add should be a no-op")
	}
	if len(p.TeamMembers) != 1 || p.TeamMembers[0].Role != models.RoleLead {
		t.Fatalf("roster: %+v", p.TeamMembers)
	}

	if !RemoveTeamMember(&p, "dana") {
		t.Fatalf("remove should change the roster")
	}
	if RemoveTeamMember(&p, "dana") {
		t.Fatalf("removing an absent user should be a no-op")
	}
	if len(p.TeamMembers) != 0 {
		t.Fatalf("roster: %+v", p.TeamMembers)
	}
}
