package query

import (
	"reflect"
	"testing"
	"time"
)

func TestTaskFilter_IgnoresEmptyAndUnknownParams(t *testing.T) {
	f := TaskFilter(Params{"status": "  ", "priority": "", "colour": "red"})
	if len(f.Conditions) != 0 {
		t.Fatalf("conditions: got %+v, want none", f.Conditions)
	}
	if !reflect.DeepEqual(f.Sort, []SortKey{Desc("created_at")}) {
		t.Fatalf("sort: got %+v", f.Sort)
	}
}

func TestTaskFilter_AllParams(t *testing.T) {
	f := TaskFilter(Params{
		"status":     "todo",
		"priority":   "high",
		"assignedTo": "ana",
		"project_id": "p1",
		"search":     "Report",
	})
	want := []Condition{
		{Op: OpEq, Field: "status", Value: "todo"},
		{Op: OpEq, Field: "priority", Value: "high"},
		{Op: OpEq, Field: "assigned_to", Value: "ana"},
		{Op: OpEq, Field: "project_id", Value: "p1"},
		{Op: OpSearch, Fields: []string{"title", "description"}, Value: "Report"},
	}
	if !reflect.DeepEqual(f.Conditions, want) {
		t.Fatalf("conditions:\n got %+v\nwant %+v", f.Conditions, want)
	}
}

func TestTaskFilter_AssignedToPrefersSnakeCase(t *testing.T) {
	f := TaskFilter(Params{"assigned_to": "bob", "assignedTo": "ana"})
	if len(f.Conditions) != 1 || f.Conditions[0].Value != "bob" {
		t.Fatalf("conditions: %+v", f.Conditions)
	}
}

func TestProjectFilter_Member(t *testing.T) {
	f := ProjectFilter(Params{"member": "dana"})
	want := Condition{Op: OpMember, Field: "team_members", ElemField: "user", Value: "dana"}
	if len(f.Conditions) != 1 || !reflect.DeepEqual(f.Conditions[0], want) {
		t.Fatalf("conditions: %+v", f.Conditions)
	}
	if !reflect.DeepEqual(f.Sort, []SortKey{Desc("start_date")}) {
		t.Fatalf("sort: %+v", f.Sort)
	}
}

func TestUserFilter_ActiveFlag(t *testing.T) {
	cases := map[string]any{"true": true, "false": false, "yes": false}
	for raw, want := range cases {
		f := UserFilter(Params{"active": raw})
		if len(f.Conditions) != 1 || f.Conditions[0].Field != "is_active" || f.Conditions[0].Value != want {
			t.Errorf("active=%q: got %+v", raw, f.Conditions)
		}
	}
	if f := UserFilter(Params{"active": ""}); len(f.Conditions) != 0 {
		t.Errorf("empty active should be ignored: %+v", f.Conditions)
	}
}

func TestBuild_DispatchesByKind(t *testing.T) {
	p := Params{"search": "x"}
	if got := Build(KindUser, p); !reflect.DeepEqual(got, UserFilter(p)) {
		t.Fatalf("Build(user): %+v", got)
	}
	if got := Build(Kind("widget"), p); len(got.Conditions) != 0 || len(got.Sort) != 0 {
		t.Fatalf("Build(unknown): %+v", got)
	}
}

func TestOverdueTasks(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	f := OverdueTasks(now)
	want := []Condition{
		{Op: OpLt, Field: "due_date", Value: now},
		{Op: OpNe, Field: "status", Value: "completed"},
	}
	if !reflect.DeepEqual(f.Conditions, want) {
		t.Fatalf("conditions: %+v", f.Conditions)
	}
	if !reflect.DeepEqual(f.Sort, []SortKey{Asc("due_date")}) {
		t.Fatalf("sort: %+v", f.Sort)
	}
}

func TestFilter_BuildersDoNotAlias(t *testing.T) {
	base := Filter{}.Eq("status", "todo")
	a := base.Eq("priority", "low")
	b := base.Eq("priority", "high")
	if a.Conditions[1].Value != "low" || b.Conditions[1].Value != "high" {
		t.Fatalf("derived filters share storage: %+v / %+v", a.Conditions, b.Conditions)
	}
	if len(base.Conditions) != 1 {
		t.Fatalf("base filter mutated: %+v", base.Conditions)
	}
}

func TestUsersByRole(t *testing.T) {
	f := UsersByRole("tester")
	want := []Condition{
		{Op: OpEq, Field: "role", Value: "tester"},
		{Op: OpEq, Field: "is_active", Value: true},
	}
	if !reflect.DeepEqual(f.Conditions, want) {
		t.Fatalf("conditions: %+v", f.Conditions)
	}
}
