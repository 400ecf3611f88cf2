package mongodb

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tracker/internal/models"
	"tracker/internal/query"
)

func TestFilterDocument(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	f := query.Filter{}.
		Eq("status", "active").
		Ne("status", "completed").
		Lt("due_date", now).
		Member("team_members", "user", "dana").
		Search("a.b", "name", "description")

	want := bson.D{
		{Key: "status", Value: "active"},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: "completed"}}},
		{Key: "due_date", Value: bson.D{{Key: "$lt", Value: now}}},
		{Key: "team_members.user", Value: "dana"},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: `a\.b`}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "description", Value: bson.D{{Key: "$regex", Value: `a\.b`}, {Key: "$options", Value: "i"}}}},
		}},
	}
	if got := filterDocument(f.Conditions); !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDocument:\n got %v\nwant %v", got, want)
	}

	if got := filterDocument(nil); len(got) != 0 {
		t.Fatalf("empty filter: got %v", got)
	}
}

func TestSortDocument(t *testing.T) {
	got := sortDocument([]query.SortKey{query.Desc("priority"), query.Asc("name")})
	want := bson.D{{Key: "priority", Value: -1}, {Key: "name", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sortDocument: got %v, want %v", got, want)
	}
}

func TestUpdateDocument_SplitsSetAndUnset(t *testing.T) {
	got := updateDocument(map[string]any{
		"title":    "renamed",
		"due_date": nil,
		"priority": "high",
	})
	want := bson.D{
		{Key: "$set", Value: bson.D{{Key: "priority", Value: "high"}, {Key: "title", Value: "renamed"}}},
		{Key: "$unset", Value: bson.D{{Key: "due_date", Value: ""}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("updateDocument:\n got %v\nwant %v", got, want)
	}

	onlySet := updateDocument(map[string]any{"title": "x"})
	if len(onlySet) != 1 || onlySet[0].Key != "$set" {
		t.Fatalf("updateDocument without removals: %v", onlySet)
	}
}

func TestTranslate(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	if err := translate(dup); !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("duplicate key: got %v", err)
	}
	if err := translate(fmt.Errorf("find: %w", context.DeadlineExceeded)); !errors.Is(err, models.ErrStorageUnavailable) {
		t.Fatalf("timeout: got %v", err)
	}
	if err := translate(mongo.ErrClientDisconnected); !errors.Is(err, models.ErrStorageUnavailable) {
		t.Fatalf("disconnected: got %v", err)
	}
	plain := errors.New("boom")
	if err := translate(plain); err != plain {
		t.Fatalf("unrelated errors pass through: got %v", err)
	}
	if translate(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}

func TestOpen_RequiresURIAndDatabase(t *testing.T) {
	if _, err := Open(context.Background(), "", "tracker", time.Second, nil); err == nil {
		t.Fatalf("expected an error without a uri")
	}
}
