// Package storage declares the document store the repository writes
// through. Backends live in the sqlite and mongodb subpackages.
package storage

import (
	"context"

	"tracker/internal/query"
)

// Collection names a set of documents of one entity kind.
type Collection string

const (
	Tasks    Collection = "tasks"
	Projects Collection = "projects"
	Users    Collection = "users"
)

// Collections lists every collection a backend must provision.
var Collections = []Collection{Tasks, Projects, Users}

// Store is a document store. Implementations translate their native
// failures into models.ErrNotFound, models.ErrDuplicateKey and
// models.ErrStorageUnavailable.
type Store interface {
	// FindMany decodes every document matching f into out, a pointer to a slice.
	FindMany(ctx context.Context, c Collection, f query.Filter, out any) error
	// FindByID decodes one document into out.
	FindByID(ctx context.Context, c Collection, id string, out any) error
	// Insert stores doc under id.
	Insert(ctx context.Context, c Collection, id string, doc any) error
	// UpdateByID sets each top-level field in fields; nil values remove the field.
	UpdateByID(ctx context.Context, c Collection, id string, fields map[string]any) error
	// DeleteByID removes one document.
	DeleteByID(ctx context.Context, c Collection, id string) error
	// Distinct returns the distinct non-null string values of field.
	Distinct(ctx context.Context, c Collection, field string) ([]string, error)
	// Count returns the number of documents matching f.
	Count(ctx context.Context, c Collection, f query.Filter) (int64, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	Close() error
}
