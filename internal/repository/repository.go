// Package repository is the only caller of the storage layer. Every write
// passes through validation and the lifecycle rules before it is stored,
// and every read comes back with its derived attributes attached.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tracker/internal/lifecycle"
	"tracker/internal/models"
	"tracker/internal/storage"
	"tracker/internal/validation"
)

// Repository exposes list/get/create/update/delete per entity.
type Repository struct {
	store    storage.Store
	validate *validation.Engine
	logger   logrus.FieldLogger
	now      func() time.Time
	newID    func() string
}

// Option customizes a Repository.
type Option func(*Repository)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithValidator replaces the default validation engine.
func WithValidator(e *validation.Engine) Option {
	return func(r *Repository) { r.validate = e }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// New wires a repository around store. The caller owns the store lifecycle.
func New(store storage.Store, logger logrus.FieldLogger, opts ...Option) *Repository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Repository{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.validate == nil {
		r.validate = validation.New()
	}
	return r
}

// Ping reports storage connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) clock() time.Time {
	return models.NormalizeTime(r.now())
}

func (r *Repository) logEffects(kind, id string, effects []lifecycle.Effect) {
	for _, e := range effects {
		r.logger.WithFields(logrus.Fields{
			"entity": kind,
			"id":     id,
			"effect": string(e),
		}).Debug("lifecycle rule applied")
	}
}

// diffFields returns the fields of next whose stored form differs from old.
func diffFields(old, next map[string]any) map[string]any {
	changed := make(map[string]any)
	for k, v := range next {
		if !sameValue(old[k], v) {
			changed[k] = v
		}
	}
	return changed
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
