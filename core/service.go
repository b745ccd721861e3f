package core

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNameLen = 255

type Service struct {
	log      *slog.Logger
	db       DB
	notifier Notifier
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for deadline and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService builds the task service. A nil notifier disables status notifications.
func NewService(log *slog.Logger, db DB, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		log:      log,
		db:       db,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= maxNameLen
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Categories

func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return Category{}, invalid(ErrCategoryInvalidArgs, "name is required and must be at most 255 characters")
	}
	return s.db.CreateCategory(ctx, name)
}

// GetCategory returns an active category; soft-deleted ones are reported as not found.
func (s *Service) GetCategory(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, ErrCategoryInvalidArgs
	}
	c, err := s.db.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if c.IsDeleted {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context, includeDeleted bool) ([]Category, error) {
	return s.db.ListCategories(ctx, includeDeleted)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if id <= 0 || !validName(name) {
		return Category{}, ErrCategoryInvalidArgs
	}
	return s.db.UpdateCategory(ctx, id, name)
}

// SoftDeleteCategory marks an active category as deleted. Deleting twice fails with
// ErrCategoryNotFound.
func (s *Service) SoftDeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrCategoryInvalidArgs
	}
	return s.db.SetCategoryDeleted(ctx, id, true)
}

// RestoreCategory clears the deleted flag; the category must currently be deleted.
func (s *Service) RestoreCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrCategoryInvalidArgs
	}
	return s.db.SetCategoryDeleted(ctx, id, false)
}

// activeCategories dedupes ids and checks that each one names an active category.
// Ids in linked are already attached to the task and pass even when soft-deleted.
func (s *Service) activeCategories(ctx context.Context, ids, linked []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, invalid(ErrTaskInvalidArgs, "category ids must be positive")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if slices.Contains(linked, id) {
			out = append(out, id)
			continue
		}
		if _, err := s.GetCategory(ctx, id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
