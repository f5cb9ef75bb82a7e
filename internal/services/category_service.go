package services

import (
	"context"
	"strings"

	"spendtrack/internal/core"
)

// CategoryStore is the storage surface the category service needs.
type CategoryStore interface {
	CreateCategory(ctx context.Context, name string, isCustom bool) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error
}

// CategoryService manages the category taxonomy. Default categories are
// seeded by migrations and are immutable through this service.
type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// Create adds a user-defined category.
func (s *CategoryService) Create(ctx context.Context, name string) (core.Category, error) {
	if strings.TrimSpace(name) == "" {
		return core.Category{}, core.ErrEmptyName
	}
	return s.store.CreateCategory(ctx, strings.TrimSpace(name), true)
}

// List returns all categories, defaults first.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

// Rename renames a custom category. All expense and budget reads reflect the
// new name atomically with the rename.
func (s *CategoryService) Rename(ctx context.Context, oldName, newName string) error {
	return s.store.RenameCategory(ctx, oldName, strings.TrimSpace(newName))
}

// Delete removes an unused custom category. In-use categories are rejected
// with their exact usage counts.
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	return s.store.DeleteCategory(ctx, name)
}
