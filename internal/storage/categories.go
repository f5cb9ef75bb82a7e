package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendtrack/internal/core"
)

// querier is satisfied by both *sql.DB and *sql.Tx so category resolution
// can run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// categoryIDByName resolves a category name to its stable id. Name matching
// is exact: categories are unique case-sensitively as stored.
func categoryIDByName(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve category %q: %w", name, err)
	}
	return id, nil
}

// CreateCategory inserts a new category. Custom categories come from the
// user; non-custom ones are seeded by migrations only.
func (s *Store) CreateCategory(ctx context.Context, name string, isCustom bool) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyName
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, is_custom) VALUES (?, ?)`, name, boolToInt(isCustom))
	if isUniqueViolation(err) {
		return core.Category{}, fmt.Errorf("category %q: %w", name, core.ErrCategoryExists)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", name, "is_custom", isCustom)
	return core.Category{ID: id, Name: name, IsCustom: isCustom}, nil
}

// ListCategories returns all categories, defaults first, then by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_custom, created_at FROM categories ORDER BY is_custom ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		var custom int
		if err := rows.Scan(&c.ID, &c.Name, &custom, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsCustom = custom != 0
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// RenameCategory renames a custom category. Expense and budget rows hold the
// category id, so every read through them reports the new name as soon as
// the single UPDATE commits. Collisions are checked case-insensitively.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.ErrEmptyName
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		var custom int
		err := tx.QueryRowContext(ctx,
			`SELECT id, is_custom FROM categories WHERE name = ?`, oldName).Scan(&id, &custom)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %q: %w", oldName, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("resolve category %q: %w", oldName, err)
		}
		if custom == 0 {
			return core.ErrDefaultCategory
		}

		var collision int64
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE name = ? COLLATE NOCASE AND id != ?`,
			newName, id).Scan(&collision)
		if err != nil {
			return fmt.Errorf("check rename collision: %w", err)
		}
		if collision > 0 {
			return fmt.Errorf("rename %q to %q: %w", oldName, newName, core.ErrCategoryExists)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name = ? WHERE id = ?`, newName, id); err != nil {
			return fmt.Errorf("rename category: %w", err)
		}

		slog.InfoContext(ctx, "Category renamed", "id", id, "old", oldName, "new", newName)
		return nil
	})
}

// DeleteCategory removes a custom category that no expense or budget still
// references. Rejections report the exact usage counts.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		var custom int
		err := tx.QueryRowContext(ctx,
			`SELECT id, is_custom FROM categories WHERE name = ?`, name).Scan(&id, &custom)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %q: %w", name, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("resolve category %q: %w", name, err)
		}
		if custom == 0 {
			return core.ErrDefaultCategory
		}

		var expenses, budgets int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM expenses WHERE category_id = ?`, id).Scan(&expenses); err != nil {
			return fmt.Errorf("count expense usage: %w", err)
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM budgets WHERE category_id = ?`, id).Scan(&budgets); err != nil {
			return fmt.Errorf("count budget usage: %w", err)
		}
		if expenses > 0 || budgets > 0 {
			return &core.CategoryInUseError{Name: name, Expenses: expenses, Budgets: budgets}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}

		slog.InfoContext(ctx, "Category deleted", "id", id, "name", name)
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
