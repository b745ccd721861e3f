package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andarie1/task-manager/core"
)

const categoryColumns = `id, name, is_deleted, created_at`

func (db *DB) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	const q = `
		INSERT INTO categories(name)
		VALUES ($1)
		RETURNING ` + categoryColumns + `;
	`

	var c core.Category
	if err := db.conn.GetContext(ctx, &c, q, name); err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, core.ErrCategoryAlreadyExists
		}
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// GetCategory returns the row whether or not it is soft-deleted.
func (db *DB) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	var c core.Category
	if err := db.conn.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, core.ErrCategoryNotFound
		}
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (db *DB) ListCategories(ctx context.Context, includeDeleted bool) ([]core.Category, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE $1 OR NOT is_deleted
		ORDER BY lower(name) ASC;
	`

	out := []core.Category{}
	if err := db.conn.SelectContext(ctx, &out, q, includeDeleted); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (db *DB) UpdateCategory(ctx context.Context, id int64, name string) (core.Category, error) {
	const q = `
		UPDATE categories
		SET name = $2
		WHERE id = $1 AND NOT is_deleted
		RETURNING ` + categoryColumns + `;
	`

	var c core.Category
	if err := db.conn.GetContext(ctx, &c, q, id, name); err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, core.ErrCategoryAlreadyExists
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, core.ErrCategoryNotFound
		}
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (db *DB) SetCategoryDeleted(ctx context.Context, id int64, deleted bool) error {
	const q = `UPDATE categories SET is_deleted = $2 WHERE id = $1 AND is_deleted <> $2`

	res, err := db.conn.ExecContext(ctx, q, id, deleted)
	if err != nil {
		return fmt.Errorf("set category deleted: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}
