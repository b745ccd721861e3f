package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andarie1/task-manager/core"
)

const userColumns = `id, username, email, password_hash, created_at`

func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	const q = `
		INSERT INTO users(username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns + `;
	`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, username, email, passwordHash); err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrUserAlreadyExists
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (core.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return db.getUser(ctx, q, id)
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return db.getUser(ctx, q, username)
}

func (db *DB) getUser(ctx context.Context, q string, arg any) (core.User, error) {
	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
