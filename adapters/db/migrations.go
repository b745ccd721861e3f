package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_categories.up.sql
var createCategoriesUp string

//go:embed migrations/03_create_tasks.up.sql
var createTasksUp string

//go:embed migrations/04_create_subtasks.up.sql
var createSubTasksUp string

//go:embed migrations/05_create_revoked_tokens.up.sql
var createRevokedTokensUp string

var migrations = []struct {
	name string
	sql  string
}{
	{"users", createUsersUp},
	{"categories", createCategoriesUp},
	{"tasks", createTasksUp},
	{"subtasks", createSubTasksUp},
	{"revoked tokens", createRevokedTokensUp},
}

// Migrate применяет миграции по порядку; каждая идемпотентна.
func (db *DB) Migrate() error {
	db.log.Debug("running migrations")

	for _, m := range migrations {
		if _, err := db.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("apply %s migration: %w", m.name, err)
		}
	}

	db.log.Debug("migrations finished")
	return nil
}
