package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/andarie1/task-manager/core"
)

const taskColumns = `id, owner_id, title, description, status, last_status, deadline, created_at`

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

func taskWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return core.ErrTaskAlreadyExists
	case isForeignKeyViolation(err) && violatedConstraint(err) == "task_categories_category_id_fkey":
		return core.ErrCategoryNotFound
	case isForeignKeyViolation(err):
		return core.ErrUserNotFound
	case isCheckViolation(err):
		return core.ErrTaskInvalidArgs
	case errors.Is(err, sql.ErrNoRows):
		return core.ErrTaskNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (db *DB) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	const q = `
		INSERT INTO tasks(owner_id, title, description, status, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns + `;
	`

	var out core.Task
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := sqlx.GetContext(ctx, tx, &out, q, t.OwnerID, t.Title, t.Description, t.Status, t.Deadline); err != nil {
			return taskWriteErr("insert task", err)
		}
		if err := linkCategories(ctx, tx, out.ID, t.CategoryIDs); err != nil {
			return taskWriteErr("link task categories", err)
		}
		out.CategoryIDs = append([]int64{}, t.CategoryIDs...)
		return nil
	})
	if err != nil {
		return core.Task{}, err
	}
	return out, nil
}

func (db *DB) GetTask(ctx context.Context, id int64) (core.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}

	tasks := []core.Task{t}
	if err := loadCategories(ctx, db.conn, tasks); err != nil {
		return core.Task{}, err
	}
	return tasks[0], nil
}

// taskFilter builds the WHERE clause shared by the list and count queries.
func taskFilter(f core.ListTasksFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("owner_id = ?", f.OwnerID)

	if f.Status != nil {
		w.add("status = ?", string(*f.Status))
	}
	if f.Deadline != nil {
		w.add("deadline = ?", *f.Deadline)
	}
	if f.Search != "" {
		w.add("(title ILIKE ? OR description ILIKE ?)", containsPattern(f.Search))
	}
	if f.Day != nil {
		w.add("EXTRACT(DOW FROM created_at AT TIME ZONE 'UTC') = ?", int(*f.Day))
	}
	return w
}

func (db *DB) ListTasks(ctx context.Context, f core.ListTasksFilter) ([]core.Task, int, error) {
	w := taskFilter(f)

	var count int
	if err := db.conn.GetContext(ctx, &count, `SELECT count(*) FROM tasks`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	dir := orderDirection(f.Ordering)
	q := `SELECT ` + taskColumns + ` FROM tasks` + w.String() +
		fmt.Sprintf(" ORDER BY created_at %s, id %s LIMIT %s OFFSET %s", dir, dir, w.next(f.Limit), w.next(f.Offset))

	out := []core.Task{}
	if err := db.conn.SelectContext(ctx, &out, q, w.args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	if err := loadCategories(ctx, db.conn, out); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func (db *DB) UpdateTask(ctx context.Context, t core.Task) (core.Task, error) {
	const q = `
		UPDATE tasks
		SET title = $2,
		    description = $3,
		    status = $4,
		    last_status = $5,
		    deadline = $6
		WHERE id = $1
		RETURNING ` + taskColumns + `;
	`

	var out core.Task
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := sqlx.GetContext(ctx, tx, &out, q, t.ID, t.Title, t.Description, t.Status, t.LastStatus, t.Deadline); err != nil {
			return taskWriteErr("update task", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_categories WHERE task_id = $1`, t.ID); err != nil {
			return fmt.Errorf("unlink task categories: %w", err)
		}
		if err := linkCategories(ctx, tx, t.ID, t.CategoryIDs); err != nil {
			return taskWriteErr("link task categories", err)
		}
		out.CategoryIDs = append([]int64{}, t.CategoryIDs...)
		return nil
	})
	if err != nil {
		return core.Task{}, err
	}
	return out, nil
}

// DeleteTask removes the task; subtasks and category links go with it by cascade.
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1`

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

func (db *DB) CountTasksByStatus(ctx context.Context, ownerID int64) ([]core.StatusCount, error) {
	const q = `
		SELECT status, count(*) AS count
		FROM tasks
		WHERE owner_id = $1
		GROUP BY status
		ORDER BY status;
	`

	out := []core.StatusCount{}
	if err := db.conn.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	return out, nil
}

func (db *DB) CountOverdueTasks(ctx context.Context, ownerID int64, now time.Time, statuses []core.TaskStatus) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	q, args, err := sqlx.In(`
		SELECT count(*)
		FROM tasks
		WHERE owner_id = ? AND deadline < ? AND status IN (?);
	`, ownerID, now, statusStrings(statuses))
	if err != nil {
		return 0, fmt.Errorf("build overdue query: %w", err)
	}

	var n int
	if err := db.conn.GetContext(ctx, &n, db.conn.Rebind(q), args...); err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return n, nil
}

func statusStrings(statuses []core.TaskStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// task categories

func linkCategories(ctx context.Context, tx queryer, taskID int64, categoryIDs []int64) error {
	for _, cid := range categoryIDs {
		const q = `INSERT INTO task_categories(task_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, q, taskID, cid); err != nil {
			return err
		}
	}
	return nil
}

// loadCategories fills CategoryIDs for every task in place with one query.
func loadCategories(ctx context.Context, conn queryer, tasks []core.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]int64, len(tasks))
	byID := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = i
		tasks[i].CategoryIDs = []int64{}
	}

	q, args, err := sqlx.In(`
		SELECT task_id, category_id
		FROM task_categories
		WHERE task_id IN (?)
		ORDER BY task_id, category_id;
	`, ids)
	if err != nil {
		return fmt.Errorf("build task categories query: %w", err)
	}

	var links []struct {
		TaskID     int64 `db:"task_id"`
		CategoryID int64 `db:"category_id"`
	}
	if err := sqlx.SelectContext(ctx, conn, &links, conn.Rebind(q), args...); err != nil {
		return fmt.Errorf("load task categories: %w", err)
	}

	for _, l := range links {
		i := byID[l.TaskID]
		tasks[i].CategoryIDs = append(tasks[i].CategoryIDs, l.CategoryID)
	}
	return nil
}
