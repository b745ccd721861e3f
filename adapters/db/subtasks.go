package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andarie1/task-manager/core"
)

const subTaskColumns = `s.id, s.task_id, s.owner_id, s.title, s.description, s.status, s.deadline, s.created_at`

func subTaskWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return core.ErrSubTaskAlreadyExists
	case isForeignKeyViolation(err) && violatedConstraint(err) == "subtasks_task_id_fkey":
		return core.ErrTaskNotFound
	case isForeignKeyViolation(err):
		return core.ErrUserNotFound
	case isCheckViolation(err):
		return core.ErrSubTaskInvalidArgs
	case errors.Is(err, sql.ErrNoRows):
		return core.ErrSubTaskNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (db *DB) CreateSubTask(ctx context.Context, st core.SubTask) (core.SubTask, error) {
	const q = `
		INSERT INTO subtasks AS s (task_id, owner_id, title, description, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + subTaskColumns + `;
	`

	var out core.SubTask
	if err := db.conn.GetContext(ctx, &out, q, st.TaskID, st.OwnerID, st.Title, st.Description, st.Status, st.Deadline); err != nil {
		return core.SubTask{}, subTaskWriteErr("insert subtask", err)
	}
	return out, nil
}

func (db *DB) GetSubTask(ctx context.Context, id int64) (core.SubTask, error) {
	const q = `SELECT ` + subTaskColumns + ` FROM subtasks s WHERE s.id = $1`

	var st core.SubTask
	if err := db.conn.GetContext(ctx, &st, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.SubTask{}, core.ErrSubTaskNotFound
		}
		return core.SubTask{}, fmt.Errorf("get subtask: %w", err)
	}
	return st, nil
}

func subTaskFilter(f core.ListSubTasksFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("s.owner_id = ?", f.OwnerID)

	if f.Status != nil {
		w.add("s.status = ?", string(*f.Status))
	}
	if f.Deadline != nil {
		w.add("s.deadline = ?", *f.Deadline)
	}
	if f.Search != "" {
		w.add("(s.title ILIKE ? OR s.description ILIKE ?)", containsPattern(f.Search))
	}
	if f.TaskName != "" {
		w.add("t.title ILIKE ?", containsPattern(f.TaskName))
	}
	return w
}

func (db *DB) ListSubTasks(ctx context.Context, f core.ListSubTasksFilter) ([]core.SubTask, int, error) {
	const from = ` FROM subtasks s JOIN tasks t ON t.id = s.task_id`
	w := subTaskFilter(f)

	var count int
	if err := db.conn.GetContext(ctx, &count, `SELECT count(*)`+from+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count subtasks: %w", err)
	}

	dir := orderDirection(f.Ordering)
	q := `SELECT ` + subTaskColumns + from + w.String() +
		fmt.Sprintf(" ORDER BY s.created_at %s, s.id %s LIMIT %s OFFSET %s", dir, dir, w.next(f.Limit), w.next(f.Offset))

	out := []core.SubTask{}
	if err := db.conn.SelectContext(ctx, &out, q, w.args...); err != nil {
		return nil, 0, fmt.Errorf("list subtasks: %w", err)
	}
	return out, count, nil
}

func (db *DB) ListSubTasksByTask(ctx context.Context, taskID int64) ([]core.SubTask, error) {
	const q = `SELECT ` + subTaskColumns + ` FROM subtasks s WHERE s.task_id = $1 ORDER BY s.id`

	out := []core.SubTask{}
	if err := db.conn.SelectContext(ctx, &out, q, taskID); err != nil {
		return nil, fmt.Errorf("list subtasks of task: %w", err)
	}
	return out, nil
}

func (db *DB) UpdateSubTask(ctx context.Context, st core.SubTask) (core.SubTask, error) {
	const q = `
		UPDATE subtasks AS s
		SET title = $2,
		    description = $3,
		    status = $4,
		    deadline = $5
		WHERE s.id = $1
		RETURNING ` + subTaskColumns + `;
	`

	var out core.SubTask
	if err := db.conn.GetContext(ctx, &out, q, st.ID, st.Title, st.Description, st.Status, st.Deadline); err != nil {
		return core.SubTask{}, subTaskWriteErr("update subtask", err)
	}
	return out, nil
}

func (db *DB) DeleteSubTask(ctx context.Context, id int64) error {
	const q = `DELETE FROM subtasks WHERE id = $1`

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrSubTaskNotFound
	}
	return nil
}
