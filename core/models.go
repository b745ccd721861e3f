package core

import "time"

type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in_progress"
	StatusPending    TaskStatus = "pending"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// Statuses lists every valid status in declaration order.
var Statuses = []TaskStatus{StatusNew, StatusInProgress, StatusPending, StatusBlocked, StatusDone}

// OverdueStatuses are the statuses a task can be overdue in; blocked and done never are.
var OverdueStatuses = []TaskStatus{StatusNew, StatusInProgress, StatusPending}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusPending, StatusBlocked, StatusDone:
		return true
	default:
		return false
	}
}

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt time.Time `db:"created_at"`
}

type Task struct {
	ID          int64       `db:"id"`
	OwnerID     *int64      `db:"owner_id"` // nil when the owner was removed
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Status      TaskStatus  `db:"status"`
	LastStatus  *TaskStatus `db:"last_status"` // status held before the most recent change
	Deadline    *time.Time  `db:"deadline"`
	CreatedAt   time.Time   `db:"created_at"`
	CategoryIDs []int64     `db:"-"`
}

func (t Task) OwnedBy(userID int64) bool {
	return t.OwnerID != nil && *t.OwnerID == userID
}

type SubTask struct {
	ID          int64      `db:"id"`
	TaskID      int64      `db:"task_id"`
	OwnerID     *int64     `db:"owner_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Status      TaskStatus `db:"status"`
	Deadline    *time.Time `db:"deadline"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (st SubTask) OwnedBy(userID int64) bool {
	return st.OwnerID != nil && *st.OwnerID == userID
}

// TaskDetail is a task together with its subtasks.
type TaskDetail struct {
	Task     Task
	SubTasks []SubTask
}

type TaskStats struct {
	Total        int
	StatusCounts map[TaskStatus]int
	Overdue      int
}

type StatusCount struct {
	Status TaskStatus `db:"status"`
	Count  int        `db:"count"`
}
