package core

import (
	"context"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type UsersDB interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

type CategoriesDB interface {
	CreateCategory(ctx context.Context, name string) (Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context, includeDeleted bool) ([]Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (Category, error)
	// SetCategoryDeleted flips the flag only when it currently holds !deleted,
	// otherwise it returns ErrCategoryNotFound.
	SetCategoryDeleted(ctx context.Context, id int64, deleted bool) error
}

type TasksDB interface {
	CreateTask(ctx context.Context, t Task) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, f ListTasksFilter) ([]Task, int, error)
	UpdateTask(ctx context.Context, t Task) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
	CountTasksByStatus(ctx context.Context, ownerID int64) ([]StatusCount, error)
	CountOverdueTasks(ctx context.Context, ownerID int64, now time.Time, statuses []TaskStatus) (int, error)
}

type SubTasksDB interface {
	CreateSubTask(ctx context.Context, st SubTask) (SubTask, error)
	GetSubTask(ctx context.Context, id int64) (SubTask, error)
	ListSubTasks(ctx context.Context, f ListSubTasksFilter) ([]SubTask, int, error)
	ListSubTasksByTask(ctx context.Context, taskID int64) ([]SubTask, error)
	UpdateSubTask(ctx context.Context, st SubTask) (SubTask, error)
	DeleteSubTask(ctx context.Context, id int64) error
}

type TokensDB interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error)
}

// DB is the storage port implemented by adapters/db and testutil.FakeDB.
type DB interface {
	Pinger
	UsersDB
	CategoriesDB
	TasksDB
	SubTasksDB
	TokensDB
}

// StatusChange describes a task save that moved the task to a new status.
type StatusChange struct {
	Task       Task
	From       TaskStatus
	To         TaskStatus
	OwnerEmail string
}

// Notifier is the post-write hook run after a task save changed its status.
type Notifier interface {
	TaskStatusChanged(ctx context.Context, change StatusChange) error
}

type TokenPair struct {
	Access  string
	Refresh string
}

type Claims struct {
	UserID    int64
	Username  string
	ID        string // jti
	ExpiresAt time.Time
}

// Tokens issues and verifies signed access and refresh tokens.
type Tokens interface {
	Issue(u User) (TokenPair, error)
	IssueAccess(userID int64, username string) (string, error)
	ParseAccess(token string) (Claims, error)
	ParseRefresh(token string) (Claims, error)
}
