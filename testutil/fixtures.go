package testutil

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/andarie1/task-manager/core"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TB is the part of testing.TB the fixtures need; *rapid.T satisfies it too.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

func MustCreateUser(t TB, db *FakeDB, username string) core.User {
	t.Helper()

	u, err := db.CreateUser(context.Background(), username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("failed to prepare user: %v", err)
	}
	return u
}

func MustCreateCategory(t TB, db *FakeDB, name string) core.Category {
	t.Helper()

	c, err := db.CreateCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to prepare category: %v", err)
	}
	return c
}

// MustCreateTask stores a task owned by ownerID directly, bypassing service validation.
func MustCreateTask(t TB, db *FakeDB, ownerID int64, title string, status core.TaskStatus, deadline *time.Time) core.Task {
	t.Helper()

	owner := ownerID
	task, err := db.CreateTask(context.Background(), core.Task{
		OwnerID:     &owner,
		Title:       title,
		Description: title + " description",
		Status:      status,
		Deadline:    deadline,
	})
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func MustCreateSubTask(t TB, db *FakeDB, ownerID, taskID int64, title string) core.SubTask {
	t.Helper()

	owner := ownerID
	st, err := db.CreateSubTask(context.Background(), core.SubTask{
		TaskID:  taskID,
		OwnerID: &owner,
		Title:   title,
		Status:  core.StatusNew,
	})
	if err != nil {
		t.Fatalf("failed to prepare subtask: %v", err)
	}
	return st
}

func TimePtr(v time.Time) *time.Time {
	return &v
}

func StatusPtr(v core.TaskStatus) *core.TaskStatus {
	return &v
}

func StrPtr(v string) *string {
	return &v
}
