package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andarie1/task-manager/core"
	"github.com/andarie1/task-manager/testutil"
)

var fixedNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC) // a Wednesday

func newServiceWithFakeDB() (*testutil.FakeDB, *testutil.RecordingNotifier, *core.Service) {
	db := testutil.NewFakeDB()
	db.Now = func() time.Time { return fixedNow }
	notifier := &testutil.RecordingNotifier{}
	svc := core.NewService(testutil.DiscardLogger(), db, notifier, core.WithClock(func() time.Time { return fixedNow }))
	return db, notifier, svc
}

// Categories

func TestServiceCreateCategory_EmptyName(t *testing.T) {
	t.Parallel()

	_, _, svc := newServiceWithFakeDB()

	_, err := svc.CreateCategory(context.Background(), "   ")
	if !errors.Is(err, core.ErrCategoryInvalidArgs) {
		t.Fatalf("expected ErrCategoryInvalidArgs, got %v", err)
	}
}

func TestServiceCreateCategory_Duplicate(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	testutil.MustCreateCategory(t, db, "work")

	_, err := svc.CreateCategory(context.Background(), " work ")
	if !errors.Is(err, core.ErrCategoryAlreadyExists) {
		t.Fatalf("expected ErrCategoryAlreadyExists, got %v", err)
	}
}

func TestServiceSoftDeleteCategory_Lifecycle(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	work := testutil.MustCreateCategory(t, db, "work")
	testutil.MustCreateCategory(t, db, "home")

	if err := svc.SoftDeleteCategory(ctx, work.ID); err != nil {
		t.Fatalf("SoftDeleteCategory returned error: %v", err)
	}

	active, err := svc.ListCategories(ctx, false)
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if len(active) != 1 || active[0].Name != "home" {
		t.Fatalf("expected only home in default list, got %+v", active)
	}

	all, err := svc.ListCategories(ctx, true)
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected deleted category in full list, got %+v", all)
	}

	if _, err := svc.GetCategory(ctx, work.ID); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected deleted category to be hidden, got %v", err)
	}

	if err := svc.RestoreCategory(ctx, work.ID); err != nil {
		t.Fatalf("RestoreCategory returned error: %v", err)
	}

	active, err = svc.ListCategories(ctx, false)
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected restored category back in default list, got %+v", active)
	}
}

func TestServiceSoftDeleteCategory_CannotDoubleDelete(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	c := testutil.MustCreateCategory(t, db, "work")

	if err := svc.SoftDeleteCategory(context.Background(), c.ID); err != nil {
		t.Fatalf("SoftDeleteCategory returned error: %v", err)
	}
	if err := svc.SoftDeleteCategory(context.Background(), c.ID); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound on second delete, got %v", err)
	}
}

func TestServiceRestoreCategory_ActiveIsNotFound(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	c := testutil.MustCreateCategory(t, db, "work")

	if err := svc.RestoreCategory(context.Background(), c.ID); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if err := svc.RestoreCategory(context.Background(), 999); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for missing id, got %v", err)
	}
}

func TestServiceSoftDeletedCategory_StaysOnExistingTasks(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	c := testutil.MustCreateCategory(t, db, "work")

	task, err := svc.CreateTask(ctx, user.ID, core.TaskInput{Title: "report", CategoryIDs: []int64{c.ID, c.ID}})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if len(task.CategoryIDs) != 1 {
		t.Fatalf("expected duplicate category ids to collapse, got %v", task.CategoryIDs)
	}

	if err := svc.SoftDeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("SoftDeleteCategory returned error: %v", err)
	}

	stored, err := svc.GetTask(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if len(stored.CategoryIDs) != 1 || stored.CategoryIDs[0] != c.ID {
		t.Fatalf("expected task to keep its category, got %v", stored.CategoryIDs)
	}

	_, err = svc.CreateTask(ctx, user.ID, core.TaskInput{Title: "other", CategoryIDs: []int64{c.ID}})
	if !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected new links to a deleted category to fail, got %v", err)
	}
}

func TestServiceSoftDeletedCategory_ResavedWithTask(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	work := testutil.MustCreateCategory(t, db, "work")
	home := testutil.MustCreateCategory(t, db, "home")
	gone := testutil.MustCreateCategory(t, db, "gone")

	task, err := svc.CreateTask(ctx, user.ID, core.TaskInput{Title: "report", CategoryIDs: []int64{work.ID}})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if err := svc.SoftDeleteCategory(ctx, work.ID); err != nil {
		t.Fatalf("SoftDeleteCategory returned error: %v", err)
	}
	if err := svc.SoftDeleteCategory(ctx, gone.ID); err != nil {
		t.Fatalf("SoftDeleteCategory returned error: %v", err)
	}

	updated, err := svc.UpdateTask(ctx, user.ID, task.ID, core.TaskInput{
		Title:       "report v2",
		CategoryIDs: task.CategoryIDs,
	})
	if err != nil {
		t.Fatalf("UpdateTask with the linked deleted category returned error: %v", err)
	}
	if len(updated.CategoryIDs) != 1 || updated.CategoryIDs[0] != work.ID {
		t.Fatalf("expected task to keep category %d, got %v", work.ID, updated.CategoryIDs)
	}

	patched, err := svc.PatchTask(ctx, user.ID, task.ID, core.TaskPatch{CategoryIDs: []int64{work.ID, home.ID}})
	if err != nil {
		t.Fatalf("PatchTask adding an active category returned error: %v", err)
	}
	if len(patched.CategoryIDs) != 2 {
		t.Fatalf("expected two categories, got %v", patched.CategoryIDs)
	}

	_, err = svc.PatchTask(ctx, user.ID, task.ID, core.TaskPatch{CategoryIDs: []int64{work.ID, gone.ID}})
	if !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected a newly linked deleted category to fail, got %v", err)
	}
}

func TestServiceUpdateTask_KeepsPassedDeadline(t *testing.T) {
	t.Parallel()

	db, notifier, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	due := fixedNow.Add(-24 * time.Hour)
	task := testutil.MustCreateTask(t, db, user.ID, "overdue", core.StatusInProgress, &due)

	done := core.StatusDone
	updated, err := svc.UpdateTask(ctx, user.ID, task.ID, core.TaskInput{
		Title:    task.Title,
		Status:   &done,
		Deadline: testutil.TimePtr(due),
	})
	if err != nil {
		t.Fatalf("UpdateTask resending the stored deadline returned error: %v", err)
	}
	if updated.Status != core.StatusDone || updated.Deadline == nil || !updated.Deadline.Equal(due) {
		t.Fatalf("unexpected task after update: %+v", updated)
	}
	if len(notifier.Changes()) != 1 {
		t.Fatalf("expected one status notification, got %d", len(notifier.Changes()))
	}

	_, err = svc.PatchTask(ctx, user.ID, task.ID, core.TaskPatch{Deadline: testutil.TimePtr(due.Add(-time.Hour))})
	if !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected a different past deadline to be rejected, got %v", err)
	}
}

// Tasks

func TestServiceCreateTask_Validation(t *testing.T) {
	t.Parallel()

	past := fixedNow.Add(-time.Hour)
	bad := core.TaskStatus("archived")

	testCases := []struct {
		name string
		in   core.TaskInput
		want error
	}{
		{name: "empty_title", in: core.TaskInput{Title: "  "}, want: core.ErrTaskInvalidArgs},
		{name: "unknown_status", in: core.TaskInput{Title: "task", Status: &bad}, want: core.ErrTaskInvalidArgs},
		{name: "deadline_in_past", in: core.TaskInput{Title: "task", Deadline: &past}, want: core.ErrTaskInvalidArgs},
		{name: "missing_category", in: core.TaskInput{Title: "task", CategoryIDs: []int64{42}}, want: core.ErrCategoryNotFound},
		{name: "negative_category", in: core.TaskInput{Title: "task", CategoryIDs: []int64{-1}}, want: core.ErrTaskInvalidArgs},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, _, svc := newServiceWithFakeDB()
			user := testutil.MustCreateUser(t, db, "alice")

			_, err := svc.CreateTask(context.Background(), user.ID, tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServiceCreateTask_DefaultsAndOwner(t *testing.T) {
	t.Parallel()

	db, notifier, svc := newServiceWithFakeDB()
	user := testutil.MustCreateUser(t, db, "alice")

	task, err := svc.CreateTask(context.Background(), user.ID, core.TaskInput{Title: "  write report  ", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	if task.Title != "write report" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Status != core.StatusNew {
		t.Fatalf("expected status new, got %q", task.Status)
	}
	if !task.OwnedBy(user.ID) {
		t.Fatalf("expected task to be owned by %d, got %v", user.ID, task.OwnerID)
	}
	if task.LastStatus != nil {
		t.Fatalf("expected no last status on create, got %v", *task.LastStatus)
	}
	if len(notifier.Changes()) != 0 {
		t.Fatalf("expected no notification on create")
	}
}

func TestServiceCreateTask_DuplicateKey(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	alice := testutil.MustCreateUser(t, db, "alice")
	bob := testutil.MustCreateUser(t, db, "bob")
	deadline := fixedNow.Add(24 * time.Hour)

	if _, err := svc.CreateTask(ctx, alice.ID, core.TaskInput{Title: "report", Deadline: &deadline}); err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	_, err := svc.CreateTask(ctx, alice.ID, core.TaskInput{Title: "report", Deadline: &deadline})
	if !errors.Is(err, core.ErrTaskAlreadyExists) {
		t.Fatalf("expected ErrTaskAlreadyExists, got %v", err)
	}

	if _, err := svc.CreateTask(ctx, bob.ID, core.TaskInput{Title: "report", Deadline: &deadline}); err != nil {
		t.Fatalf("expected another owner to reuse the key, got %v", err)
	}
}

func TestServicePatchTask_StatusChangeRecordsLastStatus(t *testing.T) {
	t.Parallel()

	db, notifier, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	task := testutil.MustCreateTask(t, db, user.ID, "task", core.StatusNew, nil)

	updated, err := svc.PatchTask(ctx, user.ID, task.ID, core.TaskPatch{Status: testutil.StatusPtr(core.StatusInProgress)})
	if err != nil {
		t.Fatalf("PatchTask returned error: %v", err)
	}
	if updated.LastStatus == nil || *updated.LastStatus != core.StatusNew {
		t.Fatalf("expected last status new, got %v", updated.LastStatus)
	}

	changes := notifier.Changes()
	if len(changes) != 1 {
		t.Fatalf("expected one notification, got %d", len(changes))
	}
	if changes[0].From != core.StatusNew || changes[0].To != core.StatusInProgress {
		t.Fatalf("unexpected change %+v", changes[0])
	}
	if changes[0].OwnerEmail != user.Email {
		t.Fatalf("expected owner email %q, got %q", user.Email, changes[0].OwnerEmail)
	}
}

func TestServicePatchTask_OtherFieldsKeepLastStatus(t *testing.T) {
	t.Parallel()

	db, notifier, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	task := testutil.MustCreateTask(t, db, user.ID, "task", core.StatusNew, nil)

	if _, err := svc.PatchTask(ctx, user.ID, task.ID, core.TaskPatch{Status: testutil.StatusPtr(core.StatusDone)}); err != nil {
		t.Fatalf("PatchTask returned error: %v", err)
	}

	updated, err := svc.PatchTask(ctx, user.ID, task.ID, core.TaskPatch{
		Title:  testutil.StrPtr("renamed"),
		Status: testutil.StatusPtr(core.StatusDone),
	})
	if err != nil {
		t.Fatalf("PatchTask returned error: %v", err)
	}

	if updated.LastStatus == nil || *updated.LastStatus != core.StatusNew {
		t.Fatalf("expected last status to stay new, got %v", updated.LastStatus)
	}
	if updated.Title != "renamed" {
		t.Fatalf("expected title renamed, got %q", updated.Title)
	}
	if n := len(notifier.Changes()); n != 1 {
		t.Fatalf("expected exactly one notification, got %d", n)
	}
}

func TestServicePatchTask_NotifierFailureDoesNotFailSave(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		notifier *testutil.RecordingNotifier
	}{
		{name: "error", notifier: &testutil.RecordingNotifier{Err: errors.New("smtp down")}},
		{name: "panic", notifier: &testutil.RecordingNotifier{Panic: true}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db := testutil.NewFakeDB()
			svc := core.NewService(testutil.DiscardLogger(), db, tc.notifier)
			user := testutil.MustCreateUser(t, db, "alice")
			task := testutil.MustCreateTask(t, db, user.ID, "task", core.StatusNew, nil)

			updated, err := svc.PatchTask(context.Background(), user.ID, task.ID, core.TaskPatch{Status: testutil.StatusPtr(core.StatusBlocked)})
			if err != nil {
				t.Fatalf("PatchTask returned error: %v", err)
			}
			if updated.Status != core.StatusBlocked {
				t.Fatalf("expected status blocked, got %q", updated.Status)
			}
		})
	}
}

func TestServicePatchTask_MissingOwnerRowStillSaves(t *testing.T) {
	t.Parallel()

	db := testutil.NewFakeDB()
	notifier := &testutil.RecordingNotifier{}
	svc := core.NewService(testutil.DiscardLogger(), db, notifier)

	// owner 7 has no users row, so the notifier gets no recipient
	owner := int64(7)
	task := db.PutTask(core.Task{OwnerID: &owner, Title: "task", Status: core.StatusNew, CreatedAt: fixedNow})

	updated, err := svc.PatchTask(context.Background(), owner, task.ID, core.TaskPatch{Status: testutil.StatusPtr(core.StatusDone)})
	if err != nil {
		t.Fatalf("PatchTask returned error: %v", err)
	}
	if updated.Status != core.StatusDone {
		t.Fatalf("expected status done, got %q", updated.Status)
	}

	changes := notifier.Changes()
	if len(changes) != 1 || changes[0].OwnerEmail != "" {
		t.Fatalf("expected one change without recipient, got %+v", changes)
	}
}

func TestServicePatchTask_EmptyPatch(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	user := testutil.MustCreateUser(t, db, "alice")
	task := testutil.MustCreateTask(t, db, user.ID, "task", core.StatusNew, nil)

	_, err := svc.PatchTask(context.Background(), user.ID, task.ID, core.TaskPatch{})
	if !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
}

func TestServiceUpdateTask_ReplacesFields(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	c := testutil.MustCreateCategory(t, db, "work")
	deadline := fixedNow.Add(48 * time.Hour)

	task, err := svc.CreateTask(ctx, user.ID, core.TaskInput{Title: "task", Deadline: &deadline, CategoryIDs: []int64{c.ID}})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	updated, err := svc.UpdateTask(ctx, user.ID, task.ID, core.TaskInput{Title: "new title", Description: "new"})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}

	if updated.Title != "new title" || updated.Description != "new" {
		t.Fatalf("unexpected fields %+v", updated)
	}
	if updated.Deadline != nil {
		t.Fatalf("expected deadline to be cleared, got %v", updated.Deadline)
	}
	if len(updated.CategoryIDs) != 0 {
		t.Fatalf("expected categories to be cleared, got %v", updated.CategoryIDs)
	}
	if updated.Status != core.StatusNew {
		t.Fatalf("expected status to be kept, got %q", updated.Status)
	}
}

func TestServiceTask_Ownership(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	alice := testutil.MustCreateUser(t, db, "alice")
	bob := testutil.MustCreateUser(t, db, "bob")
	task := testutil.MustCreateTask(t, db, bob.ID, "bob's task", core.StatusNew, nil)

	if _, err := svc.GetTask(ctx, alice.ID, task.ID); !errors.Is(err, core.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied on get, got %v", err)
	}
	if _, err := svc.PatchTask(ctx, alice.ID, task.ID, core.TaskPatch{Title: testutil.StrPtr("mine")}); !errors.Is(err, core.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied on patch, got %v", err)
	}
	if err := svc.DeleteTask(ctx, alice.ID, task.ID); !errors.Is(err, core.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied on delete, got %v", err)
	}

	list, err := svc.ListTasks(ctx, core.ListTasksFilter{OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if list.Count != 0 || len(list.Items) != 0 {
		t.Fatalf("expected alice to see no tasks, got %+v", list)
	}

	if _, err := svc.GetTask(ctx, bob.ID, task.ID); err != nil {
		t.Fatalf("expected owner to read the task, got %v", err)
	}
}

func TestServiceGetTask_NotFound(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	user := testutil.MustCreateUser(t, db, "alice")

	if _, err := svc.GetTask(context.Background(), user.ID, 999); !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestServiceDeleteTask_CascadesToSubTasks(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	ctx := context.Background()
	user := testutil.MustCreateUser(t, db, "alice")
	task := testutil.MustCreateTask(t, db, user.ID, "parent", core.StatusNew, nil)
	st := testutil.MustCreateSubTask(t, db, user.ID, task.ID, "child")

	if err := svc.DeleteTask(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	if _, err := svc.GetSubTask(ctx, user.ID, st.ID); !errors.Is(err, core.ErrSubTaskNotFound) {
		t.Fatalf("expected subtask to be gone, got %v", err)
	}
}

func TestServiceTaskStatistics(t *testing.T) {
	t.Parallel()

	db, _, svc := newServiceWithFakeDB()
	user := testutil.MustCreateUser(t, db, "alice")
	other := testutil.MustCreateUser(t, db, "bob")

	past := fixedNow.Add(-24 * time.Hour)
	future := fixedNow.Add(24 * time.Hour)

	testutil.MustCreateTask(t, db, user.ID, "a", core.StatusNew, &future)
	testutil.MustCreateTask(t, db, user.ID, "b", core.StatusDone, &past)
	testutil.MustCreateTask(t, db, user.ID, "c", core.StatusInProgress, nil)
	testutil.MustCreateTask(t, db, user.ID, "d", core.StatusNew, &past)
	testutil.MustCreateTask(t, db, user.ID, "e", core.StatusBlocked, &past)
	testutil.MustCreateTask(t, db, other.ID, "f", core.StatusNew, &past)

	stats, err := svc.TaskStatistics(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("TaskStatistics returned error: %v", err)
	}

	if stats.Total != 5 {
		t.Fatalf("expected 5 tasks, got %d", stats.Total)
	}
	if stats.Overdue != 1 {
		t.Fatalf("expected 1 overdue task, got %d", stats.Overdue)
	}
	want := map[core.TaskStatus]int{core.StatusNew: 2, core.StatusDone: 1, core.StatusInProgress: 1, core.StatusBlocked: 1}
	for st, n := range want {
		if stats.StatusCounts[st] != n {
			t.Fatalf("expected %d %s tasks, got %d", n, st, stats.StatusCounts[st])
		}
	}
	if _, ok := stats.StatusCounts[core.StatusPending]; ok {
		t.Fatalf("expected absent statuses to be omitted")
	}
}
