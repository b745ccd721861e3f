// Package testutil holds in-memory fixtures shared by the package tests.
package testutil

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andarie1/task-manager/core"
)

// FakeDB is an in-memory core.DB that mirrors the constraints of the SQL schema:
// unique names, the (title, deadline, owner) task key, cascading subtask deletes.
type FakeDB struct {
	mu sync.RWMutex

	nextUserID     int64
	nextCategoryID int64
	nextTaskID     int64
	nextSubTaskID  int64

	users      map[int64]core.User
	categories map[int64]core.Category
	tasks      map[int64]core.Task
	subtasks   map[int64]core.SubTask
	revoked    map[string]time.Time

	// PingErr is returned by Ping when set.
	PingErr error
	// Now stamps created_at; defaults to time.Now.
	Now func() time.Time
}

var _ core.DB = (*FakeDB)(nil)

func NewFakeDB() *FakeDB {
	return &FakeDB{
		nextUserID:     1,
		nextCategoryID: 1,
		nextTaskID:     1,
		nextSubTaskID:  1,
		users:          make(map[int64]core.User),
		categories:     make(map[int64]core.Category),
		tasks:          make(map[int64]core.Task),
		subtasks:       make(map[int64]core.SubTask),
		revoked:        make(map[string]time.Time),
		Now:            time.Now,
	}
}

func cloneTask(t core.Task) core.Task {
	out := t
	if t.OwnerID != nil {
		v := *t.OwnerID
		out.OwnerID = &v
	}
	if t.LastStatus != nil {
		v := *t.LastStatus
		out.LastStatus = &v
	}
	if t.Deadline != nil {
		v := *t.Deadline
		out.Deadline = &v
	}
	out.CategoryIDs = append([]int64{}, t.CategoryIDs...)
	return out
}

func cloneSubTask(st core.SubTask) core.SubTask {
	out := st
	if st.OwnerID != nil {
		v := *st.OwnerID
		out.OwnerID = &v
	}
	if st.Deadline != nil {
		v := *st.Deadline
		out.Deadline = &v
	}
	return out
}

func sameDeadline(a, b *time.Time) bool {
	if a == nil || b == nil {
		// NULL deadlines never collide, as in the unique index
		return false
	}
	return a.Equal(*b)
}

func sameOwner(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func page[T any](items []T, p core.Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

func (db *FakeDB) Ping(context.Context) error {
	return db.PingErr
}

// Users

func (db *FakeDB) CreateUser(_ context.Context, username, email, passwordHash string) (core.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username || u.Email == email {
			return core.User{}, core.ErrUserAlreadyExists
		}
	}

	u := core.User{
		ID:           db.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    db.Now(),
	}
	db.nextUserID++
	db.users[u.ID] = u
	return u, nil
}

func (db *FakeDB) GetUser(_ context.Context, id int64) (core.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func (db *FakeDB) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, core.ErrUserNotFound
}

// Categories

func (db *FakeDB) CreateCategory(_ context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrCategoryInvalidArgs
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for _, c := range db.categories {
		if c.Name == name {
			return core.Category{}, core.ErrCategoryAlreadyExists
		}
	}

	c := core.Category{ID: db.nextCategoryID, Name: name, CreatedAt: db.Now()}
	db.nextCategoryID++
	db.categories[c.ID] = c
	return c, nil
}

func (db *FakeDB) GetCategory(_ context.Context, id int64) (core.Category, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, ok := db.categories[id]
	if !ok {
		return core.Category{}, core.ErrCategoryNotFound
	}
	return c, nil
}

func (db *FakeDB) ListCategories(_ context.Context, includeDeleted bool) ([]core.Category, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.Category, 0, len(db.categories))
	for _, c := range db.categories {
		if c.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (db *FakeDB) UpdateCategory(_ context.Context, id int64, name string) (core.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.categories[id]
	if !ok || c.IsDeleted {
		return core.Category{}, core.ErrCategoryNotFound
	}
	for otherID, other := range db.categories {
		if otherID != id && other.Name == name {
			return core.Category{}, core.ErrCategoryAlreadyExists
		}
	}

	c.Name = name
	db.categories[id] = c
	return c, nil
}

func (db *FakeDB) SetCategoryDeleted(_ context.Context, id int64, deleted bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.categories[id]
	if !ok || c.IsDeleted == deleted {
		return core.ErrCategoryNotFound
	}

	c.IsDeleted = deleted
	db.categories[id] = c
	return nil
}

// Tasks

func (db *FakeDB) checkTaskLocked(t core.Task) error {
	for _, cid := range t.CategoryIDs {
		if _, ok := db.categories[cid]; !ok {
			return core.ErrCategoryNotFound
		}
	}
	for id, other := range db.tasks {
		if id != t.ID && other.Title == t.Title && sameDeadline(other.Deadline, t.Deadline) && sameOwner(other.OwnerID, t.OwnerID) {
			return core.ErrTaskAlreadyExists
		}
	}
	return nil
}

func (db *FakeDB) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	t.ID = 0
	if err := db.checkTaskLocked(t); err != nil {
		return core.Task{}, err
	}

	t.ID = db.nextTaskID
	db.nextTaskID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = db.Now()
	}

	db.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

// PutTask stores t as is, keeping its CreatedAt. Tests use it to place tasks on given days.
func (db *FakeDB) PutTask(t core.Task) core.Task {
	db.mu.Lock()
	defer db.mu.Unlock()

	t.ID = db.nextTaskID
	db.nextTaskID++
	db.tasks[t.ID] = cloneTask(t)
	return cloneTask(t)
}

func (db *FakeDB) GetTask(_ context.Context, id int64) (core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tasks[id]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (db *FakeDB) ListTasks(_ context.Context, f core.ListTasksFilter) ([]core.Task, int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.Task, 0, len(db.tasks))
	for _, t := range db.tasks {
		if t.OwnerID == nil || *t.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Deadline != nil && (t.Deadline == nil || !t.Deadline.Equal(*f.Deadline)) {
			continue
		}
		if f.Search != "" && !containsFold(t.Title, f.Search) && !containsFold(t.Description, f.Search) {
			continue
		}
		if f.Day != nil && t.CreatedAt.UTC().Weekday() != *f.Day {
			continue
		}
		out = append(out, cloneTask(t))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.Ordering.Descending() {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return page(out, f.Page), len(out), nil
}

func (db *FakeDB) UpdateTask(_ context.Context, t core.Task) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cur, ok := db.tasks[t.ID]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}
	if err := db.checkTaskLocked(t); err != nil {
		return core.Task{}, err
	}

	t.CreatedAt = cur.CreatedAt
	db.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (db *FakeDB) DeleteTask(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tasks[id]; !ok {
		return core.ErrTaskNotFound
	}
	delete(db.tasks, id)

	for sid, st := range db.subtasks {
		if st.TaskID == id {
			delete(db.subtasks, sid)
		}
	}
	return nil
}

func (db *FakeDB) CountTasksByStatus(_ context.Context, ownerID int64) ([]core.StatusCount, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	counts := map[core.TaskStatus]int{}
	for _, t := range db.tasks {
		if t.OwnerID != nil && *t.OwnerID == ownerID {
			counts[t.Status]++
		}
	}

	out := make([]core.StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, core.StatusCount{Status: st, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (db *FakeDB) CountOverdueTasks(_ context.Context, ownerID int64, now time.Time, statuses []core.TaskStatus) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	n := 0
	for _, t := range db.tasks {
		if t.OwnerID == nil || *t.OwnerID != ownerID || t.Deadline == nil {
			continue
		}
		if t.Deadline.Before(now) && slices.Contains(statuses, t.Status) {
			n++
		}
	}
	return n, nil
}

// Subtasks

func (db *FakeDB) checkSubTaskLocked(st core.SubTask) error {
	if _, ok := db.tasks[st.TaskID]; !ok {
		return core.ErrTaskNotFound
	}
	for id, other := range db.subtasks {
		if id != st.ID && other.Title == st.Title {
			return core.ErrSubTaskAlreadyExists
		}
	}
	return nil
}

func (db *FakeDB) CreateSubTask(_ context.Context, st core.SubTask) (core.SubTask, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	st.ID = 0
	if err := db.checkSubTaskLocked(st); err != nil {
		return core.SubTask{}, err
	}

	st.ID = db.nextSubTaskID
	db.nextSubTaskID++
	st.CreatedAt = db.Now()

	db.subtasks[st.ID] = cloneSubTask(st)
	return cloneSubTask(st), nil
}

func (db *FakeDB) GetSubTask(_ context.Context, id int64) (core.SubTask, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	st, ok := db.subtasks[id]
	if !ok {
		return core.SubTask{}, core.ErrSubTaskNotFound
	}
	return cloneSubTask(st), nil
}

func (db *FakeDB) ListSubTasks(_ context.Context, f core.ListSubTasksFilter) ([]core.SubTask, int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.SubTask, 0, len(db.subtasks))
	for _, st := range db.subtasks {
		if st.OwnerID == nil || *st.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != nil && st.Status != *f.Status {
			continue
		}
		if f.Deadline != nil && (st.Deadline == nil || !st.Deadline.Equal(*f.Deadline)) {
			continue
		}
		if f.Search != "" && !containsFold(st.Title, f.Search) && !containsFold(st.Description, f.Search) {
			continue
		}
		if f.TaskName != "" && !containsFold(db.tasks[st.TaskID].Title, f.TaskName) {
			continue
		}
		out = append(out, cloneSubTask(st))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.Ordering.Descending() {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return page(out, f.Page), len(out), nil
}

func (db *FakeDB) ListSubTasksByTask(_ context.Context, taskID int64) ([]core.SubTask, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []core.SubTask{}
	for _, st := range db.subtasks {
		if st.TaskID == taskID {
			out = append(out, cloneSubTask(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (db *FakeDB) UpdateSubTask(_ context.Context, st core.SubTask) (core.SubTask, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cur, ok := db.subtasks[st.ID]
	if !ok {
		return core.SubTask{}, core.ErrSubTaskNotFound
	}
	if err := db.checkSubTaskLocked(st); err != nil {
		return core.SubTask{}, err
	}

	st.CreatedAt = cur.CreatedAt
	db.subtasks[st.ID] = cloneSubTask(st)
	return cloneSubTask(st), nil
}

func (db *FakeDB) DeleteSubTask(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.subtasks[id]; !ok {
		return core.ErrSubTaskNotFound
	}
	delete(db.subtasks, id)
	return nil
}

// Tokens

func (db *FakeDB) RevokeToken(_ context.Context, jti string, expiresAt time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.revoked[jti] = expiresAt
	return nil
}

func (db *FakeDB) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, ok := db.revoked[jti]
	return ok, nil
}

func (db *FakeDB) PurgeRevokedTokens(_ context.Context, before time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for jti, exp := range db.revoked {
		if exp.Before(before) {
			delete(db.revoked, jti)
			n++
		}
	}
	return n, nil
}
