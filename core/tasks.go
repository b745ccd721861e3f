package core

import (
	"context"
	"strings"
	"time"
)

type TaskInput struct {
	Title       string
	Description string
	Status      *TaskStatus // nil => StatusNew on create, unchanged on update
	Deadline    *time.Time
	CategoryIDs []int64
}

// TaskPatch holds the fields to change; nil fields are left as they are.
// A non-nil empty CategoryIDs detaches every category.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *TaskStatus
	Deadline      *time.Time
	ClearDeadline bool
	CategoryIDs   []int64
}

func (p TaskPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Deadline == nil && !p.ClearDeadline && p.CategoryIDs == nil
}

func (s *Service) checkDeadline(kind error, deadline *time.Time) error {
	if deadline != nil && deadline.Before(s.now()) {
		return invalid(kind, "deadline cannot be in the past")
	}
	return nil
}

func (s *Service) CreateTask(ctx context.Context, ownerID int64, in TaskInput) (Task, error) {
	if ownerID <= 0 {
		return Task{}, ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)
	if !validName(title) {
		return Task{}, invalid(ErrTaskInvalidArgs, "title is required and must be at most 255 characters")
	}

	status := StatusNew
	if in.Status != nil {
		if !in.Status.Valid() {
			return Task{}, invalid(ErrTaskInvalidArgs, "unknown status")
		}
		status = *in.Status
	}

	if err := s.checkDeadline(ErrTaskInvalidArgs, in.Deadline); err != nil {
		return Task{}, err
	}

	categoryIDs, err := s.activeCategories(ctx, in.CategoryIDs, nil)
	if err != nil {
		return Task{}, err
	}

	owner := ownerID
	created, err := s.db.CreateTask(ctx, Task{
		OwnerID:     &owner,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Deadline:    in.Deadline,
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		return Task{}, err
	}

	s.afterTaskSave(ctx, created, nil)
	return created, nil
}

// GetTask loads a task and checks that ownerID owns it.
func (s *Service) GetTask(ctx context.Context, ownerID, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, ErrTaskInvalidArgs
	}

	t, err := s.db.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !t.OwnedBy(ownerID) {
		return Task{}, ErrPermissionDenied
	}
	return t, nil
}

func (s *Service) GetTaskDetail(ctx context.Context, ownerID, id int64) (TaskDetail, error) {
	t, err := s.GetTask(ctx, ownerID, id)
	if err != nil {
		return TaskDetail{}, err
	}

	subtasks, err := s.db.ListSubTasksByTask(ctx, t.ID)
	if err != nil {
		return TaskDetail{}, err
	}
	return TaskDetail{Task: t, SubTasks: subtasks}, nil
}

func (s *Service) ListTasks(ctx context.Context, f ListTasksFilter) (List[Task], error) {
	if f.OwnerID <= 0 {
		return List[Task]{}, ErrUnauthorized
	}
	if err := validateListArgs(ErrTaskInvalidArgs, f.Status, f.Ordering, f.Page); err != nil {
		return List[Task]{}, err
	}
	if f.Ordering == "" {
		f.Ordering = OrderCreatedAsc
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Page = f.Page.normalize()

	items, count, err := s.db.ListTasks(ctx, f)
	if err != nil {
		return List[Task]{}, err
	}
	return List[Task]{Items: items, Count: count, Page: f.Page}, nil
}

// UpdateTask replaces the editable fields of a task. A nil deadline clears it and
// nil CategoryIDs detaches every category.
func (s *Service) UpdateTask(ctx context.Context, ownerID, id int64, in TaskInput) (Task, error) {
	categoryIDs := in.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}

	return s.PatchTask(ctx, ownerID, id, TaskPatch{
		Title:         &in.Title,
		Description:   &in.Description,
		Status:        in.Status,
		Deadline:      in.Deadline,
		ClearDeadline: in.Deadline == nil,
		CategoryIDs:   categoryIDs,
	})
}

func (s *Service) PatchTask(ctx context.Context, ownerID, id int64, p TaskPatch) (Task, error) {
	if p.empty() {
		return Task{}, invalid(ErrTaskInvalidArgs, "no fields to update")
	}
	if p.Deadline != nil && p.ClearDeadline {
		return Task{}, invalid(ErrTaskInvalidArgs, "deadline cannot be set and cleared at once")
	}

	cur, err := s.GetTask(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}
	next := cur

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if !validName(title) {
			return Task{}, invalid(ErrTaskInvalidArgs, "title is required and must be at most 255 characters")
		}
		next.Title = title
	}

	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}

	if p.Deadline != nil {
		// resending the stored deadline is allowed even once it has passed
		if cur.Deadline == nil || !p.Deadline.Equal(*cur.Deadline) {
			if err := s.checkDeadline(ErrTaskInvalidArgs, p.Deadline); err != nil {
				return Task{}, err
			}
		}
		next.Deadline = p.Deadline
	}
	if p.ClearDeadline {
		next.Deadline = nil
	}

	if p.CategoryIDs != nil {
		ids, err := s.activeCategories(ctx, p.CategoryIDs, cur.CategoryIDs)
		if err != nil {
			return Task{}, err
		}
		next.CategoryIDs = ids
	}

	// last_status only moves when the status really changes
	var changedFrom *TaskStatus
	if p.Status != nil {
		if !p.Status.Valid() {
			return Task{}, invalid(ErrTaskInvalidArgs, "unknown status")
		}
		if *p.Status != cur.Status {
			prev := cur.Status
			next.LastStatus = &prev
			changedFrom = &prev
		}
		next.Status = *p.Status
	}

	updated, err := s.db.UpdateTask(ctx, next)
	if err != nil {
		return Task{}, err
	}

	s.afterTaskSave(ctx, updated, changedFrom)
	return updated, nil
}

func (s *Service) DeleteTask(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	return s.db.DeleteTask(ctx, id)
}

// TaskStatistics counts the owner's tasks by status and how many of them are overdue.
func (s *Service) TaskStatistics(ctx context.Context, ownerID int64) (TaskStats, error) {
	if ownerID <= 0 {
		return TaskStats{}, ErrUnauthorized
	}

	counts, err := s.db.CountTasksByStatus(ctx, ownerID)
	if err != nil {
		return TaskStats{}, err
	}

	stats := TaskStats{StatusCounts: make(map[TaskStatus]int, len(counts))}
	for _, c := range counts {
		stats.StatusCounts[c.Status] = c.Count
		stats.Total += c.Count
	}

	stats.Overdue, err = s.db.CountOverdueTasks(ctx, ownerID, s.now(), OverdueStatuses)
	if err != nil {
		return TaskStats{}, err
	}
	return stats, nil
}
