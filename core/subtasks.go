package core

import (
	"context"
	"strings"
	"time"
)

type SubTaskInput struct {
	TaskID      int64
	Title       string
	Description string
	Status      *TaskStatus
	Deadline    *time.Time
}

type SubTaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Deadline    *time.Time
}

func (p SubTaskPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Deadline == nil
}

// CreateSubTask adds a subtask under a task the caller owns; the caller becomes its owner.
func (s *Service) CreateSubTask(ctx context.Context, ownerID int64, in SubTaskInput) (SubTask, error) {
	if ownerID <= 0 {
		return SubTask{}, ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)
	if !validName(title) {
		return SubTask{}, invalid(ErrSubTaskInvalidArgs, "title is required and must be at most 255 characters")
	}

	status := StatusNew
	if in.Status != nil {
		if !in.Status.Valid() {
			return SubTask{}, invalid(ErrSubTaskInvalidArgs, "unknown status")
		}
		status = *in.Status
	}

	if err := s.checkDeadline(ErrSubTaskInvalidArgs, in.Deadline); err != nil {
		return SubTask{}, err
	}

	if in.TaskID <= 0 {
		return SubTask{}, invalid(ErrSubTaskInvalidArgs, "task id is required")
	}
	if _, err := s.GetTask(ctx, ownerID, in.TaskID); err != nil {
		return SubTask{}, err
	}

	owner := ownerID
	return s.db.CreateSubTask(ctx, SubTask{
		TaskID:      in.TaskID,
		OwnerID:     &owner,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Deadline:    in.Deadline,
	})
}

func (s *Service) GetSubTask(ctx context.Context, ownerID, id int64) (SubTask, error) {
	if id <= 0 {
		return SubTask{}, ErrSubTaskInvalidArgs
	}

	st, err := s.db.GetSubTask(ctx, id)
	if err != nil {
		return SubTask{}, err
	}
	if !st.OwnedBy(ownerID) {
		return SubTask{}, ErrPermissionDenied
	}
	return st, nil
}

func (s *Service) ListSubTasks(ctx context.Context, f ListSubTasksFilter) (List[SubTask], error) {
	if f.OwnerID <= 0 {
		return List[SubTask]{}, ErrUnauthorized
	}
	if err := validateListArgs(ErrSubTaskInvalidArgs, f.Status, f.Ordering, f.Page); err != nil {
		return List[SubTask]{}, err
	}
	if f.Ordering == "" {
		f.Ordering = OrderCreatedAsc
	}
	f.Search = strings.TrimSpace(f.Search)
	f.TaskName = strings.TrimSpace(f.TaskName)
	f.Page = f.Page.normalize()

	items, count, err := s.db.ListSubTasks(ctx, f)
	if err != nil {
		return List[SubTask]{}, err
	}
	return List[SubTask]{Items: items, Count: count, Page: f.Page}, nil
}

func (s *Service) UpdateSubTask(ctx context.Context, ownerID, id int64, p SubTaskPatch) (SubTask, error) {
	if p.empty() {
		return SubTask{}, invalid(ErrSubTaskInvalidArgs, "no fields to update")
	}

	cur, err := s.GetSubTask(ctx, ownerID, id)
	if err != nil {
		return SubTask{}, err
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if !validName(title) {
			return SubTask{}, invalid(ErrSubTaskInvalidArgs, "title is required and must be at most 255 characters")
		}
		cur.Title = title
	}
	if p.Description != nil {
		cur.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return SubTask{}, invalid(ErrSubTaskInvalidArgs, "unknown status")
		}
		cur.Status = *p.Status
	}
	if p.Deadline != nil {
		if err := s.checkDeadline(ErrSubTaskInvalidArgs, p.Deadline); err != nil {
			return SubTask{}, err
		}
		cur.Deadline = p.Deadline
	}

	return s.db.UpdateSubTask(ctx, cur)
}

// DeleteSubTask removes one subtask; the parent task is left untouched.
func (s *Service) DeleteSubTask(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetSubTask(ctx, ownerID, id); err != nil {
		return err
	}
	return s.db.DeleteSubTask(ctx, id)
}
