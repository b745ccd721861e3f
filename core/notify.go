package core

import (
	"context"
	"errors"
	"fmt"
)

// afterTaskSave runs the status-change hook once a task write has returned.
// from is the status the task held before this save, nil when the save did not
// change it. Failures are logged and never reach the caller.
func (s *Service) afterTaskSave(ctx context.Context, t Task, from *TaskStatus) {
	if s.notifier == nil || from == nil || *from == t.Status {
		return
	}

	if err := s.notifyStatusChange(ctx, t, *from); err != nil {
		s.log.Error("task status notification failed",
			"task_id", t.ID, "from", *from, "to", t.Status, "error", err)
	}
}

func (s *Service) notifyStatusChange(ctx context.Context, t Task, from TaskStatus) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()

	change := StatusChange{Task: t, From: from, To: t.Status}

	if t.OwnerID == nil {
		err = errors.New("task has no owner")
	} else if owner, uerr := s.db.GetUser(ctx, *t.OwnerID); uerr != nil {
		err = fmt.Errorf("load task owner: %w", uerr)
	} else {
		change.OwnerEmail = owner.Email
	}

	// the notifier still gets the change so it can log it without a recipient
	if nerr := s.notifier.TaskStatusChanged(ctx, change); nerr != nil {
		return errors.Join(err, nerr)
	}
	return err
}
