package testutil

import (
	"context"
	"sync"

	"github.com/andarie1/task-manager/core"
)

// RecordingNotifier keeps every status change it receives and returns Err afterwards.
type RecordingNotifier struct {
	mu      sync.Mutex
	changes []core.StatusChange

	Err   error
	Panic bool
}

func (n *RecordingNotifier) TaskStatusChanged(_ context.Context, change core.StatusChange) error {
	n.mu.Lock()
	n.changes = append(n.changes, change)
	n.mu.Unlock()

	if n.Panic {
		panic("notifier exploded")
	}
	return n.Err
}

func (n *RecordingNotifier) Changes() []core.StatusChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]core.StatusChange(nil), n.changes...)
}
