package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andarie1/task-manager/adapters/scheduler"
	"github.com/andarie1/task-manager/testutil"
)

func TestScheduler_AddRejectsBadSpec(t *testing.T) {
	s := scheduler.New(testutil.DiscardLogger(), time.Second)

	assert.Error(t, s.Add("broken", "every now and then", func(context.Context) error { return nil }))
	assert.NoError(t, s.Add("ok", "@every 30s", func(context.Context) error { return nil }))
}

func TestScheduler_RunAll(t *testing.T) {
	s := scheduler.New(testutil.DiscardLogger(), time.Second)

	var ran, failed, panicked atomic.Int32
	assert.NoError(t, s.Add("ok", "@hourly", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected job context to carry a deadline")
		}
		ran.Add(1)
		return nil
	}))
	assert.NoError(t, s.Add("failing", "@hourly", func(context.Context) error {
		failed.Add(1)
		return errors.New("boom")
	}))
	assert.NoError(t, s.Add("panicking", "@hourly", func(context.Context) error {
		panicked.Add(1)
		panic("job exploded")
	}))

	s.RunAll()

	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, int32(1), failed.Load())
	assert.Equal(t, int32(1), panicked.Load())
}

func TestScheduler_StartStop(t *testing.T) {
	s := scheduler.New(testutil.DiscardLogger(), time.Second)
	assert.NoError(t, s.Add("noop", "@every 1h", func(context.Context) error { return nil }))

	s.Start()
	s.Stop()
}
