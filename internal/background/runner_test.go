package background

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomery-io/loomery-backend/pkg/logger"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := NewRunner(logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), time.Second)
	require.NoError(t, err)
	return r
}

func TestRunnerRunsTask(t *testing.T) {
	r := newTestRunner(t)

	var ran atomic.Bool
	r.Go("noop", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	require.NoError(t, r.Drain(context.Background()))
	assert.True(t, ran.Load())
}

func TestRunnerSwallowsErrors(t *testing.T) {
	r := newTestRunner(t)

	r.Go("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.NoError(t, r.Drain(context.Background()))
}

func TestRunnerRecoversPanic(t *testing.T) {
	r := newTestRunner(t)

	r.Go("panicking", func(ctx context.Context) error {
		panic("kaboom")
	})
	require.NoError(t, r.Drain(context.Background()))
}

func TestRunnerTaskContextDetached(t *testing.T) {
	r := newTestRunner(t)

	var canceled atomic.Bool
	r.Go("detached", func(ctx context.Context) error {
		canceled.Store(ctx.Err() != nil)
		return nil
	})

	require.NoError(t, r.Drain(context.Background()))
	assert.False(t, canceled.Load())
}

func TestRunnerDrainTimeout(t *testing.T) {
	r := newTestRunner(t)

	release := make(chan struct{})
	r.Go("slow", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, r.Drain(ctx))

	close(release)
	require.NoError(t, r.Drain(context.Background()))
}

func TestNewRunnerRequiresLogger(t *testing.T) {
	_, err := NewRunner(nil, time.Second)
	require.Error(t, err)
}
