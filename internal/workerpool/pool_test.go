package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryTask(t *testing.T) {
	p := New(context.Background(), 4)
	var done atomic.Int32
	for i := 0; i < 50; i++ {
		require.True(t, p.Submit(func(ctx context.Context) error {
			done.Add(1)
			return nil
		}))
	}
	require.NoError(t, p.Wait())
	assert.Equal(t, int32(50), done.Load())
}

func TestPool_JoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	p := New(context.Background(), 2)
	p.Submit(func(ctx context.Context) error { return errA })
	p.Submit(func(ctx context.Context) error { return nil })
	p.Submit(func(ctx context.Context) error { return errB })

	err := p.Wait()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestPool_SubmitAfterWait(t *testing.T) {
	p := New(context.Background(), 1)
	require.NoError(t, p.Wait())
	assert.False(t, p.Submit(func(ctx context.Context) error { return nil }))
}

func TestPool_CancelledContextRefusesTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(ctx, 2)
	assert.False(t, p.Submit(func(ctx context.Context) error { return nil }))
	assert.NoError(t, p.Wait())
}

func TestPool_QueuedTasksReportCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(ctx, 1)

	started, release := make(chan struct{}), make(chan struct{})
	require.True(t, p.Submit(func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	var ran atomic.Int32
	for i := 0; i < 2; i++ {
		require.True(t, p.Submit(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	cancel()
	close(release)

	err := p.Wait()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ran.Load())
}
