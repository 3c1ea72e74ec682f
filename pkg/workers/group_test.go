package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcWorker struct {
	name  string
	start func(ctx context.Context) error
}

func (f funcWorker) Name() string                    { return f.name }
func (f funcWorker) Start(ctx context.Context) error { return f.start(ctx) }

func blocking(name string, stopped chan<- string) Worker {
	return funcWorker{name: name, start: func(ctx context.Context) error {
		<-ctx.Done()
		stopped <- name
		return nil
	}}
}

func TestGroup_StopsOnContextCancel(t *testing.T) {
	stopped := make(chan string, 2)
	g := Group{blocking("a", stopped), blocking("b", stopped)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
	assert.Len(t, stopped, 2)
}

func TestGroup_FailingWorkerStopsTheRest(t *testing.T) {
	stopped := make(chan string, 1)
	boom := errors.New("boom")
	g := Group{
		blocking("sweeper", stopped),
		funcWorker{name: "http_server", start: func(context.Context) error { return boom }},
	}

	err := g.Start(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "http_server: boom")
	assert.Equal(t, "sweeper", <-stopped)
}
