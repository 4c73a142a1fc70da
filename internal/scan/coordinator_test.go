package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymtag/client/internal/api"
	"gymtag/client/internal/domain"
)

// fakeReader is a scriptable TagReader that counts acquire/release so
// tests can prove the hardware capability never leaks.
type fakeReader struct {
	mu        sync.Mutex
	supported bool
	enabled   bool
	tagID     string
	readErr   error
	blocking  bool // Read blocks until the context ends

	acquires int
	releases int
}

func (r *fakeReader) Supported() bool { return r.supported }
func (r *fakeReader) Enabled() bool   { return r.enabled }

func (r *fakeReader) Acquire(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acquires++
	return nil
}

func (r *fakeReader) Read(ctx context.Context) (string, error) {
	if r.blocking {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if r.readErr != nil {
		return "", r.readErr
	}
	return r.tagID, nil
}

func (r *fakeReader) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases++
}

func (r *fakeReader) balanced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acquires == r.releases
}

type fakeCapturer struct {
	code string
	err  error
}

func (c *fakeCapturer) Capture(context.Context) (string, error) {
	return c.code, c.err
}

// fakeResolver maps tag identifiers to machines.
type fakeResolver struct {
	machines map[string]*domain.Machine
	err      error
	calls    int
}

func (f *fakeResolver) MachineByTag(_ context.Context, tagID string) (*domain.Machine, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.machines[tagID]
	if !ok {
		return nil, api.ErrNotFound
	}
	return m, nil
}

func legPress() *domain.Machine {
	return &domain.Machine{ID: "m1", TagID: "04A3F2", ExerciseName: "Leg Press", TrainedMuscle: "Quads"}
}

func TestScanProximity(t *testing.T) {
	ctx := context.Background()

	t.Run("successful scan resolves the machine", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: true, tagID: "04A3F2"}
		resolver := &fakeResolver{machines: map[string]*domain.Machine{"04A3F2": legPress()}}
		c := NewCoordinator(reader, &fakeCapturer{}, resolver, time.Second, zerolog.Nop())

		machine, err := c.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Leg Press", machine.ExerciseName)
		assert.Equal(t, machine, c.Resolved())
		assert.True(t, reader.balanced(), "acquire/release must balance")
	})

	t.Run("unregistered tag is a normal negative outcome", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: true, tagID: "DEADBEEF"}
		resolver := &fakeResolver{machines: map[string]*domain.Machine{}}
		c := NewCoordinator(reader, &fakeCapturer{}, resolver, time.Second, zerolog.Nop())

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, ErrMachineNotFound)
		assert.Nil(t, c.Resolved())
		assert.True(t, reader.balanced())
	})

	t.Run("unsupported hardware fails before acquiring", func(t *testing.T) {
		reader := &fakeReader{supported: false}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, time.Second, zerolog.Nop())

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, ErrHardwareUnsupported)
		assert.Equal(t, 0, reader.acquires)
	})

	t.Run("disabled hardware fails before acquiring", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: false}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, time.Second, zerolog.Nop())

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, ErrHardwareDisabled)
		assert.Equal(t, 0, reader.acquires)
	})

	t.Run("empty read is reported as unreadable and releases hardware", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: true, tagID: ""}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, time.Second, zerolog.Nop())

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, ErrTagUnreadable)
		assert.True(t, reader.balanced())
	})

	t.Run("read error releases hardware", func(t *testing.T) {
		readErr := errors.New("tag moved away")
		reader := &fakeReader{supported: true, enabled: true, readErr: readErr}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, time.Second, zerolog.Nop())

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, readErr)
		assert.True(t, reader.balanced())
	})

	t.Run("blocking read times out and releases hardware", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: true, blocking: true}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, 20*time.Millisecond, zerolog.Nop())

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, ErrScanTimedOut)
		assert.True(t, reader.balanced())
	})

	t.Run("caller cancellation maps to cancelled", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: true, blocking: true}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, time.Minute, zerolog.Nop())

		cancelCtx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := c.Scan(cancelCtx)
		assert.ErrorIs(t, err, ErrScanCancelled)
		assert.True(t, reader.balanced())
	})
}

func TestScanCamera(t *testing.T) {
	ctx := context.Background()

	t.Run("captured code resolves through the same path", func(t *testing.T) {
		resolver := &fakeResolver{machines: map[string]*domain.Machine{"04A3F2": legPress()}}
		c := NewCoordinator(&fakeReader{}, &fakeCapturer{code: "04A3F2"}, resolver, time.Second, zerolog.Nop())
		require.NoError(t, c.SetMode(ModeCamera))

		machine, err := c.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, "m1", machine.ID)
	})

	t.Run("capture failure surfaces unchanged", func(t *testing.T) {
		capErr := errors.New("camera busy")
		c := NewCoordinator(&fakeReader{}, &fakeCapturer{err: capErr}, &fakeResolver{}, time.Second, zerolog.Nop())
		require.NoError(t, c.SetMode(ModeCamera))

		_, err := c.Scan(ctx)
		assert.ErrorIs(t, err, capErr)
	})
}

func TestSetMode(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to proximity and switches when idle", func(t *testing.T) {
		c := NewCoordinator(&fakeReader{}, &fakeCapturer{}, &fakeResolver{}, time.Second, zerolog.Nop())
		assert.Equal(t, ModeProximity, c.Mode())
		require.NoError(t, c.SetMode(ModeCamera))
		assert.Equal(t, ModeCamera, c.Mode())
	})

	t.Run("rejected while a machine is resolved, allowed after reset", func(t *testing.T) {
		resolver := &fakeResolver{machines: map[string]*domain.Machine{"04A3F2": legPress()}}
		reader := &fakeReader{supported: true, enabled: true, tagID: "04A3F2"}
		c := NewCoordinator(reader, &fakeCapturer{}, resolver, time.Second, zerolog.Nop())

		_, err := c.Scan(ctx)
		require.NoError(t, err)

		assert.ErrorIs(t, c.SetMode(ModeCamera), ErrWorkflowActive)
		c.Reset()
		assert.NoError(t, c.SetMode(ModeCamera))
	})

	t.Run("rejected while a scan is in flight", func(t *testing.T) {
		reader := &fakeReader{supported: true, enabled: true, blocking: true}
		c := NewCoordinator(reader, &fakeCapturer{}, &fakeResolver{}, time.Minute, zerolog.Nop())

		cancelCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = c.Scan(cancelCtx)
		}()

		// Wait for the scan to be in flight.
		require.Eventually(t, func() bool {
			reader.mu.Lock()
			defer reader.mu.Unlock()
			return reader.acquires == 1
		}, time.Second, time.Millisecond)

		assert.ErrorIs(t, c.SetMode(ModeCamera), ErrScanInProgress)
		_, err := c.Scan(cancelCtx)
		assert.ErrorIs(t, err, ErrScanInProgress)

		cancel()
		<-done
	})
}

func TestResolveIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("external identifier resolves and is retained", func(t *testing.T) {
		resolver := &fakeResolver{machines: map[string]*domain.Machine{"04A3F2": legPress()}}
		c := NewCoordinator(&fakeReader{}, &fakeCapturer{}, resolver, time.Second, zerolog.Nop())

		machine, err := c.ResolveIdentifier(ctx, "04A3F2")
		require.NoError(t, err)
		assert.Equal(t, machine, c.Resolved())
	})

	t.Run("resolver failures other than not-found pass through", func(t *testing.T) {
		resolver := &fakeResolver{err: api.ErrNetwork}
		c := NewCoordinator(&fakeReader{}, &fakeCapturer{}, resolver, time.Second, zerolog.Nop())

		_, err := c.ResolveIdentifier(ctx, "04A3F2")
		assert.ErrorIs(t, err, api.ErrNetwork)
		assert.Nil(t, c.Resolved())
	})
}
