package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gymtag/client/internal/api"
	"gymtag/client/internal/domain"
)

// Mode selects the scan input channel. The two modes are mutually
// exclusive; exactly one is active at a time.
type Mode string

const (
	ModeProximity Mode = "proximity"
	ModeCamera    Mode = "camera"
)

// MachineResolver resolves a raw scanned identifier to a machine record.
type MachineResolver interface {
	MachineByTag(ctx context.Context, tagID string) (*domain.Machine, error)
}

// Coordinator mediates between the two scan input modes and the single
// downstream resolve step. A raw identifier is ephemeral: it exists
// only between scan completion and resolution (or discard).
type Coordinator struct {
	mu       sync.Mutex
	mode     Mode
	scanning bool
	resolved *domain.Machine

	reader   TagReader
	capturer CodeCapturer
	machines MachineResolver
	timeout  time.Duration
	log      zerolog.Logger
}

// NewCoordinator creates a coordinator starting in proximity mode.
// timeout bounds how long a proximity scan waits for a tag.
func NewCoordinator(reader TagReader, capturer CodeCapturer, machines MachineResolver, timeout time.Duration, log zerolog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Coordinator{
		mode:     ModeProximity,
		reader:   reader,
		capturer: capturer,
		machines: machines,
		timeout:  timeout,
		log:      log,
	}
}

// Mode returns the currently selected input mode.
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the input mode. Switching is rejected while a scan
// is in flight or a machine is resolved, so the user cannot change
// channels in the middle of a workflow.
func (c *Coordinator) SetMode(mode Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanning {
		return ErrScanInProgress
	}
	if c.resolved != nil {
		return ErrWorkflowActive
	}
	c.mode = mode
	return nil
}

// Resolved returns the machine from the last successful scan, or nil.
func (c *Coordinator) Resolved() *domain.Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// Reset discards the resolved machine so the user can scan again.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolved = nil
}

// Scan performs one scan in the current mode and resolves the result.
// ErrMachineNotFound is a normal negative outcome: the identifier was
// read fine, no machine is registered for it.
func (c *Coordinator) Scan(ctx context.Context) (*domain.Machine, error) {
	c.mu.Lock()
	if c.scanning {
		c.mu.Unlock()
		return nil, ErrScanInProgress
	}
	c.scanning = true
	mode := c.mode
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.scanning = false
		c.mu.Unlock()
	}()

	scanID := uuid.NewString()
	log := c.log.With().Str("scan_id", scanID).Str("mode", string(mode)).Logger()

	var (
		identifier string
		err        error
	)
	switch mode {
	case ModeCamera:
		identifier, err = c.capturer.Capture(ctx)
	default:
		identifier, err = c.readProximity(ctx)
	}
	if err != nil {
		log.Debug().Err(err).Msg("scan did not produce an identifier")
		return nil, err
	}

	log.Info().Str("tag_id", identifier).Msg("identifier scanned")
	return c.resolve(ctx, identifier, log)
}

// ResolveIdentifier feeds an externally obtained identifier (e.g. a
// code decoded by a separate camera screen) through the same resolve
// step as a live scan.
func (c *Coordinator) ResolveIdentifier(ctx context.Context, identifier string) (*domain.Machine, error) {
	return c.resolve(ctx, identifier, c.log)
}

// readProximity performs one bounded proximity read. The hardware
// capability is released on every exit path, including context
// cancellation and read errors.
func (c *Coordinator) readProximity(ctx context.Context) (string, error) {
	if !c.reader.Supported() {
		return "", ErrHardwareUnsupported
	}
	if !c.reader.Enabled() {
		return "", ErrHardwareDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.reader.Acquire(ctx); err != nil {
		return "", mapScanErr(err)
	}
	defer c.reader.Release()

	identifier, err := c.reader.Read(ctx)
	if err != nil {
		return "", mapScanErr(err)
	}
	if identifier == "" {
		return "", ErrTagUnreadable
	}
	return identifier, nil
}

func (c *Coordinator) resolve(ctx context.Context, identifier string, log zerolog.Logger) (*domain.Machine, error) {
	machine, err := c.machines.MachineByTag(ctx, identifier)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			log.Info().Str("tag_id", identifier).Msg("identifier not registered")
			return nil, ErrMachineNotFound
		}
		return nil, err
	}

	c.mu.Lock()
	c.resolved = machine
	c.mu.Unlock()

	log.Info().Str("machine_id", machine.ID).Str("exercise", machine.ExerciseName).Msg("machine resolved")
	return machine, nil
}

func mapScanErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrScanTimedOut
	case errors.Is(err, context.Canceled):
		return ErrScanCancelled
	default:
		return err
	}
}
