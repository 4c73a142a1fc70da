package exercise

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gymtag/client/internal/domain"
)

// --- Error Definitions ---
var (
	ErrNoMachine        = errors.New("no machine resolved")
	ErrNotRunning       = errors.New("no exercise is running")
	ErrSessionActive    = errors.New("an exercise is already running")
	ErrNotAuthenticated = errors.New("a valid session is required to start an exercise")
)

// State is the lifecycle state of the single in-progress exercise.
type State int

const (
	StateIdle State = iota
	StateMachineResolved
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMachineResolved:
		return "machine-resolved"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// WorkoutService is the backend surface the tracker needs.
type WorkoutService interface {
	StartExercise(ctx context.Context, machineID string, startTime time.Time) (*domain.ExerciseRef, error)
	EndExercise(ctx context.Context, ref domain.ExerciseRef, result domain.ExerciseResult) error
}

// TokenSource reports the current bearer token; an empty token means
// starting an exercise must be refused up front.
type TokenSource interface {
	Token() string
}

// Result is what End reports back for display.
type Result struct {
	Machine         *domain.Machine
	DurationSeconds int
	Submitted       bool
}

// Tracker is the state machine for one in-progress exercise:
// Idle → MachineResolved → Running → Idle. At most one exercise is
// active at a time; starting another requires the previous one to be
// submitted or cancelled first.
//
// Elapsed time for display is always recomputed from the start
// timestamp, and the submitted duration is computed from end − start.
// No tick counter ever becomes the source of truth, so display tick
// rate cannot drift into the recorded result.
type Tracker struct {
	mu        sync.Mutex
	state     State
	machine   *domain.Machine
	ref       domain.ExerciseRef
	startTime time.Time

	workouts WorkoutService
	tokens   TokenSource
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(workouts WorkoutService, tokens TokenSource, log zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		state:    StateIdle,
		workouts: workouts,
		tokens:   tokens,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Machine returns the resolved machine, or nil.
func (t *Tracker) Machine() *domain.Machine {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine
}

// Ref returns the server correlation identifiers of the running
// exercise. Zero value unless Running.
func (t *Tracker) Ref() domain.ExerciseRef {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ref
}

// SetMachine records a freshly resolved machine, moving Idle (or an
// earlier resolution being replaced by a rescan) to MachineResolved.
// Rejected while an exercise is running.
func (t *Tracker) SetMachine(machine *domain.Machine) error {
	if machine == nil {
		return ErrNoMachine
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateRunning {
		return ErrSessionActive
	}
	t.machine = machine
	t.state = StateMachineResolved
	return nil
}

// Start opens the exercise session server-side and transitions to
// Running. Calling Start while already Running is a no-op: the running
// session, its correlation ids and its start time are untouched.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.state == StateRunning {
		t.mu.Unlock()
		return nil
	}
	if t.state != StateMachineResolved || t.machine == nil {
		t.mu.Unlock()
		return ErrNoMachine
	}
	machine := t.machine
	t.mu.Unlock()

	if t.tokens.Token() == "" {
		return ErrNotAuthenticated
	}

	startTime := t.now()
	ref, err := t.workouts.StartExercise(ctx, machine.ID, startTime)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.ref = *ref
	t.startTime = startTime
	t.state = StateRunning
	t.mu.Unlock()

	t.log.Info().
		Str("machine_id", machine.ID).
		Str("workout_id", ref.WorkoutID).
		Int("exercise_index", ref.ExerciseIndex).
		Msg("exercise started")
	return nil
}

// Elapsed is the display value: recomputed from the start timestamp on
// every call, never accumulated. Zero unless Running.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return 0
	}
	return t.now().Sub(t.startTime)
}

// End closes the running exercise. The submitted duration is computed
// from end − start at this moment. Optional reps and weight are
// validated here (integer reps ≥ 0, finite weight ≥ 0); values that
// fail validation are omitted from the submission, not rejected.
//
// Local state returns to Idle once the request settles, whether the
// submission succeeded or not; only the reported outcome differs.
func (t *Tracker) End(ctx context.Context, reps *int, weight *float64) (*Result, error) {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return nil, ErrNotRunning
	}
	machine := t.machine
	ref := t.ref
	startTime := t.startTime
	t.mu.Unlock()

	endTime := t.now()
	result := domain.ExerciseResult{
		EndTime:         endTime,
		DurationSeconds: int(endTime.Sub(startTime) / time.Second),
	}
	if reps != nil && *reps >= 0 {
		result.Repetitions = reps
	}
	if weight != nil && *weight >= 0 && !math.IsInf(*weight, 0) && !math.IsNaN(*weight) {
		result.Weight = weight
	}

	err := t.workouts.EndExercise(ctx, ref, result)
	t.reset()

	if err != nil {
		t.log.Error().Err(err).Str("workout_id", ref.WorkoutID).Msg("exercise submission failed")
		return &Result{Machine: machine, DurationSeconds: result.DurationSeconds}, err
	}

	t.log.Info().
		Str("workout_id", ref.WorkoutID).
		Int("duration_seconds", result.DurationSeconds).
		Msg("exercise recorded")
	return &Result{Machine: machine, DurationSeconds: result.DurationSeconds, Submitted: true}, nil
}

// Cancel discards local state without a backend call. Allowed from
// MachineResolved and Running; a running session's server-side record
// is left for the backend to reconcile, since no cancel endpoint
// exists in the contract.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	state := t.state
	t.mu.Unlock()
	if state == StateRunning {
		t.log.Info().Str("workout_id", t.ref.WorkoutID).Msg("running exercise abandoned locally")
	}
	t.reset()
}

func (t *Tracker) reset() {
	t.mu.Lock()
	t.state = StateIdle
	t.machine = nil
	t.ref = domain.ExerciseRef{}
	t.startTime = time.Time{}
	t.mu.Unlock()
}
