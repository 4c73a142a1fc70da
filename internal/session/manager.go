package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"gymtag/client/internal/api"
	"gymtag/client/internal/domain"
)

// --- Error Definitions ---
var (
	ErrNotAuthenticated = errors.New("not authenticated")
)

// State is the session lifecycle state.
type State int32

const (
	// StateInitializing is the pre-bootstrap state. Protected UI must
	// not render until Bootstrap has resolved out of it.
	StateInitializing State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Manager owns the client-side authentication state: the bearer token,
// the profile snapshot, and the transitions between them. It implements
// api.TokenSource, so every outbound call reads the token at call time
// instead of relying on a mutable shared header.
//
// Invariant: user is non-nil only while token is non-empty and was
// validated against the backend in this process lifetime (Register is
// the one allowed exception, where the profile fetch may lag).
type Manager struct {
	mu    sync.Mutex
	state State
	token string
	user  *domain.User

	client    *api.Client
	store     TokenStore
	notifier  Notifier
	reminders *ReminderScheduler
	log       zerolog.Logger
	now       func() time.Time

	// forcedLogout de-duplicates concurrent 401-triggered teardowns:
	// however many in-flight requests die together, exactly one logout
	// and one user notice happen. Reset on the next successful auth.
	forcedLogout atomic.Bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager. AttachClient must be called
// before any operation that talks to the backend.
func NewManager(store TokenStore, notifier Notifier, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		state:     StateInitializing,
		store:     store,
		notifier:  notifier,
		reminders: NewReminderScheduler(notifier, log),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachClient wires the backend client to this manager: the manager
// becomes the client's token source caller-side, and the client's 401s
// feed the forced-logout path. Split from NewManager because the client
// needs the manager as its TokenSource first.
func (m *Manager) AttachClient(client *api.Client) {
	m.client = client
	client.SetUnauthorizedHook(m.forceLogout)
}

// Token returns the current bearer token, or "" when logged out.
// Satisfies api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the current profile snapshot, or nil.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Bootstrap restores the session on process start. It loads the stored
// token, rejects it locally if its expiry claim is in the past, and
// otherwise validates it with one profile fetch. Any failure along the
// way lands in Unauthenticated with storage cleared; there is no state
// in which a token survives that the backend has not vouched for.
func (m *Manager) Bootstrap(ctx context.Context) State {
	token := m.store.Load()
	if token == "" {
		m.becomeUnauthenticated()
		return StateUnauthenticated
	}

	if tokenExpired(token, m.now()) {
		m.log.Info().Msg("stored token expired; starting logged out")
		m.performLogout()
		return StateUnauthenticated
	}

	// Attach the token so the profile fetch is authorized.
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	user, err := m.client.Me(ctx)
	if err != nil {
		// A 401 already tore the session down via the hook; everything
		// else (network, malformed response) is equally fatal here.
		m.log.Warn().Err(err).Msg("bootstrap profile fetch failed")
		m.performLogout()
		return StateUnauthenticated
	}

	m.mu.Lock()
	m.user = user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.forcedLogout.Store(false)

	m.log.Info().Str("user_id", user.ID).Msg("session restored")
	return StateAuthenticated
}

// Login exchanges credentials for a session. On any failure the partial
// state is cleared before the error is surfaced.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	result, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.performLogout()
		return err
	}
	if result.Token == "" || result.User == nil {
		m.performLogout()
		return fmt.Errorf("%w: login response missing token or user", api.ErrNetwork)
	}
	return m.establish(ctx, result.Token, result.User)
}

// Register creates an account and starts a session. The backend returns
// only a token, so the profile is fetched afterwards; if that fetch
// fails, the session is still Authenticated with an absent user and the
// caller may retry via RefreshProfile.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	token, err := m.client.Register(ctx, name, email, password)
	if err != nil {
		m.performLogout()
		return err
	}
	if token == "" {
		m.performLogout()
		return fmt.Errorf("%w: register response missing token", api.ErrNetwork)
	}
	if err := m.establish(ctx, token, nil); err != nil {
		return err
	}

	user, err := m.client.Me(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("profile fetch failed after registration")
		return nil
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// SignInWithGoogle exchanges a Google identity token for a session.
// Same contract as Login.
func (m *Manager) SignInWithGoogle(ctx context.Context, idToken string) error {
	result, err := m.client.GoogleSignIn(ctx, idToken)
	if err != nil {
		m.performLogout()
		return err
	}
	if result.Token == "" || result.User == nil {
		m.performLogout()
		return fmt.Errorf("%w: google sign-in response missing token or user", api.ErrNetwork)
	}
	return m.establish(ctx, result.Token, result.User)
}

// establish persists the token and flips the session to Authenticated.
func (m *Manager) establish(ctx context.Context, token string, user *domain.User) error {
	if err := m.store.Save(token); err != nil {
		m.performLogout()
		return fmt.Errorf("persisting token: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.forcedLogout.Store(false)

	// Push registration is strictly best-effort.
	if err := m.notifier.RegisterPush(ctx); err != nil {
		m.log.Warn().Err(err).Msg("push registration failed")
	}

	m.log.Info().Msg("session established")
	return nil
}

// RefreshProfile re-fetches the profile with the current token. Unlike
// Bootstrap, a failure here keeps the stale profile and the session:
// the user is still authenticated, the snapshot is just old.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	if m.Token() == "" {
		return ErrNotAuthenticated
	}
	user, err := m.client.Me(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("profile refresh failed; keeping stale profile")
		return err
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// Logout clears the stored token and in-memory state. Idempotent.
func (m *Manager) Logout() {
	m.performLogout()
}

// RequestPasswordReset asks the backend to start a password reset.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	return m.client.RequestPasswordReset(ctx, email)
}

// ResetPassword completes a password reset with the emailed token.
func (m *Manager) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.client.ResetPassword(ctx, resetToken, newPassword)
}

// OnBackground is the app-backgrounded lifecycle hook. While
// authenticated it schedules the inactivity reminder from the user's
// configured interval; the scheduler cancels before rescheduling, so
// rapid toggles never stack notifications.
func (m *Manager) OnBackground() {
	m.mu.Lock()
	authenticated := m.state == StateAuthenticated
	var interval time.Duration
	if m.user != nil {
		interval = time.Duration(m.user.ReminderMinutes) * time.Minute
	}
	m.mu.Unlock()

	if !authenticated {
		m.reminders.Cancel()
		return
	}
	m.reminders.ScheduleAfter(interval)
}

// OnForeground cancels any pending inactivity reminder.
func (m *Manager) OnForeground() {
	m.reminders.Cancel()
}

// forceLogout is the 401 hook. The compare-and-set guard makes the
// teardown and its notice one-shot even when several in-flight requests
// fail with 401 at the same time.
func (m *Manager) forceLogout() {
	if !m.forcedLogout.CompareAndSwap(false, true) {
		return
	}
	m.log.Warn().Msg("backend rejected credentials; forcing logout")
	m.performLogout()
	m.notifier.Notify("Session Expired", "You have been logged out.")
}

// performLogout clears storage, the attached token, and the profile,
// and cancels any pending reminder. Safe to call in any state.
func (m *Manager) performLogout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("clearing token store failed")
	}
	m.reminders.Cancel()
}

func (m *Manager) becomeUnauthenticated() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.mu.Unlock()
	m.reminders.Cancel()
}
