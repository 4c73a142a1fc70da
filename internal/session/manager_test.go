package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymtag/client/internal/api"
	"gymtag/client/internal/domain"
)

// fakeNotifier records notices and tracks pending scheduled
// notifications so tests can assert the cancel-before-reschedule rule.
type fakeNotifier struct {
	mu            sync.Mutex
	notices       []string
	scheduleCalls int
	pending       map[string]time.Duration
	pushCalls     int
	pushErr       error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pending: make(map[string]time.Duration)}
}

func (n *fakeNotifier) Notify(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, title)
}

func (n *fakeNotifier) Schedule(id string, after time.Duration, _, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduleCalls++
	n.pending[id] = after
}

func (n *fakeNotifier) CancelScheduled(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pending, id)
}

func (n *fakeNotifier) RegisterPush(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushCalls++
	return n.pushErr
}

func (n *fakeNotifier) noticeCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func (n *fakeNotifier) pendingCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// fakeBackend is a minimal gin-served stand-in for the REST backend.
type fakeBackend struct {
	mu             sync.Mutex
	srv            *httptest.Server
	token          string
	user           domain.User
	meStatus       int // non-zero forces this status from /api/profile/me
	lastAuthHeader string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &fakeBackend{
		token: "t1",
		user:  domain.User{ID: "u1", Name: "Test User", Email: "user@x.com", Role: domain.RoleClient},
	}

	r := gin.New()
	r.POST("/api/auth/login", func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&body); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if body.Password != "pw" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": b.token, "user": b.user})
	})
	r.POST("/api/auth/register", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"token": b.token})
	})
	r.POST("/api/auth/google", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"token": b.token, "user": b.user})
	})
	r.GET("/api/profile/me", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastAuthHeader = c.GetHeader("Authorization")
		if b.meStatus != 0 {
			c.JSON(b.meStatus, gin.H{"error": "profile unavailable"})
			return
		}
		if b.lastAuthHeader != "Bearer "+b.token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, b.user)
	})
	r.GET("/api/statistics/summary", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c.GetHeader("Authorization") != "Bearer "+b.token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, domain.StatisticsSummary{})
	})

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) setToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

func (b *fakeBackend) setMeStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meStatus = status
}

func (b *fakeBackend) authHeader() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuthHeader
}

func newTestSession(t *testing.T, baseURL string) (*Manager, *FileTokenStore, *fakeNotifier, *api.Client) {
	t.Helper()
	store, err := NewFileTokenStore(t.TempDir())
	require.NoError(t, err)

	notifier := newFakeNotifier()
	mgr := NewManager(store, notifier, zerolog.Nop())
	client := api.NewClient(baseURL, mgr)
	mgr.AttachClient(client)
	return mgr, store, notifier, client
}

func signToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token starts unauthenticated", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, _, _, _ := newTestSession(t, backend.srv.URL)

		assert.Equal(t, StateUnauthenticated, mgr.Bootstrap(ctx))
		assert.Nil(t, mgr.User())
	})

	t.Run("expired token ends unauthenticated with storage cleared", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, store, _, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, store.Save(signToken(t, time.Now().Add(-time.Hour))))

		assert.Equal(t, StateUnauthenticated, mgr.Bootstrap(ctx))
		assert.Equal(t, "", store.Load())
		assert.Equal(t, "", mgr.Token())
	})

	t.Run("undecodable token is treated as expired", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, store, _, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, store.Save("not-a-jwt"))

		assert.Equal(t, StateUnauthenticated, mgr.Bootstrap(ctx))
		assert.Equal(t, "", store.Load())
	})

	t.Run("valid token restores the session from one profile fetch", func(t *testing.T) {
		backend := newFakeBackend(t)
		valid := signToken(t, time.Now().Add(time.Hour))
		backend.setToken(valid)

		mgr, store, _, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, store.Save(valid))

		assert.Equal(t, StateAuthenticated, mgr.Bootstrap(ctx))
		require.NotNil(t, mgr.User())
		assert.Equal(t, "user@x.com", mgr.User().Email)
		assert.Equal(t, valid, mgr.Token())
	})

	t.Run("token rejected by backend clears both fields", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, store, notifier, _ := newTestSession(t, backend.srv.URL)
		// Decodable and unexpired, but the backend no longer accepts it.
		require.NoError(t, store.Save(signToken(t, time.Now().Add(time.Hour))))

		assert.Equal(t, StateUnauthenticated, mgr.Bootstrap(ctx))
		assert.Equal(t, "", store.Load())
		assert.Equal(t, "", mgr.Token())
		assert.Nil(t, mgr.User())
		assert.Equal(t, 1, notifier.noticeCount())
	})

	t.Run("unreachable backend ends unauthenticated", func(t *testing.T) {
		backend := newFakeBackend(t)
		url := backend.srv.URL
		backend.srv.Close()

		mgr, store, _, _ := newTestSession(t, url)
		require.NoError(t, store.Save(signToken(t, time.Now().Add(time.Hour))))

		assert.Equal(t, StateUnauthenticated, mgr.Bootstrap(ctx))
		assert.Equal(t, "", store.Load())
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login persists token and profile", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, store, notifier, _ := newTestSession(t, backend.srv.URL)

		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))
		assert.Equal(t, StateAuthenticated, mgr.State())
		assert.Equal(t, "t1", store.Load())
		assert.Equal(t, "t1", mgr.Token())
		require.NotNil(t, mgr.User())
		assert.Equal(t, "user@x.com", mgr.User().Email)
		assert.Equal(t, 1, notifier.pushCalls)
	})

	t.Run("push registration failure does not fail the login", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, _, notifier, _ := newTestSession(t, backend.srv.URL)
		notifier.pushErr = errors.New("push service down")

		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))
		assert.Equal(t, StateAuthenticated, mgr.State())
	})

	t.Run("invalid credentials clear partial state", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, store, notifier, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, store.Save("stale"))

		err := mgr.Login(ctx, "user@x.com", "wrong")
		assert.ErrorIs(t, err, api.ErrInvalidCredentials)
		assert.Equal(t, StateUnauthenticated, mgr.State())
		assert.Equal(t, "", store.Load())
		// A rejected login exchange is not a forced logout.
		assert.Equal(t, 0, notifier.noticeCount())
	})
}

func TestGoogleSignIn(t *testing.T) {
	backend := newFakeBackend(t)
	mgr, store, _, _ := newTestSession(t, backend.srv.URL)

	require.NoError(t, mgr.SignInWithGoogle(context.Background(), "google-id-token"))
	assert.Equal(t, StateAuthenticated, mgr.State())
	assert.Equal(t, "t1", store.Load())
	require.NotNil(t, mgr.User())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("register authenticates and fetches profile", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, store, _, _ := newTestSession(t, backend.srv.URL)

		require.NoError(t, mgr.Register(ctx, "Test User", "user@x.com", "pw"))
		assert.Equal(t, StateAuthenticated, mgr.State())
		assert.Equal(t, "t1", store.Load())
		require.NotNil(t, mgr.User())
	})

	t.Run("register stays authenticated when the profile fetch fails", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.setMeStatus(http.StatusInternalServerError)
		mgr, store, _, _ := newTestSession(t, backend.srv.URL)

		require.NoError(t, mgr.Register(ctx, "Test User", "user@x.com", "pw"))
		assert.Equal(t, StateAuthenticated, mgr.State())
		assert.Equal(t, "t1", store.Load())
		assert.Nil(t, mgr.User())
	})
}

func TestRefreshProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh replaces the profile snapshot", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, _, _, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

		backend.mu.Lock()
		backend.user.Name = "Renamed"
		backend.mu.Unlock()

		require.NoError(t, mgr.RefreshProfile(ctx))
		assert.Equal(t, "Renamed", mgr.User().Name)
	})

	t.Run("refresh failure keeps the stale profile and the session", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, _, _, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

		backend.setMeStatus(http.StatusInternalServerError)
		err := mgr.RefreshProfile(ctx)
		assert.Error(t, err)
		assert.Equal(t, StateAuthenticated, mgr.State())
		require.NotNil(t, mgr.User())
		assert.Equal(t, "Test User", mgr.User().Name)
	})

	t.Run("refresh without a session is rejected", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, _, _, _ := newTestSession(t, backend.srv.URL)
		assert.ErrorIs(t, mgr.RefreshProfile(ctx), ErrNotAuthenticated)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(t)
	mgr, store, _, client := newTestSession(t, backend.srv.URL)
	require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

	mgr.Logout()
	mgr.Logout() // idempotent
	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Equal(t, "", store.Load())

	// A protected call after logout must attach no authorization header.
	_, err := client.Me(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, "", backend.authHeader())
}

func TestForcedLogoutIsOneShot(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(t)
	mgr, store, notifier, client := newTestSession(t, backend.srv.URL)
	require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

	// Invalidate the session server-side so every authorized call 401s.
	backend.setToken("rotated")

	const parallel = 5
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.StatisticsSummary(ctx)
			assert.ErrorIs(t, err, api.ErrUnauthorized)
		}()
	}
	wg.Wait()

	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Equal(t, "", store.Load())
	assert.Equal(t, 1, notifier.noticeCount(), "concurrent 401s must produce exactly one notice")
}

func TestReminderLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("backgrounding schedules the configured reminder", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.mu.Lock()
		backend.user.ReminderMinutes = 45
		backend.mu.Unlock()

		mgr, _, notifier, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

		mgr.OnBackground()
		assert.Equal(t, 1, notifier.pendingCount())

		mgr.OnForeground()
		assert.Equal(t, 0, notifier.pendingCount())
	})

	t.Run("rapid toggling never stacks reminders", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.mu.Lock()
		backend.user.ReminderMinutes = 30
		backend.mu.Unlock()

		mgr, _, notifier, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

		for i := 0; i < 4; i++ {
			mgr.OnBackground()
		}
		assert.Equal(t, 1, notifier.pendingCount())
	})

	t.Run("zero interval schedules nothing", func(t *testing.T) {
		backend := newFakeBackend(t)
		mgr, _, notifier, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

		mgr.OnBackground()
		assert.Equal(t, 0, notifier.scheduleCalls)
		assert.Equal(t, 0, notifier.pendingCount())
	})

	t.Run("logout cancels a pending reminder", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.mu.Lock()
		backend.user.ReminderMinutes = 15
		backend.mu.Unlock()

		mgr, _, notifier, _ := newTestSession(t, backend.srv.URL)
		require.NoError(t, mgr.Login(ctx, "user@x.com", "pw"))

		mgr.OnBackground()
		require.Equal(t, 1, notifier.pendingCount())
		mgr.Logout()
		assert.Equal(t, 0, notifier.pendingCount())
	})
}
