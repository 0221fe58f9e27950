package md2note

// Notes:
// - Sessions run over fakeBrowser/fakePage via withLauncher; no Chrome.
// - Timing-sensitive assertions use generous upper bounds so they hold on
//   slow CI machines while still separating the fast path (milliseconds)
//   from the interactive wait (login timeout).

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedState(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.json")
	st := &AuthState{
		Cookies: []Cookie{{Name: "_note_session", Value: "v", Domain: ".note.com", Path: "/"}},
		Origins: []OriginStorage{{Origin: "https://note.com", LocalStorage: []StorageItem{{Name: "k", Value: "v"}}}},
	}
	require.NoError(t, st.Save(path))
	return path
}

// ---------------------------------------------------------------------------
// TestOpen - Launch and seeding
// ---------------------------------------------------------------------------

func TestOpen_SeedsStoredState(t *testing.T) {
	t.Parallel()

	b := &fakeBrowser{page: newFakePage()}
	s, err := openFake(context.Background(), SessionConfig{CredentialStorePath: storedState(t)}, b)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Seeded())
	require.Len(t, b.seeded, 1)
	assert.Equal(t, "_note_session", b.seeded[0].Name)
	require.Len(t, b.page.inits, 1)
	assert.Contains(t, b.page.inits[0], "https://note.com")
}

func TestOpen_BareContextWithoutState(t *testing.T) {
	t.Parallel()

	b := &fakeBrowser{page: newFakePage()}
	s, err := openFake(context.Background(), SessionConfig{
		CredentialStorePath: filepath.Join(t.TempDir(), "auth.json"),
	}, b)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Seeded())
	assert.Empty(t, b.seeded)
	assert.Empty(t, b.page.inits)
}

func TestOpen_CorruptStateIgnored(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "auth.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	b := &fakeBrowser{page: newFakePage()}
	s, err := openFake(context.Background(), SessionConfig{CredentialStorePath: path}, b)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Seeded())
}

func TestOpen_LaunchError(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), SessionConfig{CredentialStorePath: filepath.Join(t.TempDir(), "a.json")},
		withLauncher(func(context.Context, SessionConfig) (browser, error) {
			return nil, errBoom
		}))
	assert.ErrorIs(t, err, ErrBrowserLaunch)
}

func TestOpen_PageErrorClosesBrowser(t *testing.T) {
	t.Parallel()

	b := &fakeBrowser{pageErr: errBoom}
	_, err := openFake(context.Background(), SessionConfig{CredentialStorePath: filepath.Join(t.TempDir(), "a.json")}, b)
	assert.ErrorIs(t, err, ErrBrowserLaunch)
	assert.Equal(t, 1, b.closes)
}

func TestSessionConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := SessionConfig{}.withDefaults()
	assert.NotEmpty(t, cfg.CredentialStorePath)
	assert.Equal(t, DefaultLoginTimeout, cfg.LoginTimeout)
	assert.Equal(t, DefaultDetectTimeout, cfg.DetectTimeout)
}

// ---------------------------------------------------------------------------
// TestAuthenticate - Fast path, interactive wait, timeout
// ---------------------------------------------------------------------------

func TestAuthenticate_StoredStateShortCircuits(t *testing.T) {
	t.Parallel()

	path := storedState(t)
	p := newFakePage()
	p.add(".o-navbar__avatar")
	p.urls = []string{"https://note.com/login"}
	p.storage = OriginStorage{Origin: "https://note.com", LocalStorage: []StorageItem{{Name: "fresh", Value: "1"}}}
	b := &fakeBrowser{page: p, cookies: []Cookie{{Name: "_note_session", Value: "renewed"}}}

	s, err := openFake(context.Background(), SessionConfig{
		CredentialStorePath: path,
		LoginTimeout:        10 * time.Second,
		DetectTimeout:       time.Second,
	}, b)
	require.NoError(t, err)
	defer s.Close()

	start := time.Now()
	require.NoError(t, s.Authenticate(context.Background()))

	assert.Less(t, time.Since(start), time.Second, "must not block beyond the detection timeout")
	assert.Zero(t, p.urlCalls, "interactive login wait must not start")
	assert.Equal(t, []string{"navigate:" + DefaultLoginURL}, p.log())

	st, err := LoadAuthState(path)
	require.NoError(t, err)
	require.Len(t, st.Cookies, 1)
	assert.Equal(t, "renewed", st.Cookies[0].Value, "state is rewritten after detection")
	require.Len(t, st.Origins, 1)
	assert.Equal(t, "fresh", st.Origins[0].LocalStorage[0].Name)
}

func TestAuthenticate_WaitsForURLToLeaveLogin(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "auth.json")
	p := newFakePage()
	p.urls = []string{"https://note.com/login", "https://note.com/login?redirect=1", "https://note.com/"}
	b := &fakeBrowser{page: p, cookies: []Cookie{{Name: "c", Value: "1"}}}

	s, err := openFake(context.Background(), SessionConfig{
		CredentialStorePath: path,
		LoginTimeout:        5 * time.Second,
	}, b)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Authenticate(context.Background()))
	assert.Equal(t, 3, p.urlCalls)

	st, err := LoadAuthState(path)
	require.NoError(t, err)
	assert.Len(t, st.Cookies, 1)
}

func TestAuthenticate_Timeout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "auth.json")
	p := newFakePage()
	p.urls = []string{"https://note.com/login"}
	b := &fakeBrowser{page: p}

	s, err := openFake(context.Background(), SessionConfig{
		CredentialStorePath: path,
		LoginTimeout:        40 * time.Millisecond,
	}, b)
	require.NoError(t, err)
	defer s.Close()

	err = s.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrAuthTimeout)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing persisted on failure")
}

func TestAuthenticate_NavigationFailure(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.navErr = errBoom
	s, err := openFake(context.Background(), SessionConfig{CredentialStorePath: filepath.Join(t.TempDir(), "a.json")}, &fakeBrowser{page: p})
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Authenticate(context.Background()), ErrAuthTimeout)
}

func TestAuthenticate_CookieReadFailure(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.add(".user-menu")
	b := &fakeBrowser{page: p, cookiesErr: errBoom}
	s, err := openFake(context.Background(), SessionConfig{CredentialStorePath: filepath.Join(t.TempDir(), "a.json")}, b)
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Authenticate(context.Background()), ErrAuthState)
}

func TestAuthenticate_StorageReadFailureStillPersistsCookies(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.json")
	p := newFakePage()
	p.add(".user-menu")
	p.storeErr = errBoom
	b := &fakeBrowser{page: p, cookies: []Cookie{{Name: "c"}}}
	s, err := openFake(context.Background(), SessionConfig{CredentialStorePath: path}, b)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Authenticate(context.Background()))
	st, err := LoadAuthState(path)
	require.NoError(t, err)
	assert.Len(t, st.Cookies, 1)
	assert.Empty(t, st.Origins)
}

// ---------------------------------------------------------------------------
// TestClose - Idempotent release
// ---------------------------------------------------------------------------

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	b := &fakeBrowser{page: newFakePage()}
	s, err := openFake(context.Background(), SessionConfig{CredentialStorePath: filepath.Join(t.TempDir(), "a.json")}, b)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, b.closes)

	assert.ErrorIs(t, s.Authenticate(context.Background()), ErrSessionClosed)
}
