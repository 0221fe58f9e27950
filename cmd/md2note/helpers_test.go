package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	md2note "github.com/alnah/go-md2note"
)

// fakeRunner stands in for md2note.Publish and md2note.Login.
type fakeRunner struct {
	mu sync.Mutex

	res        *md2note.Result
	publishErr error
	loginErr   error

	published int
	logins    int
	doc       md2note.Document
	session   md2note.SessionConfig
	composer  *md2note.Composer
	opts      int
}

func (r *fakeRunner) publish(_ context.Context, cfg md2note.SessionConfig, doc md2note.Document, c *md2note.Composer, opts ...md2note.SessionOption) (*md2note.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published++
	r.doc, r.session, r.composer, r.opts = doc, cfg, c, len(opts)
	if r.res == nil && r.publishErr == nil {
		return &md2note.Result{Title: doc.Title, TitleSet: true, Save: md2note.SaveConfirmed}, nil
	}
	return r.res, r.publishErr
}

func (r *fakeRunner) login(_ context.Context, cfg md2note.SessionConfig, opts ...md2note.SessionOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins++
	r.session, r.opts = cfg, len(opts)
	return r.loginErr
}

// testEnv wires r into an Environment with captured output.
func testEnv(r *fakeRunner) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Environment{
		Now:     func() time.Time { return now },
		Stdout:  stdout,
		Stderr:  stderr,
		Publish: r.publish,
		Login:   r.login,
	}, stdout, stderr
}

// writeArticle creates dir/article.md and returns dir.
func writeArticle(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "article.md"), []byte(body), 0o600))
	return dir
}

// isolatedCredentials keeps runs away from the real per-user store.
func isolatedCredentials(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "auth.json")
}
