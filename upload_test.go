package md2note

// Notes:
// - The image count is driven either by fakePage.imageCount (mutated from
//   SetFiles/paste hooks) or by snapFn, which scripts one sample per call.
//   Call 0 is always the baseline taken before the strategy runs.

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const realSrc = "https://assets.st-note.com/img/1.png"

func newTestUploader(p *fakePage) *uploader {
	return &uploader{
		page:    p,
		targets: fastTargets(),
		timing:  fastTiming().merge(),
		log:     discardLogger(),
	}
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	return path
}

func addImage(p *fakePage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageCount++
	p.lastSrc = realSrc
}

func assertEndsOnFreshLine(t *testing.T, actions []string) {
	t.Helper()
	require.GreaterOrEqual(t, len(actions), 2)
	assert.Equal(t, []string{"press:Ctrl+End", "press:Enter"}, actions[len(actions)-2:])
}

// ---------------------------------------------------------------------------
// TestUpload_Preconditions
// ---------------------------------------------------------------------------

func TestUpload_MissingFileHasNoSideEffects(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	out, err := newTestUploader(p).upload(context.Background(), Image{Path: "missing.png"})

	assert.Equal(t, UploadFailed, out)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Empty(t, p.log())
	assert.Zero(t, p.snapCalls)
}

func TestUpload_PlacesCursorBeforeAttempt(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.onPaste = func() { addImage(p) }
	_, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)

	actions := p.log()
	assert.Equal(t, []string{"press:Ctrl+End", "press:End", "clear-selection"}, actions[:3])
}

// ---------------------------------------------------------------------------
// TestUpload_Native - File input strategy
// ---------------------------------------------------------------------------

func TestUpload_NativeSucceeds(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	in := p.addInput(`input[type="file"]`)
	in.onSetFiles = func() { addImage(p) }

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)
	assert.Equal(t, UploadSucceeded, out)

	actions := p.log()
	assert.Equal(t, 1, count(actions, `setfiles:input[type="file"]`))
	assert.Zero(t, count(actions, "paste"), "paste must not run after a native success")
	assertEndsOnFreshLine(t, actions)
}

func TestUpload_NativeUsesFirstResponsiveInput(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.addInput(`input[type="file"]`).filesErr = errBoom
	p.addInput(`input[type="file"]`).onSetFiles = func() { addImage(p) }

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)
	assert.Equal(t, UploadSucceeded, out)
	assert.Equal(t, 2, count(p.log(), `setfiles:input[type="file"]`))
}

func TestUpload_NativeWaitsForStabilization(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.addInput(`input[type="file"]`)
	p.snapFn = func(call int) imageSnapshot {
		return imageSnapshot{Count: call, LastSrc: "blob:https://note.com/preview"}
	}

	u := newTestUploader(p)
	out, err := u.upload(context.Background(), Image{Path: writeImage(t)})

	assert.Equal(t, UploadUncertain, out, "growth alone is not a confirmed upload")
	assert.ErrorIs(t, err, ErrUploadUncertain)
	// baseline, one growth sample, then every stabilization poll
	assert.Equal(t, 2+u.timing.MaxPolls, p.snapCalls)
	assert.Zero(t, count(p.log(), "paste"), "an attached file is not pasted again")
	assertEndsOnFreshLine(t, p.log())
}

func TestUpload_NativeConfirmsOnceSettled(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.addInput(`input[type="file"]`)
	p.snapFn = func(call int) imageSnapshot {
		switch {
		case call == 0:
			return imageSnapshot{}
		case call < 4:
			return imageSnapshot{Count: 1, LastSrc: "blob:https://note.com/preview"}
		default:
			return imageSnapshot{Count: 1, LastSrc: realSrc}
		}
	}

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)
	assert.Equal(t, UploadSucceeded, out)
	assert.GreaterOrEqual(t, p.snapCalls, 5, "success waits for a real source")
}

func TestUpload_NativeRejectedFallsBackToPaste(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.addInput(`input[type="file"]`).filesErr = errBoom
	p.onPaste = func() { addImage(p) }

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)
	assert.Equal(t, UploadSucceeded, out)

	actions := p.log()
	assert.Less(t, indexOf(actions, `setfiles:input[type="file"]`), indexOf(actions, "paste"))
}

// ---------------------------------------------------------------------------
// TestUpload_Paste - Clipboard strategy and stabilization
// ---------------------------------------------------------------------------

func TestUpload_PasteWithoutFileInput(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.onPaste = func() { addImage(p) }

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)
	assert.Equal(t, UploadSucceeded, out)
	assert.Equal(t, 1, count(p.log(), "paste"))
	assertEndsOnFreshLine(t, p.log())
}

func TestUpload_StabilizesAfterFluctuation(t *testing.T) {
	t.Parallel()

	counts := []int{0, 1, 2, 2, 2, 2, 2, 2}
	p := newFakePage()
	p.snapFn = func(call int) imageSnapshot {
		return imageSnapshot{Count: counts[min(call, len(counts)-1)], LastSrc: realSrc}
	}

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	require.NoError(t, err)
	assert.Equal(t, UploadSucceeded, out)
	// baseline, 1, 2 (new prev), then three unchanged samples
	assert.Equal(t, 6, p.snapCalls)
}

func TestUpload_NoPrematureSuccessWhileCountChanges(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.snapFn = func(call int) imageSnapshot {
		return imageSnapshot{Count: call, LastSrc: realSrc}
	}

	u := newTestUploader(p)
	out, err := u.upload(context.Background(), Image{Path: writeImage(t)})

	assert.Equal(t, UploadUncertain, out)
	assert.ErrorIs(t, err, ErrUploadUncertain)
	assert.Equal(t, 1+u.timing.MaxPolls, p.snapCalls, "polling stops at MaxPolls")
	assertEndsOnFreshLine(t, p.log())
}

func TestUpload_TransientSourceNotAccepted(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"blob:https://note.com/1", "data:image/png;base64,AAAA", ""} {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			p := newFakePage()
			p.snapFn = func(call int) imageSnapshot {
				if call == 0 {
					return imageSnapshot{}
				}
				return imageSnapshot{Count: 1, LastSrc: src}
			}

			out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
			assert.Equal(t, UploadUncertain, out)
			assert.ErrorIs(t, err, ErrUploadUncertain)
		})
	}
}

func TestUpload_PreexistingImagesDoNotConfirm(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.imageCount = 2
	p.lastSrc = realSrc

	out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
	assert.Equal(t, UploadUncertain, out)
	assert.ErrorIs(t, err, ErrUploadUncertain)
}

func TestUpload_PasteInjectionFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  string
		err  error
	}{
		{"no target element", "", nil},
		{"script error", "", errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newFakePage()
			p.pasteRes = tt.res
			p.pasteErr = tt.err

			out, err := newTestUploader(p).upload(context.Background(), Image{Path: writeImage(t)})
			assert.Equal(t, UploadFailed, out)
			assert.ErrorIs(t, err, ErrUploadFailed)
			assertEndsOnFreshLine(t, p.log())
		})
	}
}

func TestUpload_CancelledDuringStabilization(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := newFakePage()
	p.snapFn = func(call int) imageSnapshot {
		if call == 2 {
			cancel()
		}
		return imageSnapshot{Count: call, LastSrc: realSrc}
	}

	out, err := newTestUploader(p).upload(ctx, Image{Path: writeImage(t)})
	assert.Equal(t, UploadUncertain, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageSnapshot_Settled(t *testing.T) {
	t.Parallel()

	assert.True(t, imageSnapshot{LastSrc: realSrc}.settled())
	assert.False(t, imageSnapshot{LastSrc: "blob:x"}.settled())
	assert.False(t, imageSnapshot{LastSrc: "data:x"}.settled())
	assert.False(t, imageSnapshot{}.settled())
}
