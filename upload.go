package md2note

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2note/internal/fileutil"
)

// UploadOutcome is the result of one image upload.
type UploadOutcome int

// Upload outcomes.
const (
	UploadSucceeded UploadOutcome = iota + 1
	UploadUncertain               // injected, never confirmed
	UploadFailed
)

func (o UploadOutcome) String() string {
	switch o {
	case UploadSucceeded:
		return "succeeded"
	case UploadUncertain:
		return "uncertain"
	case UploadFailed:
		return "failed"
	default:
		return "none"
	}
}

// uploadStrategy is how the asset reaches the editor.
type uploadStrategy int

const (
	strategyNative uploadStrategy = iota + 1 // <input type=file>
	strategyPaste                            // synthetic clipboard paste
)

func (s uploadStrategy) String() string {
	if s == strategyNative {
		return "native"
	}
	return "paste"
}

// uploadState is the protocol position:
// Attempting(strategy) -> Stabilizing -> Confirmed | Uncertain.
type uploadState int

const (
	stateAttempting uploadState = iota
	stateStabilizing
	stateConfirmed
	stateUncertain
	stateFailed
)

// imageSnapshot is one sample of the editor's images.
type imageSnapshot struct {
	Count   int    `json:"count"`
	LastSrc string `json:"lastSrc"`
}

// settled reports whether the newest image points at a real resource
// rather than a local preview.
func (s imageSnapshot) settled() bool {
	return s.LastSrc != "" &&
		!strings.HasPrefix(s.LastSrc, "blob:") &&
		!strings.HasPrefix(s.LastSrc, "data:")
}

// uploader runs the asset upload protocol on one page.
type uploader struct {
	page    page
	targets Targets
	timing  Timing
	log     logrus.FieldLogger
}

// upload attaches img to the editor at the end of the document. It never
// returns a fatal error: the error, when present, wraps ErrUploadFailed or
// ErrUploadUncertain and matches the outcome. Except for a missing file,
// the cursor is always left on a fresh line after the attempt.
func (u *uploader) upload(ctx context.Context, img Image) (UploadOutcome, error) {
	if !fileutil.FileExists(img.Path) {
		return UploadFailed, fmt.Errorf("%w: %s: file not found", ErrUploadFailed, img.Path)
	}

	u.placeCursor(ctx)
	outcome, err := u.run(ctx, img)

	// Step past the image so the next block is not typed inside it.
	if perr := u.page.Press(ctx, KeyDocumentEnd); perr != nil {
		u.log.WithError(perr).Debug("cursor move after upload failed")
	}
	if perr := u.page.Press(ctx, KeyEnter); perr != nil {
		u.log.WithError(perr).Debug("line break after upload failed")
	}
	return outcome, err
}

// placeCursor moves to the end of the document and drops any selection,
// so the upload appends instead of replacing content.
func (u *uploader) placeCursor(ctx context.Context) {
	for _, k := range []Key{KeyDocumentEnd, KeyEnd} {
		if err := u.page.Press(ctx, k); err != nil {
			u.log.WithError(err).Debug("cursor move failed")
		}
		_ = sleep(ctx, u.timing.KeyDelay)
	}
	if err := u.page.Eval(ctx, jsClearSelection, nil); err != nil {
		u.log.WithError(err).Debug("clear selection failed")
	}
}

// run drives the state machine until a terminal state.
func (u *uploader) run(ctx context.Context, img Image) (UploadOutcome, error) {
	state := stateAttempting
	strategy := strategyNative
	baseline := u.baseline(ctx)

	for {
		log := u.log.WithField("strategy", strategy.String())
		switch state {
		case stateAttempting:
			if strategy == strategyNative {
				attached, grew := u.attachNative(ctx, img.Path, baseline)
				if grew {
					// Growth only shows the attach took effect; the
					// thumbnail may still be a local preview.
					state = stateStabilizing
					continue
				}
				if attached {
					// A late native upload must not count as the paste.
					baseline = u.baseline(ctx)
				}
				strategy = strategyPaste
				continue
			}

			injected, err := u.paste(ctx, img.Path)
			if err != nil || !injected {
				log.WithError(err).Warn("paste injection failed")
				state = stateFailed
				continue
			}
			state = stateStabilizing

		case stateStabilizing:
			if u.stabilize(ctx, baseline) {
				state = stateConfirmed
			} else {
				state = stateUncertain
			}

		case stateConfirmed:
			log.Info("image uploaded")
			return UploadSucceeded, nil

		case stateUncertain:
			if err := ctx.Err(); err != nil {
				return UploadUncertain, fmt.Errorf("%w: %s: %w", ErrUploadUncertain, img.Path, err)
			}
			log.Warn("image upload not confirmed")
			return UploadUncertain, fmt.Errorf("%w: %s", ErrUploadUncertain, img.Path)

		default:
			return UploadFailed, fmt.Errorf("%w: %s: no strategy succeeded", ErrUploadFailed, img.Path)
		}
	}
}

func (u *uploader) baseline(ctx context.Context) imageSnapshot {
	s, err := u.snapshot(ctx)
	if err != nil {
		u.log.WithError(err).Debug("image snapshot failed")
	}
	return s
}

func (u *uploader) snapshot(ctx context.Context) (imageSnapshot, error) {
	var s imageSnapshot
	err := u.page.Eval(ctx, jsImageSnapshot, &s, u.targets.ImageSelector)
	return s, err
}

// attachNative hands the file to the first file input that accepts it and
// waits for the image count to grow. Growth is not success: the caller
// still stabilizes. A page without file inputs is a
// precondition miss, not an error.
func (u *uploader) attachNative(ctx context.Context, path string, baseline imageSnapshot) (attached, grew bool) {
	var inputs []element
	for _, c := range u.targets.FileInput.Candidates {
		els, err := u.page.FindAll(ctx, c.CSS)
		if err != nil {
			continue
		}
		inputs = append(inputs, els...)
	}
	if len(inputs) == 0 {
		u.log.Debug("no file input, skipping native upload")
		return false, false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for i, in := range inputs {
		if err := in.SetFiles(ctx, []string{abs}); err != nil {
			u.log.WithError(err).WithField("input", i).Debug("file input rejected file")
			continue
		}
		return true, u.waitForGrowth(ctx, baseline.Count)
	}
	return false, false
}

// waitForGrowth polls until the image count exceeds baseline or the
// native upload window closes.
func (u *uploader) waitForGrowth(ctx context.Context, baseline int) bool {
	wctx, cancel := context.WithTimeout(ctx, u.timing.UploadWait)
	defer cancel()

	interval := max(u.timing.PollInterval/4, 50*time.Millisecond)
	for {
		if s, err := u.snapshot(wctx); err == nil && s.Count > baseline {
			return true
		}
		if err := sleep(wctx, interval); err != nil {
			return false
		}
	}
}

// paste injects the file through the page's clipboard pipeline.
func (u *uploader) paste(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- image path comes from the document
	if err != nil {
		return false, err
	}
	surface := `[contenteditable="true"]`
	if len(u.targets.Content.Candidates) > 0 {
		surface = u.targets.Content.Candidates[0].CSS
	}

	var method string
	err = u.page.Eval(ctx, jsPasteImage, &method,
		base64.StdEncoding.EncodeToString(data),
		fileutil.ImageMIMEType(path),
		filepath.Base(path),
		surface,
	)
	if err != nil {
		return false, err
	}
	u.log.WithField("method", method).Debug("paste injected")
	return method != "", nil
}

// stabilize samples the images until the count has stayed unchanged,
// above baseline, for StableSamples consecutive polls and the newest image
// has a real source. It gives up after MaxPolls samples.
func (u *uploader) stabilize(ctx context.Context, baseline imageSnapshot) bool {
	if err := sleep(ctx, u.timing.PasteGrace); err != nil {
		return false
	}

	prev := -1
	stable := 0
	for i := 0; i < u.timing.MaxPolls; i++ {
		if err := sleep(ctx, u.timing.PollInterval); err != nil {
			return false
		}
		s, err := u.snapshot(ctx)
		if err != nil {
			u.log.WithError(err).Debug("image snapshot failed")
			prev, stable = -1, 0
			continue
		}

		if s.Count == prev && s.Count > baseline.Count {
			stable++
		} else {
			prev, stable = s.Count, 0
		}
		u.log.WithFields(logrus.Fields{
			"poll":   i + 1,
			"count":  s.Count,
			"stable": stable,
		}).Debug("stabilizing")

		if stable >= u.timing.StableSamples && s.settled() {
			return true
		}
	}
	return false
}
