package md2note

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultTitle is used when a document has none.
const DefaultTitle = "Untitled"

// Composer replays Documents into the remote editor through a Session.
// A Composer holds no run state and may be reused across sessions.
type Composer struct {
	targets Targets
	timing  Timing
	log     logrus.FieldLogger
}

// NewComposer creates a Composer with the built-in targets and timing.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		targets: DefaultTargets(),
		timing:  DefaultTiming(),
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose opens a new draft, sets its title, inserts every block in order,
// and saves. Only navigation failure, a missing content surface and
// cancellation of ctx are fatal; they return the partial Result with the
// error. Every other failure is recorded on the Result.
func (c *Composer) Compose(ctx context.Context, s *Session, doc Document) (*Result, error) {
	if s == nil {
		return nil, ErrSessionClosed
	}
	p, err := s.livePage()
	if err != nil {
		return nil, err
	}

	run := newRun()
	log := c.log.WithField("run", run.id.String())
	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}
	res := &Result{RunID: run.id, Title: title}

	log.WithFields(logrus.Fields{
		"blocks": len(doc.Blocks),
		"intent": doc.Intent.String(),
	}).Info("composing draft")

	if err := c.openDraft(ctx, p); err != nil {
		return res, err
	}

	if err := setTitle(ctx, p, c.targets, c.timing, title); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		log.WithError(err).Warn("title not set")
		res.warn("title not set; set it manually in the editor")
	} else {
		res.TitleSet = true
		log.WithField("title", title).Info("title set")
	}

	surface, err := focusSurface(ctx, p, c.targets, c.timing)
	if err != nil {
		log.WithError(err).Error("content surface unavailable")
		return res, err
	}
	log.WithField("selector", surface.String()).Debug("content surface focused")

	pl := &pipeline{
		page:   p,
		timing: c.timing,
		log:    log,
		uploader: &uploader{
			page:    p,
			targets: c.targets,
			timing:  c.timing,
			log:     log,
		},
	}
	for i, b := range doc.Blocks {
		run.currentBlockIndex = i
		blog := log.WithFields(logrus.Fields{"block": i, "kind": b.Kind().String()})
		pl.log = blog
		pl.uploader.log = blog

		br := pl.insert(ctx, i, b)
		res.Blocks = append(res.Blocks, br)
		if br.Kind == KindImage {
			run.lastUploadOutcome = br.Upload
		}

		if err := ctx.Err(); err != nil {
			return res, interrupted(log, run, err)
		}
		if br.Err != nil {
			blog.WithError(br.Err).Warn("block skipped")
		} else {
			blog.Debug("block inserted")
		}
		if err := sleep(ctx, c.timing.BlockDelay); err != nil {
			return res, interrupted(log, run, err)
		}
	}

	res.Save = saveDraft(ctx, p, c.targets, c.timing, log)
	run.saveConfirmed = res.Save == SaveConfirmed
	if !run.saveConfirmed {
		res.warn("save not confirmed; check the draft was saved")
	}
	if doc.Intent == IntentPublish {
		res.warn("publishing is not implemented; saved as draft")
	}

	log.WithFields(logrus.Fields{
		"failed":      len(res.Failed()),
		"last_upload": run.lastUploadOutcome.String(),
		"save":        res.Save.String(),
	}).Info("composition finished")
	return res, nil
}

// interrupted logs where a cancelled run stopped and passes err through.
func interrupted(log logrus.FieldLogger, run *compositionRun, err error) error {
	log.WithError(err).WithFields(logrus.Fields{
		"block":       run.currentBlockIndex,
		"last_upload": run.lastUploadOutcome.String(),
	}).Warn("composition interrupted")
	return err
}

func (c *Composer) openDraft(ctx context.Context, p page) error {
	nctx := ctx
	if c.timing.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		nctx, cancel = context.WithTimeout(ctx, c.timing.NavigationTimeout)
		defer cancel()
	}
	if err := p.Navigate(nctx, c.targets.NewDraftURL); err != nil {
		if errors.Is(err, ErrNavigation) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrNavigation, c.targets.NewDraftURL, err)
	}
	return sleep(ctx, c.timing.EditorSettle)
}

// Publish opens a session, authenticates, composes doc and always closes
// the browser. A failure to persist credentials after a successful login
// is reported as a warning, not an error.
func Publish(ctx context.Context, cfg SessionConfig, doc Document, c *Composer, opts ...SessionOption) (res *Result, err error) {
	if c == nil {
		c = NewComposer()
	}
	opts = append([]SessionOption{
		WithSessionTargets(c.targets),
		withResolvedTiming(c.timing),
		WithSessionLogger(c.log),
	}, opts...)
	s, err := Open(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			s.log.WithError(cerr).Debug("browser close")
		}
	}()

	var authWarning string
	if err := s.Authenticate(ctx); err != nil {
		if !errors.Is(err, ErrAuthState) {
			return nil, err
		}
		s.log.WithError(err).Warn("credentials not saved")
		authWarning = "credentials not saved; the next run will ask for login again"
	}

	res, err = c.Compose(ctx, s, doc)
	if res != nil && authWarning != "" {
		res.Warnings = append([]string{authWarning}, res.Warnings...)
	}
	return res, err
}

// Login opens a session and authenticates without composing anything.
// Credentials are stored on success; failing to store them is an error
// here since storing them is the point of the call.
func Login(ctx context.Context, cfg SessionConfig, opts ...SessionOption) error {
	s, err := Open(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			s.log.WithError(cerr).Debug("browser close")
		}
	}()
	return s.Authenticate(ctx)
}
