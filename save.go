package md2note

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SaveOutcome reports whether the draft save was observed.
type SaveOutcome int

// Save outcomes.
const (
	SaveNotAttempted SaveOutcome = iota
	SaveConfirmed                // a save control was clicked
	SaveUnconfirmed              // only the keyboard shortcut was sent
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveConfirmed:
		return "confirmed"
	case SaveUnconfirmed:
		return "unconfirmed"
	default:
		return "not attempted"
	}
}

// saveDraft clicks the first visible save control and waits for the
// editor to settle. Without one it sends the save shortcut exactly once.
// It never fails the run.
func saveDraft(ctx context.Context, p page, targets Targets, timing Timing, log logrus.FieldLogger) SaveOutcome {
	el, c, err := resolve(ctx, p, targets.Save)
	if err == nil {
		if err := el.Click(ctx); err == nil {
			_ = sleep(ctx, timing.SaveSettle)
			log.WithField("selector", c.String()).Info("draft saved")
			return SaveConfirmed
		}
		log.WithError(err).Warn("save control did not accept click")
	} else {
		log.WithError(err).Warn("save control not found, using keyboard shortcut")
	}

	if err := p.Press(ctx, KeySave); err != nil {
		log.WithError(err).Warn("save shortcut failed")
	}
	_ = sleep(ctx, timing.SaveSettle)
	return SaveUnconfirmed
}
