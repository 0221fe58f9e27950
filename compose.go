package md2note

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// pipeline replays blocks into the editor surface, strictly in order.
type pipeline struct {
	page     page
	timing   Timing
	log      logrus.FieldLogger
	uploader *uploader
}

// setTitle fills the title field. Degradable: the caller records a warning.
func setTitle(ctx context.Context, p page, targets Targets, timing Timing, title string) error {
	el, _, err := resolve(ctx, p, targets.Title)
	if err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("clicking title field: %w", err)
	}
	if err := el.Fill(ctx, title); err != nil {
		return fmt.Errorf("filling title field: %w", err)
	}
	if err := p.Press(ctx, KeyTab); err != nil {
		return fmt.Errorf("leaving title field: %w", err)
	}
	return sleep(ctx, timing.KeyDelay)
}

// focusSurface resolves the content surface, focuses it, and moves the
// cursor to the end of any existing content. Failure is fatal to the run.
func focusSurface(ctx context.Context, p page, targets Targets, timing Timing) (Candidate, error) {
	el, c, err := resolve(ctx, p, targets.Content)
	if err != nil {
		return Candidate{}, err
	}
	if err := el.Click(ctx); err != nil {
		return Candidate{}, fmt.Errorf("%w: %s: click: %v", ErrElementNotFound, targets.Content.Name, err)
	}
	if err := p.Press(ctx, KeyDocumentEnd); err != nil {
		return Candidate{}, fmt.Errorf("moving to document end: %w", err)
	}
	return c, sleep(ctx, timing.KeyDelay)
}

// insert attempts one block. The returned BlockResult carries any
// degradable failure; insert never aborts the run on its own.
func (pl *pipeline) insert(ctx context.Context, idx int, b ContentBlock) BlockResult {
	res := BlockResult{Index: idx, Kind: b.Kind()}
	if err := b.Validate(); err != nil {
		res.Err = err
		return res
	}

	switch blk := b.(type) {
	case Heading:
		res.Err = pl.heading(ctx, blk)
	case Paragraph:
		res.Err = pl.paragraph(ctx, blk)
	case Image:
		res.Upload, res.Err = pl.uploader.upload(ctx, blk)
	default:
		res.Err = fmt.Errorf("%w: unknown block %T", ErrInvalidBlock, b)
	}
	return res
}

// heading types the level markers as key events so the editor converts the
// line into a heading, then the text, then one line break.
func (pl *pipeline) heading(ctx context.Context, h Heading) error {
	if err := pl.page.Keys(ctx, strings.Repeat("#", h.Level)+" "); err != nil {
		return fmt.Errorf("typing heading marker: %w", err)
	}
	if err := sleep(ctx, pl.timing.KeyDelay); err != nil {
		return err
	}
	if err := pl.page.Type(ctx, h.Text); err != nil {
		return fmt.Errorf("typing heading: %w", err)
	}
	return pl.page.Press(ctx, KeyEnter)
}

// paragraph types each line, joined by soft breaks, then ends the
// paragraph and leaves a blank separating line.
func (pl *pipeline) paragraph(ctx context.Context, p Paragraph) error {
	for i, line := range p.Lines() {
		if i > 0 {
			if err := pl.page.Press(ctx, KeyLineBreak); err != nil {
				return fmt.Errorf("line break: %w", err)
			}
		}
		if err := pl.page.Type(ctx, line); err != nil {
			return fmt.Errorf("typing paragraph: %w", err)
		}
	}
	for range 2 {
		if err := pl.page.Press(ctx, KeyEnter); err != nil {
			return fmt.Errorf("ending paragraph: %w", err)
		}
	}
	return nil
}
