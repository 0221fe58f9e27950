package md2note

import (
	"github.com/google/uuid"
)

// BlockResult is the outcome of one attempted block.
type BlockResult struct {
	Index  int
	Kind   BlockKind
	Upload UploadOutcome // images only
	Err    error         // nil when the block was inserted
}

// OK reports whether the block was inserted without error.
func (b BlockResult) OK() bool {
	return b.Err == nil
}

// Result summarizes a composition run. A Result with failed blocks or an
// unconfirmed save is still a completed run: the draft exists and a human
// reviews it before publishing.
type Result struct {
	RunID    uuid.UUID
	Title    string
	TitleSet bool
	Blocks   []BlockResult
	Save     SaveOutcome
	Warnings []string
}

// Failed returns the blocks that did not insert cleanly.
func (r *Result) Failed() []BlockResult {
	var out []BlockResult
	for _, b := range r.Blocks {
		if !b.OK() {
			out = append(out, b)
		}
	}
	return out
}

// Degraded reports whether anything short of full success happened.
func (r *Result) Degraded() bool {
	return len(r.Warnings) > 0 || len(r.Failed()) > 0 || !r.TitleSet || r.Save != SaveConfirmed
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// compositionRun is the transient state of one Compose call.
type compositionRun struct {
	id                uuid.UUID
	currentBlockIndex int
	lastUploadOutcome UploadOutcome
	saveConfirmed     bool
}

func newRun() *compositionRun {
	return &compositionRun{id: uuid.New(), currentBlockIndex: -1}
}
