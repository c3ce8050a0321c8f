package editor

import (
	"github.com/davronov/qrdesk/internal/content"
)

// Phase is where the content form is in its submit cycle.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Editor tracks the content form's state: which variant is being
// edited and whether a submit is in flight. It exists to make the
// double-submit and mid-flight-switch rules explicit instead of
// scattering flag checks through the UI.
type Editor struct {
	kind  content.Kind
	phase Phase
	err   error
}

// New starts on the given variant, falling back to text so there is
// always a form to show.
func New(kind content.Kind) *Editor {
	if !content.ValidKind(kind) {
		kind = content.KindText
	}
	return &Editor{kind: kind, phase: Idle}
}

func (e *Editor) Kind() content.Kind { return e.kind }
func (e *Editor) Phase() Phase       { return e.phase }
func (e *Editor) Err() error         { return e.err }

// SelectKind switches the active variant. Refused while a submit is in
// flight; otherwise it clears any previous outcome.
func (e *Editor) SelectKind(kind content.Kind) bool {
	if e.phase == Submitting || !content.ValidKind(kind) {
		return false
	}

	e.kind = kind
	e.phase = Idle
	e.err = nil
	return true
}

// BeginSubmit claims the in-flight slot. A second call before the
// first resolves reports false, which is the double-submit guard.
func (e *Editor) BeginSubmit() bool {
	if e.phase == Submitting {
		return false
	}

	e.phase = Submitting
	e.err = nil
	return true
}

func (e *Editor) Succeed() {
	if e.phase != Submitting {
		return
	}
	e.phase = Succeeded
}

func (e *Editor) Fail(err error) {
	if e.phase != Submitting {
		return
	}
	e.phase = Failed
	e.err = err
}

// Reset returns to a clean idle form on the current variant.
func (e *Editor) Reset() {
	if e.phase == Submitting {
		return
	}
	e.phase = Idle
	e.err = nil
}
