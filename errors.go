package md2note

import "errors"

// Sentinel errors for library operations.
var (
	// Fatal: the run cannot proceed.
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrAuthTimeout   = errors.New("authentication did not complete")
	ErrNavigation    = errors.New("navigation failed")
	ErrSessionClosed = errors.New("session is closed")

	// ErrElementNotFound is fatal only for the content surface.
	ErrElementNotFound = errors.New("element not found")

	// Degradable: recorded on the Result, the run continues.
	ErrUploadFailed    = errors.New("image upload failed")
	ErrUploadUncertain = errors.New("image upload not confirmed")
	ErrSaveUnconfirmed = errors.New("draft save not confirmed")

	// Input and persisted state.
	ErrInvalidBlock  = errors.New("invalid content block")
	ErrInvalidIntent = errors.New("invalid status")
	ErrAuthState     = errors.New("authentication state unusable")
)
