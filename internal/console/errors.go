package console

import "errors"

var (
	// ErrInvalidDraft means the draft failed local checks; nothing was sent.
	ErrInvalidDraft = errors.New("console: draft is invalid")
	// ErrBusy means the same mutation is already in flight.
	ErrBusy = errors.New("console: operation already in progress")
	// ErrNotConfirmed means a delete was attempted without a matching pending target.
	ErrNotConfirmed = errors.New("console: delete not confirmed")
	// ErrMarkingDisabled means there are no employees to attribute attendance to.
	ErrMarkingDisabled = errors.New("console: marking disabled without employees")
	// ErrClosed means the screen was torn down; late results are dropped.
	ErrClosed = errors.New("console: screen closed")
	// ErrModalClosed means a draft operation was attempted with no open modal.
	ErrModalClosed = errors.New("console: modal is not open")
	// ErrNotActive means the addressed screen is not the workspace's active one.
	ErrNotActive = errors.New("console: screen not active")

	ErrUnknownField    = errors.New("console: unknown draft field")
	ErrUnknownEmployee = errors.New("console: employee not in current list")
	ErrInvalidRange    = errors.New("console: invalid date range")
)
