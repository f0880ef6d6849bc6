package service

import "errors"

// Error kinds surfaced to callers. Wrap them with fmt.Errorf("%w: ...") to add detail.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrQuotaExceeded     = errors.New("storage quota exceeded")
	ErrConflict          = errors.New("conflict")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrUpstream          = errors.New("upstream failure")
)
