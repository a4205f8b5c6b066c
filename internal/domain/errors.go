package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource conflict")
	ErrDuplicateRequest  = errors.New("duplicate client request")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPlanInvariant     = errors.New("plan invariant violated")
	ErrQuotaExceeded     = errors.New("daily quota exceeded")
	ErrExplainerDisabled = errors.New("plan explanation feature disabled")
)
