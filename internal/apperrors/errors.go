package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent-access conflict (lock contention, serialization
// failure). No partial state exists, so callers may retry a bounded number of times.
var ErrConflict = errors.New("conflict, safe to retry")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// Domain rule violations. These are surfaced to the caller verbatim and are
// never retried automatically.
var (
	ErrInvalidAmount     = errors.New("amount must be strictly positive")
	ErrInsufficientFunds = errors.New("insufficient treasury funds")
	ErrUnbalancedEntry   = errors.New("journal entry debits and credits do not balance")
	ErrEmptyEntry        = errors.New("journal entry must have at least two lines")
	ErrAlreadyPosted     = errors.New("voucher is not in draft status")
	ErrNotPosted         = errors.New("voucher is not in posted status")
	ErrDuplicateCode     = errors.New("code already exists in this business")
	ErrInvalidParent     = errors.New("parent account is missing, inactive or out of scope")
)
