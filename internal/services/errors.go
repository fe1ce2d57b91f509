package services

import (
	"errors"

	"github.com/ajramos/inboxchat/internal/backend"
)

// Service errors
var (
	ErrInvalidIndex      = errors.New("invalid email index")
	ErrNoPendingDelete   = errors.New("no delete awaiting confirmation")
	ErrDeletePending     = errors.New("a delete is awaiting confirmation")
	ErrReplyNotGenerated = errors.New("no generated reply for email")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidInput      = errors.New("invalid input provided")
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	return errors.Is(err, backend.ErrNetworkUnavailable) ||
		errors.Is(err, backend.ErrTimeout) ||
		errors.Is(err, backend.ErrServiceUnavailable) ||
		errors.Is(err, backend.ErrQuotaExceeded)
}

// IsPermanentError determines if an error is permanent and should not be retried
func IsPermanentError(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized) ||
		errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, backend.ErrNotFound) ||
		errors.Is(err, ErrInvalidIndex) ||
		errors.Is(err, ErrInvalidInput)
}

// IsAuthError reports whether the user must sign in again
func IsAuthError(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, ErrNotAuthenticated)
}
