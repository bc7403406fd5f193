package cache

import (
	"errors"
	"fmt"
)

// CacheError wraps a failed Redis operation.
type CacheError struct {
	Operation string
	Channel   string
	Err       error
	Retryable bool
}

func NewCacheError(operation, channel string, err error, retryable bool) *CacheError {
	return &CacheError{
		Operation: operation,
		Channel:   channel,
		Err:       err,
		Retryable: retryable,
	}
}

func (e *CacheError) Error() string {
	if e.Channel == "" {
		return fmt.Sprintf("redis %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("redis %s on %s failed: %v", e.Operation, e.Channel, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a CacheError marked retryable.
func IsRetryable(err error) bool {
	var cacheErr *CacheError
	return errors.As(err, &cacheErr) && cacheErr.Retryable
}
