// Package errors classifies failures raised while resolving events and
// provides a retry helper for domain code that calls out to flaky external
// state from Setup, Check or Payload.
//
// The package layers two concerns:
//   - Categorization: classify an error so a Payload implementation knows
//     whether retrying makes sense.
//   - Retry: handle transient failures with exponential backoff.
package errors

import (
	"errors"
	"fmt"

	"github.com/guldfisk/eventtree/pkg/eventtree"
)

// Category represents how an error returned from the resolution pipeline
// should be handled by calling code.
type Category int

const (
	// CategoryTransient indicates a retry will likely help. Domain code
	// wraps errors from flaky external calls with Transient to mark them.
	CategoryTransient Category = iota

	// CategoryPermanent indicates retry won't help.
	CategoryPermanent

	// CategoryAborted indicates the event's Setup or Check rejected it;
	// this is normal control flow, not a failure to recover from.
	CategoryAborted

	// CategoryHandler indicates a Dispatcher handler (a Condition's load,
	// a Reaction, a Response) raised a domain error during a send.
	CategoryHandler
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryPermanent:
		return "permanent"
	case CategoryAborted:
		return "aborted"
	case CategoryHandler:
		return "handler"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	Err      error
	Category Category
	Retries  int
	Context  string
}

func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)", e.Context, e.Err, e.Category, e.Retries)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)", e.Err, e.Category, e.Retries)
}

func (e *CategorizedError) Unwrap() error { return e.Err }

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: category, Context: context}
}

// Transient creates a transient error, e.g. around a Payload call that hit a
// flaky external resource and is safe to retry.
func Transient(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryTransient, context)
}

// Permanent creates a permanent error.
func Permanent(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryPermanent, context)
}

// Categorize determines how an error returned from the resolution pipeline
// should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent // shouldn't happen, fail safe
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	if errors.Is(err, eventtree.ErrSetupAborted) || errors.Is(err, eventtree.ErrCheckAborted) {
		return CategoryAborted
	}

	var handlerErr *eventtree.HandlerError
	if errors.As(err, &handlerErr) {
		return CategoryHandler
	}

	var payloadErr *eventtree.PayloadError
	if errors.As(err, &payloadErr) {
		return CategoryPermanent
	}

	return CategoryPermanent
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}

// IsAborted reports whether the error represents a Setup/Check rejection
// rather than a genuine failure.
func IsAborted(err error) bool {
	return Categorize(err) == CategoryAborted
}
