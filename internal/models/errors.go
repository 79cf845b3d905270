// Package models defines typed errors for better error handling and context.
package models

import "fmt"

// InitializationError means the browser session could not be acquired.
// It is fatal and aborts the run before any fetch is attempted.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("browser initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// NotInitializedError means an operation was called before Initialize
// succeeded or after Shutdown released the session.
type NotInitializedError struct {
	Operation string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s called without an initialized browser session", e.Operation)
}

// FetchError means navigation to the listing page could not be attempted
// or completed. Zero extracted records is not a FetchError.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PersistenceError means the output directory or file could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist output at %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
