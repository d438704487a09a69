/*
Package errors provides semantic error types for the persist library.

The package defines the failure taxonomy shared by codecs, transforms,
backends and persisted values. Each case has a sentinel that can be checked
using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("item not found")
	    ErrSerialization = errors.New("serialization failed")
	    ErrBackendIO     = errors.New("backend i/o failed")
	    ErrCancelled     = errors.New("operation cancelled")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrTransform     = errors.New("transform failed")
	)

Not found is not a failure for retrieval: repositories return a nil result
for a key that was never stored. ErrCancelled marks a debounced store that was
superseded by a newer mutation; persisted values never record it as their
last error.

Usage:

	data, err := repo.Retrieve("settings")
	if err != nil {
	    if errors.IsBackendIO(err) {
	        // storage unavailable, keep the in-memory value
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewBackendError("store", "settings", ioErr)
	err := errors.NewSerializationError("json", "decode", jsonErr)
	err := errors.NewValidationError("key", "must not be empty")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
