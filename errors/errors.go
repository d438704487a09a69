/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"context"
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a key has no stored item.
	// Repositories report absence as a nil result; ErrNotFound only surfaces
	// from operations where absence is a failure, such as Rename.
	ErrNotFound = errors.New("item not found")

	// ErrSerialization is returned when a codec cannot encode or decode a value
	ErrSerialization = errors.New("serialization failed")

	// ErrBackendIO is returned when the underlying backend fails
	ErrBackendIO = errors.New("backend i/o failed")

	// ErrCancelled is returned when a scheduled operation was superseded or its context ended
	ErrCancelled = errors.New("operation cancelled")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransform is returned when a cipher or archiver cannot transform bytes
	ErrTransform = errors.New("transform failed")
)

// NotFoundError represents an error when an item is not found
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with key %q not found", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SerializationError wraps a codec failure
type SerializationError struct {
	Codec string
	Op    string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Codec, e.Op, e.Err)
}

func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// BackendError wraps a failure reported by a storage backend
type BackendError struct {
	Op  string
	Key string
	Err error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("backend %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("backend %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendIO
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// TransformError wraps a cipher or archiver failure
type TransformError struct {
	Transform string
	Op        string
	Err       error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Transform, e.Op, e.Err)
}

func (e *TransformError) Is(target error) bool {
	return target == ErrTransform
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(key string) error {
	return &NotFoundError{Key: key}
}

// NewSerializationError creates a new SerializationError
func NewSerializationError(codec, op string, err error) error {
	return &SerializationError{Codec: codec, Op: op, Err: err}
}

// NewBackendError creates a new BackendError
func NewBackendError(op, key string, err error) error {
	return &BackendError{Op: op, Key: key, Err: err}
}

// NewTransformError creates a new TransformError
func NewTransformError(transform, op string, err error) error {
	return &TransformError{Transform: transform, Op: op, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSerialization checks if an error is a codec failure
func IsSerialization(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// IsBackendIO checks if an error is a backend failure
func IsBackendIO(err error) bool {
	return errors.Is(err, ErrBackendIO)
}

// IsCancelled checks if an error reports a superseded or cancelled operation.
// A context.Canceled error counts as cancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsTransform checks if an error is a cipher or archiver failure
func IsTransform(err error) bool {
	return errors.Is(err, ErrTransform)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
