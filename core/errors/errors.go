// Package errors provides the error types shared by the ChordShift packages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrUnknownKey indicates a key or chord root that matches no pitch class
	ErrUnknownKey = errors.New("unknown key")
	// ErrFileAccess indicates an input that could not be opened or read
	ErrFileAccess = errors.New("cannot open file")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// UnknownKeyError reports a key name (or chord root) outside the twelve
// pitch classes. It is never recovered from locally.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("invalid key: %s", e.Key)
}

func (e *UnknownKeyError) Unwrap() error {
	return ErrUnknownKey
}

// FileAccessError represents an input file that could not be opened or read.
type FileAccessError struct {
	Operation string // "open", "read" or "decompress"
	Path      string
	Err       error
}

func (e *FileAccessError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot %s file %s", e.Operation, e.Path)
	}
	return fmt.Sprintf("cannot %s file %s: %v", e.Operation, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFileAccess, e.Err}
	}
	return []error{ErrFileAccess}
}

// MalformedOptionError represents an unrecognized option or a missing
// required argument.
type MalformedOptionError struct {
	Option  string
	Message string
}

func (e *MalformedOptionError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("malformed option %s: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("malformed option: %s", e.Message)
}

func (e *MalformedOptionError) Unwrap() error {
	return ErrInvalidInput
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "MusicXML", "chord")
	Path    string // File path, if applicable
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // e.g. "history entry"
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Helper functions for creating common errors

// NewUnknownKey creates an UnknownKeyError
func NewUnknownKey(key string) *UnknownKeyError {
	return &UnknownKeyError{Key: key}
}

// NewFileAccess creates a FileAccessError
func NewFileAccess(operation, path string, err error) *FileAccessError {
	return &FileAccessError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewMalformedOption creates a MalformedOptionError
func NewMalformedOption(option, message string) *MalformedOptionError {
	return &MalformedOptionError{
		Option:  option,
		Message: message,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target any) bool {
	return errors.As(err, target)
}
