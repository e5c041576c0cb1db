// Package config contains pure functions for merging and validating project
// configuration. This is part of the Functional Core - no I/O happens here;
// the resolver shell feeds it parsed layers and a path-existence probe.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrEmptyIdentity is returned when sanitization leaves nothing usable.
	ErrEmptyIdentity = errors.New("project identity is empty after sanitization")
)

// ParseError reports a malformed project descriptor file.
type ParseError struct {
	Path    string // descriptor file path
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(path, message string, err error) *ParseError {
	return &ParseError{Path: path, Message: message, Err: err}
}

// IOError reports a descriptor or overlay file that exists but cannot be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FieldError is one field-level validation problem.
type FieldError struct {
	// Field names the offending field, e.g. "ports.http" or "mappings[1].local".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError carries the full list of field-level problems found on the
// merged record. It is never partially applied: one ValidationError means no
// descriptor was generated.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}
