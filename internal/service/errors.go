package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid identification or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrTaskNotFound       = errors.New("task not found")
)

// ValidationError collects every field problem found in one request
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no field failed
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ConflictError reports a value already taken by another row, whether found
// by the explicit check or by the storage constraint.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict on " + e.Field + ": " + e.Message
}
