package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

// ValidationError reports every violated field of a request, keyed by the
// JSON field name with a human-readable rule as value.
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

// NotFoundError means the request referenced an entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError means the request violated a business rule or referential
// integrity, e.g. deleting an order that still has quality checks.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StorageError wraps an unexpected storage failure so callers can tell
// "the system failed" apart from "your request was wrong".
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage error: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrapStorage converts a repository error into the domain taxonomy for a
// lookup of the given entity. ErrNotFound becomes NotFoundError, anything
// else a StorageError.
func wrapStorage(err error, entity string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &StorageError{Err: err}
}
