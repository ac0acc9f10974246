package vfs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("no such file or directory")
	ErrNotDir      = errors.New("not a directory")
	ErrIsDir       = errors.New("is a directory")
	ErrExist       = errors.New("file exists")
	ErrNotEmpty    = errors.New("directory not empty")
	ErrIsRoot      = errors.New("cannot remove root directory")
	ErrPermission  = errors.New("permission denied")
	ErrInvalidName = errors.New("invalid name")
)

// PathError records an error and the operation and path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

// ResolveError reports the first path component that could not be resolved.
// Consumed is the canonical path of the last node reached before the failure.
type ResolveError struct {
	Path      string
	Component string
	Consumed  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s (%q not found in %s)", ErrNotFound, e.Component, e.Consumed)
}

func (e *ResolveError) Unwrap() error { return ErrNotFound }
