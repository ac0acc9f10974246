package shell

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
)

var (
	// ErrParse is the parent of every tokenizer failure.
	ErrParse          = errors.New("parse error")
	ErrUnclosedQuote  = fmt.Errorf("%w: no closing quotation", ErrParse)
	ErrDanglingEscape = fmt.Errorf("%w: no escaped character", ErrParse)

	ErrCommandNotFound = errors.New("command not found")
	ErrBusy            = errors.New("device or resource busy")
	ErrUsage           = errors.New("invalid usage")
	ErrSessionNotFound = errors.New("session not found")
)

// usageError carries a command specific usage message and matches ErrUsage.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) Is(target error) bool { return target == ErrUsage }

func usagef(op, format string, args ...any) error {
	return &vfs.PathError{Op: op, Err: &usageError{msg: fmt.Sprintf(format, args...)}}
}

func pathErr(op, path string, err error) error {
	return &vfs.PathError{Op: op, Path: path, Err: err}
}

// ErrorKind classifies command failures.
type ErrorKind int

const (
	NoError ErrorKind = iota
	ParseError
	NotFound
	NotADirectory
	IsADirectory
	AlreadyExists
	NotEmpty
	IsRoot
	CommandNotFound
	PermissionDenied
	Busy
	InvalidName
	Usage
	Unknown
)

var kindNames = map[ErrorKind]string{
	NoError:          "",
	ParseError:       "parse",
	NotFound:         "not_found",
	NotADirectory:    "not_a_directory",
	IsADirectory:     "is_a_directory",
	AlreadyExists:    "already_exists",
	NotEmpty:         "not_empty",
	IsRoot:           "is_root",
	CommandNotFound:  "command_not_found",
	PermissionDenied: "permission_denied",
	Busy:             "busy",
	InvalidName:      "invalid_name",
	Usage:            "usage",
	Unknown:          "unknown",
}

// String returns the snake_case name used in logs, metrics and the API
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf classifies err. A nil error is NoError.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrParse):
		return ParseError
	case errors.Is(err, ErrCommandNotFound):
		return CommandNotFound
	case errors.Is(err, ErrBusy):
		return Busy
	case errors.Is(err, ErrUsage):
		return Usage
	case errors.Is(err, vfs.ErrNotFound):
		return NotFound
	case errors.Is(err, vfs.ErrNotDir):
		return NotADirectory
	case errors.Is(err, vfs.ErrIsDir):
		return IsADirectory
	case errors.Is(err, vfs.ErrExist):
		return AlreadyExists
	case errors.Is(err, vfs.ErrNotEmpty):
		return NotEmpty
	case errors.Is(err, vfs.ErrIsRoot):
		return IsRoot
	case errors.Is(err, vfs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, vfs.ErrInvalidName):
		return InvalidName
	default:
		return Unknown
	}
}
