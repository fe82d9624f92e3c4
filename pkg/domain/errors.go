package domain

import "errors"

// ErrInvalidRegistration is returned when a command is registered without a name or handler.
var ErrInvalidRegistration = errors.New("invalid command registration")

// ErrSyntax is returned by handlers when the command text does not match the expected pattern.
var ErrSyntax = errors.New("syntax error")

// ErrNotFound is returned when a referenced element or container does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownCommand is reported when the first token of a segment is not registered.
var ErrUnknownCommand = errors.New("unknown command")

// ErrClosed is returned when submitting work to an interpreter that has been closed.
var ErrClosed = errors.New("interpreter closed")

// ErrKeyNotFound is returned when a state bag key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the manager.
var ErrSessionNotFound = errors.New("session not found")

var (
	// ErrInputTooLarge is returned when an instruction exceeds the configured size limit.
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	// ErrInvalidUTF8 is returned when an instruction is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("input contains invalid UTF-8 sequences")
)
