package services

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrNoRecipients = errors.New("no suitable recipients found")
	ErrNotFound     = errors.New("notification not found")
	ErrDependency   = errors.New("dependency failure")
)

// ErrTooLarge marks an upload above the configured size limit.
var ErrTooLarge = errors.New("upload too large")
