package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownGameKey  = errors.New("unknown game key")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBaselineNotSet  = errors.New("baseline not set")
	ErrAlreadyFinished = errors.New("session already finished")
)
