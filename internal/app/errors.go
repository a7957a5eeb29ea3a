package app

import "errors"

// Recoverable, per-request errors. None of these are fatal to the process and
// none corrupt other matches; they are surfaced only to the offending
// connection.
var (
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrNotFound            = errors.New("player not found")
	ErrInvalidMatch        = errors.New("match not found or not active")
	ErrNotAParticipant     = errors.New("actor is not seated in this match")
	ErrOutOfTurn           = errors.New("actor does not hold the turn")
)
