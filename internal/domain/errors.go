package domain

import "errors"

var (
	// ErrAuthRequired is returned when an operation needs a bearer token and
	// none is stored; callers should route the user to the login flow.
	ErrAuthRequired = errors.New("authentication required")
	// ErrLocked signals that a submission is already in flight and the new
	// one was dropped, not queued.
	ErrLocked = errors.New("submission already in flight")
	// ErrTerminal is returned when the attempt has already finished.
	ErrTerminal = errors.New("attempt already finished")
	// ErrNoActiveQuestion indicates the session has no adopted question yet.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrNoResult indicates no result bundle is stored for the quiz.
	ErrNoResult = errors.New("attempt result not found")
)
