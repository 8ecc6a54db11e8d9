package service

import "errors"

// Interaction-level errors. All of them are recoverable: handlers map
// them to user-facing replies and the process keeps running. Persistence
// failures are wrapped with %w instead and read as retryable.
var (
	// ErrNoActiveQuestion means an answer arrived with no resolvable
	// in-flight question. Handlers recover by serving a fresh question.
	ErrNoActiveQuestion = errors.New("no active question for session")

	// ErrStaleAnswer means the answer references a pairing that was
	// already consumed or replaced. Rejected without touching counters,
	// so duplicate taps never double-score.
	ErrStaleAnswer = errors.New("answer refers to an already-scored question")

	ErrNoQuestionAvailable  = errors.New("no question available")
	ErrInvalidAnswerPayload = errors.New("invalid answer payload")
	ErrSessionNotFound      = errors.New("session not found")
)
