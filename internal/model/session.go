package model

import (
	"math"
	"time"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// ModeMixed is the catch-all quiz mode: questions are drawn from the
// whole pool instead of a single topic tag.
const ModeMixed = "mixed"

// Session is one quiz attempt by one user. A session is "active" exactly
// when its status is active and it is the most recently created session
// for that user.
type Session struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	UserID    int64         `json:"userId" bson:"userId"`
	Handle    string        `json:"handle" bson:"handle"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	Mode      string        `json:"mode" bson:"mode"`
	Questions int           `json:"questions" bson:"questions"`
	Correct   int           `json:"correct" bson:"correct"`
	// MaxQuestion caps the session; 0 means unlimited.
	MaxQuestion int           `json:"maxQuestion,omitempty" bson:"maxQuestion,omitempty"`
	Status      SessionStatus `json:"status" bson:"status"`
	// CurrentQuestion is the in-flight pairing: the id of the question
	// awaiting an answer. Persisted so any process instance can evaluate
	// the next event for this session. Empty when no question is pending.
	CurrentQuestion string `json:"currentQuestion,omitempty" bson:"currentQuestion,omitempty"`
}

// Used reports whether the session has recorded at least one question.
// A used session is treated as closed by session resolution.
func (s *Session) Used() bool {
	return s.Questions > 0
}

// Accuracy returns the score as a rounded percentage, 0 when no
// questions were answered yet.
func (s *Session) Accuracy() int {
	if s.Questions == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.Correct) / float64(s.Questions)))
}
