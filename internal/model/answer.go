package model

// SubmittedAnswer is an answer event normalized at the transport
// boundary. Canonical payloads carry the question id and a choice index;
// legacy payloads carry only the choice text, with ChoiceIndex set to -1.
type SubmittedAnswer struct {
	QuestionID  string
	ChoiceIndex int
	Text        string
}

// Legacy reports whether the answer still uses the text-based encoding.
func (a SubmittedAnswer) Legacy() bool {
	return a.QuestionID == ""
}

// Prompt is a question rendered for the chat adapter: one button per
// choice, callback data derived from QuestionID and the choice index.
type Prompt struct {
	QuestionID string   `json:"questionId"`
	Text       string   `json:"text"`
	Choices    []string `json:"choices"`
}

// NewPrompt builds the chat prompt for a question.
func NewPrompt(q *Question) *Prompt {
	return &Prompt{
		QuestionID: q.ID,
		Text:       q.Question,
		Choices:    q.Choices,
	}
}

// Feedback is the outcome of evaluating one answer.
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	Questions     int    `json:"questions"`
	CorrectCount  int    `json:"correctCount"`
	Accuracy      int    `json:"accuracy"`
	// Done is set when the answer completed the session (max-question cap).
	Done bool `json:"done,omitempty"`
	// Next is pre-selected and already paired, so the follow-up prompt is
	// delivered without another round trip. Nil when the pool ran dry or
	// the session is done.
	Next *Prompt `json:"next,omitempty"`
}

// Summary describes a finished session.
type Summary struct {
	Handle    string `json:"handle"`
	Mode      string `json:"mode"`
	Questions int    `json:"questions"`
	Correct   int    `json:"correct"`
	Accuracy  int    `json:"accuracy"`
}

// NewSummary builds the summary for a session.
func NewSummary(s *Session) *Summary {
	return &Summary{
		Handle:    s.Handle,
		Mode:      s.Mode,
		Questions: s.Questions,
		Correct:   s.Correct,
		Accuracy:  s.Accuracy(),
	}
}
