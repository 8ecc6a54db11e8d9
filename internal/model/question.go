package model

import "strings"

// Question is a single multiple-choice quiz question. Questions are
// immutable once stored.
type Question struct {
	ID       string   `json:"id" bson:"_id,omitempty"`
	Question string   `json:"question" bson:"question"`
	Choices  []string `json:"choices" bson:"choices"`
	// AnswerIndex is the canonical correct-choice index. Older documents
	// carry only Answer, the correct choice text.
	AnswerIndex *int     `json:"answerIndex,omitempty" bson:"answerIndex,omitempty"`
	Answer      string   `json:"answer,omitempty" bson:"answer,omitempty"`
	AnswerInfo  string   `json:"answerInfo,omitempty" bson:"answerInfo,omitempty"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// CorrectIndex resolves the correct choice to an index. Index-based
// matching is canonical; text-based documents are converted here.
// Returns -1 when the document stores neither scheme consistently.
func (q *Question) CorrectIndex() int {
	if q.AnswerIndex != nil {
		if *q.AnswerIndex >= 0 && *q.AnswerIndex < len(q.Choices) {
			return *q.AnswerIndex
		}
		return -1
	}
	return q.ChoiceIndexOf(q.Answer)
}

// ChoiceIndexOf finds the index of a choice by text, ignoring case and
// surrounding whitespace. Returns -1 when no choice matches.
func (q *Question) ChoiceIndexOf(text string) int {
	want := strings.TrimSpace(text)
	if want == "" {
		return -1
	}
	for i, c := range q.Choices {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return i
		}
	}
	return -1
}

// HasTag reports whether the question carries the given topic tag.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
