package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
)

// EvaluatorService scores submitted answers against the session's
// in-flight question. Scoring is exactly-once: the pairing is consumed
// with a conditional update before counters move, so a duplicate or late
// answer is rejected as stale instead of scored twice.
type EvaluatorService struct {
	sessions   repository.SessionRepo
	sessionSvc *SessionService
	selector   *SelectorService
}

// NewEvaluatorService creates a new answer evaluator
func NewEvaluatorService(sessions repository.SessionRepo, sessionSvc *SessionService, selector *SelectorService) *EvaluatorService {
	return &EvaluatorService{
		sessions:   sessions,
		sessionSvc: sessionSvc,
		selector:   selector,
	}
}

// Evaluate validates the answer, consumes the pairing, moves the
// counters and builds the feedback. When the session is still open it
// pre-selects and pairs the next question so the follow-up prompt ships
// with the feedback.
//
// Error contract: ErrInvalidAnswerPayload and ErrStaleAnswer leave the
// session untouched; ErrNoActiveQuestion tells the caller to recover by
// serving a fresh question.
func (s *EvaluatorService) Evaluate(ctx context.Context, session *model.Session, answer model.SubmittedAnswer) (*model.Feedback, error) {
	question, choiceIndex, err := s.resolve(ctx, session, answer)
	if err != nil {
		return nil, err
	}

	consumed, err := s.sessions.ConsumeCurrentQuestion(ctx, session.ID, question.ID)
	if err != nil {
		return nil, fmt.Errorf("consume pairing for session %s: %w", session.ID, err)
	}
	if !consumed {
		return nil, ErrStaleAnswer
	}

	correctIndex := question.CorrectIndex()
	isCorrect := correctIndex >= 0 && choiceIndex == correctIndex

	correctDelta := 0
	if isCorrect {
		correctDelta = 1
	}
	if err := s.sessionSvc.Advance(ctx, session.ID, 1, correctDelta); err != nil {
		return nil, err
	}

	updated, err := s.sessions.GetByID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("reload session %s: %w", session.ID, err)
	}
	if updated == nil {
		return nil, ErrSessionNotFound
	}

	feedback := &model.Feedback{
		Correct:      isCorrect,
		Explanation:  question.AnswerInfo,
		Questions:    updated.Questions,
		CorrectCount: updated.Correct,
		Accuracy:     updated.Accuracy(),
	}
	if correctIndex >= 0 {
		feedback.CorrectAnswer = question.Choices[correctIndex]
	}

	if updated.MaxQuestion > 0 && updated.Questions >= updated.MaxQuestion {
		if _, err := s.sessionSvc.Complete(ctx, updated.ID); err != nil {
			return nil, err
		}
		feedback.Done = true
		return feedback, nil
	}

	next, err := s.selector.Serve(ctx, updated)
	switch {
	case err == nil:
		feedback.Next = next
	case errors.Is(err, ErrNoQuestionAvailable):
		// Pool ran dry; the user can still /finish or /next later.
	default:
		log.Printf("pre-selecting next question for session %s failed: %v", updated.ID, err)
	}
	return feedback, nil
}

// resolve turns the submitted answer into a concrete (question, choice
// index) pair without mutating anything.
func (s *EvaluatorService) resolve(ctx context.Context, session *model.Session, answer model.SubmittedAnswer) (*model.Question, int, error) {
	if answer.Legacy() {
		return s.resolveLegacy(ctx, session, answer)
	}

	question, err := s.selector.PickByID(ctx, answer.QuestionID)
	if errors.Is(err, ErrNoQuestionAvailable) {
		return nil, 0, ErrInvalidAnswerPayload
	}
	if err != nil {
		return nil, 0, err
	}
	if answer.ChoiceIndex < 0 || answer.ChoiceIndex >= len(question.Choices) {
		return nil, 0, ErrInvalidAnswerPayload
	}
	return question, answer.ChoiceIndex, nil
}

// resolveLegacy handles the text-based encoding: the question comes from
// the stored pairing and the text is converted to an index.
func (s *EvaluatorService) resolveLegacy(ctx context.Context, session *model.Session, answer model.SubmittedAnswer) (*model.Question, int, error) {
	current, err := s.sessions.GetByID(ctx, session.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("reload session %s: %w", session.ID, err)
	}
	if current == nil || current.Status != model.SessionActive || current.CurrentQuestion == "" {
		return nil, 0, ErrNoActiveQuestion
	}

	question, err := s.selector.PickByID(ctx, current.CurrentQuestion)
	if errors.Is(err, ErrNoQuestionAvailable) {
		// Pairing points at a question that no longer exists; treat it as
		// missing and let the caller recover.
		return nil, 0, ErrNoActiveQuestion
	}
	if err != nil {
		return nil, 0, err
	}

	index := question.ChoiceIndexOf(answer.Text)
	if index < 0 {
		return nil, 0, ErrInvalidAnswerPayload
	}
	return question, index, nil
}
