package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/cache"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
)

// SelectorService picks questions for a session's mode and maintains the
// in-flight pairing on the session row.
type SelectorService struct {
	questions repository.QuestionRepo
	sessions  repository.SessionRepo
	pool      cache.QuestionCache
}

// NewSelectorService creates a new selector. pool may be nil, in which
// case every pick reads MongoDB directly.
func NewSelectorService(questions repository.QuestionRepo, sessions repository.SessionRepo, pool cache.QuestionCache) *SelectorService {
	return &SelectorService{
		questions: questions,
		sessions:  sessions,
		pool:      pool,
	}
}

// Pick selects a question uniformly at random from the pool for the
// given mode. ModeMixed (or empty) draws from the whole pool.
func (s *SelectorService) Pick(ctx context.Context, mode string) (*model.Question, error) {
	pool, err := s.poolForMode(ctx, mode)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestionAvailable
	}
	return pool[rand.Intn(len(pool))], nil
}

// PickByID re-resolves a question referenced by an in-flight pairing.
func (s *SelectorService) PickByID(ctx context.Context, id string) (*model.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load question %s: %w", id, err)
	}
	if question == nil {
		return nil, ErrNoQuestionAvailable
	}
	return question, nil
}

// Pair records questionID as the session's in-flight question,
// overwriting any prior pairing.
func (s *SelectorService) Pair(ctx context.Context, sessionID, questionID string) error {
	if err := s.sessions.SetCurrentQuestion(ctx, sessionID, questionID); err != nil {
		return fmt.Errorf("pair question %s with session %s: %w", questionID, sessionID, err)
	}
	return nil
}

// Serve picks a question for the session, pairs it, and returns the
// prompt to render.
func (s *SelectorService) Serve(ctx context.Context, session *model.Session) (*model.Prompt, error) {
	question, err := s.Pick(ctx, session.Mode)
	if err != nil {
		return nil, err
	}
	if err := s.Pair(ctx, session.ID, question.ID); err != nil {
		return nil, err
	}
	return model.NewPrompt(question), nil
}

func (s *SelectorService) poolForMode(ctx context.Context, mode string) ([]*model.Question, error) {
	if s.pool != nil {
		cached, err := s.pool.GetPool(ctx, mode)
		if err != nil {
			log.Printf("question pool cache read failed for mode %q: %v", mode, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var questions []*model.Question
	var err error
	if mode == "" || mode == model.ModeMixed {
		questions, err = s.questions.GetAll(ctx)
	} else {
		questions, err = s.questions.GetByTag(ctx, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("load question pool for mode %q: %w", mode, err)
	}

	if s.pool != nil {
		if err := s.pool.SetPool(ctx, mode, questions); err != nil {
			log.Printf("question pool cache write failed for mode %q: %v", mode, err)
		}
	}
	return questions, nil
}
