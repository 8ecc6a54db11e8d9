package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/cache"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
)

// SessionService owns the session lifecycle: at most one active session
// per user, counters that only move through single atomic updates, and
// terminal, idempotent completion.
type SessionService struct {
	sessions     repository.SessionRepo
	leaderboard  cache.LeaderboardCache
	maxQuestions int
}

// NewSessionService creates a new session service. maxQuestions caps new
// sessions; 0 means unlimited. leaderboard may be nil.
func NewSessionService(sessions repository.SessionRepo, leaderboard cache.LeaderboardCache, maxQuestions int) *SessionService {
	return &SessionService{
		sessions:     sessions,
		leaderboard:  leaderboard,
		maxQuestions: maxQuestions,
	}
}

// ResolveOrCreate returns the session the next question should be served
// against. An unused active session is resumed as-is; anything else
// (none, used, completed) yields a fresh session in the default mode.
func (s *SessionService) ResolveOrCreate(ctx context.Context, userID int64, handle string) (*model.Session, error) {
	latest, err := s.sessions.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if latest != nil && latest.Status == model.SessionActive && !latest.Used() {
		return latest, nil
	}
	return s.create(ctx, userID, handle, model.ModeMixed)
}

// BeginWithMode always starts a fresh session in the chosen mode,
// regardless of prior session state.
func (s *SessionService) BeginWithMode(ctx context.Context, userID int64, handle, mode string) (*model.Session, error) {
	return s.create(ctx, userID, handle, mode)
}

// Active returns the user's active session, or nil when the latest
// session is missing or completed.
func (s *SessionService) Active(ctx context.Context, userID int64) (*model.Session, error) {
	latest, err := s.sessions.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if latest == nil || latest.Status != model.SessionActive {
		return nil, nil
	}
	return latest, nil
}

// Advance atomically moves the session counters.
func (s *SessionService) Advance(ctx context.Context, sessionID string, questionsDelta, correctDelta int) error {
	if err := s.sessions.IncrementCounters(ctx, sessionID, questionsDelta, correctDelta); err != nil {
		return fmt.Errorf("advance session %s: %w", sessionID, err)
	}
	return nil
}

// Complete marks the session completed and publishes its score to the
// leaderboard. Completing an already-completed session is a no-op.
func (s *SessionService) Complete(ctx context.Context, sessionID string) (*model.Session, error) {
	if err := s.sessions.Complete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("complete session %s: %w", sessionID, err)
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	// Leaderboard is best-effort: a Redis failure must not fail the
	// interaction.
	if s.leaderboard != nil && session.Used() {
		if err := s.leaderboard.UpdateBest(ctx, session.UserID, session.Handle, session.Accuracy()); err != nil {
			log.Printf("leaderboard update failed for session %s: %v", sessionID, err)
		}
	}
	return session, nil
}

func (s *SessionService) create(ctx context.Context, userID int64, handle, mode string) (*model.Session, error) {
	// Close whatever was active first; a user never holds two active rows.
	if err := s.sessions.CompleteActiveByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("close previous sessions: %w", err)
	}

	session := &model.Session{
		ID:          "s_" + uuid.New().String()[:8],
		UserID:      userID,
		Handle:      handle,
		Mode:        mode,
		MaxQuestion: s.maxQuestions,
		Status:      model.SessionActive,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}
