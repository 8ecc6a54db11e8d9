package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
)

func intPtr(v int) *int { return &v }

func seedQuestions(repo *fakeQuestionRepo) {
	repo.add(&model.Question{ID: "q_a1", Question: "A1?", Choices: []string{"x", "y"}, AnswerIndex: intPtr(0), Tags: []string{"a"}})
	repo.add(&model.Question{ID: "q_a2", Question: "A2?", Choices: []string{"x", "y"}, AnswerIndex: intPtr(1), Tags: []string{"a"}})
	repo.add(&model.Question{ID: "q_a3", Question: "A3?", Choices: []string{"x", "y"}, AnswerIndex: intPtr(0), Tags: []string{"a"}})
	repo.add(&model.Question{ID: "q_b1", Question: "B1?", Choices: []string{"x", "y"}, AnswerIndex: intPtr(0), Tags: []string{"b"}})
	repo.add(&model.Question{ID: "q_b2", Question: "B2?", Choices: []string{"x", "y"}, AnswerIndex: intPtr(1), Tags: []string{"b"}})
}

func TestPickRespectsModeFilter(t *testing.T) {
	questions := newFakeQuestionRepo()
	seedQuestions(questions)
	selector := NewSelectorService(questions, newFakeSessionRepo(), nil)

	for i := 0; i < 50; i++ {
		q, err := selector.Pick(context.Background(), "a")
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		if !q.HasTag("a") {
			t.Fatalf("mode %q returned question %s with tags %v", "a", q.ID, q.Tags)
		}
	}
}

func TestPickMixedDrawsFromWholePool(t *testing.T) {
	questions := newFakeQuestionRepo()
	seedQuestions(questions)
	selector := NewSelectorService(questions, newFakeSessionRepo(), nil)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		q, err := selector.Pick(context.Background(), model.ModeMixed)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		seen[q.ID] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected mixed mode to reach all 5 questions eventually, saw %d", len(seen))
	}
}

func TestPickEmptyPoolReportsNoQuestion(t *testing.T) {
	selector := NewSelectorService(newFakeQuestionRepo(), newFakeSessionRepo(), nil)

	_, err := selector.Pick(context.Background(), "a")
	if !errors.Is(err, ErrNoQuestionAvailable) {
		t.Fatalf("expected ErrNoQuestionAvailable, got %v", err)
	}
}

func TestPickByIDMissingReportsNoQuestion(t *testing.T) {
	selector := NewSelectorService(newFakeQuestionRepo(), newFakeSessionRepo(), nil)

	_, err := selector.PickByID(context.Background(), "q_missing")
	if !errors.Is(err, ErrNoQuestionAvailable) {
		t.Fatalf("expected ErrNoQuestionAvailable, got %v", err)
	}
}

func TestServePairsQuestionWithSession(t *testing.T) {
	questions := newFakeQuestionRepo()
	seedQuestions(questions)
	sessions := newFakeSessionRepo()
	selector := NewSelectorService(questions, sessions, nil)
	ctx := context.Background()

	session := &model.Session{ID: "s_1", UserID: 42, Mode: "a", Status: model.SessionActive}
	if err := sessions.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	prompt, err := selector.Serve(ctx, session)
	if err != nil {
		t.Fatalf("Serve failed: %v", err)
	}
	if len(prompt.Choices) == 0 {
		t.Fatalf("prompt has no choices: %+v", prompt)
	}

	stored, _ := sessions.GetByID(ctx, session.ID)
	if stored.CurrentQuestion != prompt.QuestionID {
		t.Fatalf("pairing not recorded: stored %q, served %q", stored.CurrentQuestion, prompt.QuestionID)
	}
}

func TestServeOverwritesPriorPairing(t *testing.T) {
	questions := newFakeQuestionRepo()
	seedQuestions(questions)
	sessions := newFakeSessionRepo()
	selector := NewSelectorService(questions, sessions, nil)
	ctx := context.Background()

	session := &model.Session{ID: "s_1", UserID: 42, Mode: "a", Status: model.SessionActive}
	if err := sessions.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := selector.Pair(ctx, session.ID, "q_b1"); err != nil {
		t.Fatalf("Pair failed: %v", err)
	}

	prompt, err := selector.Serve(ctx, session)
	if err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	stored, _ := sessions.GetByID(ctx, session.ID)
	if stored.CurrentQuestion != prompt.QuestionID || stored.CurrentQuestion == "q_b1" {
		t.Fatalf("expected pairing to be replaced, stored %q", stored.CurrentQuestion)
	}
}

func TestPickUsesCachedPool(t *testing.T) {
	questions := newFakeQuestionRepo()
	seedQuestions(questions)
	pool := newFakeQuestionCache()
	selector := NewSelectorService(questions, newFakeSessionRepo(), pool)
	ctx := context.Background()

	if _, err := selector.Pick(ctx, "a"); err != nil {
		t.Fatalf("first Pick failed: %v", err)
	}
	if questions.getByTagCalls != 1 {
		t.Fatalf("expected one repository read on cold cache, got %d", questions.getByTagCalls)
	}

	if _, err := selector.Pick(ctx, "a"); err != nil {
		t.Fatalf("second Pick failed: %v", err)
	}
	if questions.getByTagCalls != 1 {
		t.Fatalf("expected second pick to be cache-only, got %d repository reads", questions.getByTagCalls)
	}
}
