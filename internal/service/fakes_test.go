package service

import (
	"context"
	"sync"
	"time"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/cache"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
)

// fakeSessionRepo mimics the MongoDB session repository, including the
// conditional-update semantics the services rely on.
type fakeSessionRepo struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*model.Session
	order    map[string]int

	errGetLatest error
	errCreate    error
	errIncrement error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]*model.Session),
		order:    make(map[string]int),
	}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCreate != nil {
		return f.errCreate
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	f.seq++
	cp := *session
	f.sessions[session.ID] = &cp
	f.order[session.ID] = f.seq
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (f *fakeSessionRepo) GetLatestByUser(_ context.Context, userID int64) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errGetLatest != nil {
		return nil, f.errGetLatest
	}
	var latest *model.Session
	best := -1
	for id, session := range f.sessions {
		if session.UserID != userID {
			continue
		}
		if f.order[id] > best {
			best = f.order[id]
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeSessionRepo) IncrementCounters(_ context.Context, id string, questions, correct int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errIncrement != nil {
		return f.errIncrement
	}
	if session, ok := f.sessions[id]; ok && session.Status == model.SessionActive {
		session.Questions += questions
		session.Correct += correct
	}
	return nil
}

func (f *fakeSessionRepo) Complete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[id]; ok {
		session.Status = model.SessionCompleted
		session.CurrentQuestion = ""
	}
	return nil
}

func (f *fakeSessionRepo) CompleteActiveByUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, session := range f.sessions {
		if session.UserID == userID && session.Status == model.SessionActive {
			session.Status = model.SessionCompleted
			session.CurrentQuestion = ""
		}
	}
	return nil
}

func (f *fakeSessionRepo) SetCurrentQuestion(_ context.Context, id, questionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[id]; ok && session.Status == model.SessionActive {
		session.CurrentQuestion = questionID
	}
	return nil
}

func (f *fakeSessionRepo) ConsumeCurrentQuestion(_ context.Context, id, questionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok || session.Status != model.SessionActive || session.CurrentQuestion != questionID {
		return false, nil
	}
	session.CurrentQuestion = ""
	return true, nil
}

func (f *fakeSessionRepo) activeCount(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, session := range f.sessions {
		if session.UserID == userID && session.Status == model.SessionActive {
			n++
		}
	}
	return n
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[string]*model.Question

	getAllCalls   int
	getByTagCalls int
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[string]*model.Question)}
}

func (f *fakeQuestionRepo) add(q *model.Question) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions[q.ID] = q
}

func (f *fakeQuestionRepo) Create(_ context.Context, question *model.Question) error {
	f.add(question)
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	question, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	return question, nil
}

func (f *fakeQuestionRepo) GetByTag(_ context.Context, tag string) ([]*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByTagCalls++
	var out []*model.Question
	for _, question := range f.questions {
		if question.HasTag(tag) {
			out = append(out, question)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) GetAll(_ context.Context) ([]*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getAllCalls++
	out := make([]*model.Question, 0, len(f.questions))
	for _, question := range f.questions {
		out = append(out, question)
	}
	return out, nil
}

func (f *fakeQuestionRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.questions, id)
	return nil
}

type fakeQuestionCache struct {
	mu    sync.Mutex
	pools map[string][]*model.Question
}

func newFakeQuestionCache() *fakeQuestionCache {
	return &fakeQuestionCache{pools: make(map[string][]*model.Question)}
}

func (f *fakeQuestionCache) GetPool(_ context.Context, mode string) ([]*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pools[mode], nil
}

func (f *fakeQuestionCache) SetPool(_ context.Context, mode string, questions []*model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pools[mode] = questions
	return nil
}

type fakeLeaderboard struct {
	mu      sync.Mutex
	entries []cache.LeaderboardEntry
}

func (f *fakeLeaderboard) UpdateBest(_ context.Context, userID int64, handle string, accuracy int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, cache.LeaderboardEntry{UserID: userID, Handle: handle, Accuracy: accuracy})
	return nil
}

func (f *fakeLeaderboard) GetTop(_ context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func (f *fakeLeaderboard) GetRank(_ context.Context, userID int64) (int64, error) {
	return -1, nil
}
