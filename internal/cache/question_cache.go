package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
)

// QuestionCache holds the question pool per mode so the selector does
// not hit MongoDB on every pick. The short TTL also bounds how long an
// admin edit takes to reach players.
type QuestionCache interface {
	GetPool(ctx context.Context, mode string) ([]*model.Question, error)
	SetPool(ctx context.Context, mode string, questions []*model.Question) error
}

type questionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuestionCache creates a new question pool cache
func NewQuestionCache(client *redis.Client) QuestionCache {
	return &questionCache{
		client: client,
		ttl:    time.Minute,
	}
}

func (c *questionCache) key(mode string) string {
	return fmt.Sprintf("quiz:pool:%s", mode)
}

func (c *questionCache) GetPool(ctx context.Context, mode string) ([]*model.Question, error) {
	data, err := c.client.Get(ctx, c.key(mode)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questions []*model.Question
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *questionCache) SetPool(ctx context.Context, mode string, questions []*model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(mode), data, c.ttl).Err()
}
