package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for the all-time
// leaderboard of completed sessions
type LeaderboardCache interface {
	// UpdateBest records a finished session's accuracy, keeping the best
	// score per user.
	UpdateBest(ctx context.Context, userID int64, handle string, accuracy int) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, userID int64) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	UserID   int64  `json:"userId"`
	Handle   string `json:"handle"`
	Accuracy int    `json:"accuracy"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

const (
	leaderboardKey = "quiz:lb"
	handlesKey     = "quiz:lb:handles"
)

func (c *leaderboardCache) UpdateBest(ctx context.Context, userID int64, handle string, accuracy int) error {
	member := strconv.FormatInt(userID, 10)

	// GT keeps the existing score when the new one is lower
	if err := c.client.ZAddGT(ctx, leaderboardKey, redis.Z{
		Score:  float64(accuracy),
		Member: member,
	}).Err(); err != nil {
		return err
	}
	if handle == "" {
		return nil
	}
	return c.client.HSet(ctx, handlesKey, member, handle).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		member := z.Member.(string)
		userID, _ := strconv.ParseInt(member, 10, 64)
		handle, err := c.client.HGet(ctx, handlesKey, member).Result()
		if err == redis.Nil {
			handle = ""
		} else if err != nil {
			return nil, err
		}
		entries[i] = LeaderboardEntry{
			UserID:   userID,
			Handle:   handle,
			Accuracy: int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, userID int64) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, strconv.FormatInt(userID, 10)).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
