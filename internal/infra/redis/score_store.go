// Package redis holds Redis-backed implementations of the app stores.
// Keys:
//
//	lb:byscore              ZSET  username scored by game score
//	lb:byspeed              ZSET  username scored by average speed
//	lb:entry:{username}     HASH  score / avgSpeed / avatar
//	issued:{userID}         HASH  the question currently issued to a player
package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"mathrush/internal/domain"
)

// ScoreStore keeps the leaderboard in two sorted sets so both orderings are a
// single range query away.
type ScoreStore struct {
	client *redis.Client
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client}
}

func (s *ScoreStore) Save(ctx context.Context, user domain.User, result domain.GameResult) error {
	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, keyByScore, redis.Z{Score: float64(result.Score), Member: user.Username})
	pipe.ZAdd(ctx, keyBySpeed, redis.Z{Score: result.AvgSpeed, Member: user.Username})
	pipe.HSet(ctx, entryKey(user.Username),
		"score", result.Score,
		"avgSpeed", result.AvgSpeed,
		"avatar", user.Avatar,
	)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *ScoreStore) Top(ctx context.Context, sortKey string, limit int) ([]domain.LeaderboardEntry, error) {
	stop := int64(limit - 1)
	if limit <= 0 {
		stop = -1
	}

	var usernames []string
	var err error
	if sortKey == domain.SortBySpeed {
		// fastest (lowest avg speed) first
		usernames, err = s.client.ZRange(ctx, keyBySpeed, 0, stop).Result()
	} else {
		usernames, err = s.client.ZRevRange(ctx, keyByScore, 0, stop).Result()
	}
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(usernames))
	for _, username := range usernames {
		fields, err := s.client.HGetAll(ctx, entryKey(username)).Result()
		if err != nil {
			return nil, err
		}
		entry := domain.LeaderboardEntry{Username: username, Avatar: fields["avatar"]}
		if v, err := strconv.Atoi(fields["score"]); err == nil {
			entry.Score = v
		}
		if v, err := strconv.ParseFloat(fields["avgSpeed"], 64); err == nil {
			entry.AvgSpeed = v
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

const (
	keyByScore = "lb:byscore"
	keyBySpeed = "lb:byspeed"
)

func entryKey(username string) string {
	return "lb:entry:" + username
}
