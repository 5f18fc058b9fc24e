package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"mathrush/internal/domain"
)

// QuestionStore keeps the currently issued question per player in a hash with
// a TTL, so multiple server instances verify against the same question.
type QuestionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuestionStore(client *redis.Client, ttl time.Duration) *QuestionStore {
	return &QuestionStore{client: client, ttl: ttl}
}

func (s *QuestionStore) Put(ctx context.Context, userID int, q domain.Question) error {
	key := issuedKey(userID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key,
		"id", q.ID,
		"prompt", q.Prompt,
		"answer", q.Answer,
		"level", q.Level,
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *QuestionStore) Get(ctx context.Context, userID int) (domain.Question, error) {
	fields, err := s.client.HGetAll(ctx, issuedKey(userID)).Result()
	if err != nil {
		return domain.Question{}, err
	}
	if len(fields) == 0 {
		return domain.Question{}, domain.ErrNoActiveQuestion
	}

	q := domain.Question{Prompt: fields["prompt"], Level: fields["level"]}
	if v, err := strconv.Atoi(fields["id"]); err == nil {
		q.ID = v
	}
	if v, err := strconv.Atoi(fields["answer"]); err == nil {
		q.Answer = v
	}
	return q, nil
}

func issuedKey(userID int) string {
	return "issued:" + strconv.Itoa(userID)
}
