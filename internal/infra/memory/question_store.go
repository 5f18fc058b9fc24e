package memory

import (
	"context"
	"sync"
	"time"

	"mathrush/internal/domain"
)

// QuestionStore tracks the question most recently issued to each player.
// Entries expire after ttl so abandoned rounds do not accumulate.
type QuestionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.RWMutex
	issued map[int]issuedQuestion
}

type issuedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionStore(ttl time.Duration) *QuestionStore {
	return &QuestionStore{
		ttl:    ttl,
		clock:  time.Now,
		issued: make(map[int]issuedQuestion),
	}
}

func (s *QuestionStore) Put(_ context.Context, userID int, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[userID] = issuedQuestion{question: q, expiresAt: s.clock().Add(s.ttl)}
	return nil
}

func (s *QuestionStore) Get(_ context.Context, userID int) (domain.Question, error) {
	s.mu.RLock()
	entry, ok := s.issued[userID]
	s.mu.RUnlock()
	if !ok || entry.expiresAt.Before(s.clock()) {
		return domain.Question{}, domain.ErrNoActiveQuestion
	}
	return entry.question, nil
}
