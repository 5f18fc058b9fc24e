package memory

import (
	"context"
	"sort"
	"sync"

	"mathrush/internal/domain"
)

// ScoreStore keeps each player's most recent game result in memory.
type ScoreStore struct {
	mu      sync.RWMutex
	entries map[string]domain.LeaderboardEntry // keyed by username
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{entries: make(map[string]domain.LeaderboardEntry)}
}

func (s *ScoreStore) Save(_ context.Context, user domain.User, result domain.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[user.Username] = domain.LeaderboardEntry{
		Username: user.Username,
		Avatar:   user.Avatar,
		Score:    result.Score,
		AvgSpeed: result.AvgSpeed,
	}
	return nil
}

// Top returns up to limit entries ordered by score descending, or by average
// speed ascending when sortKey is "speed". Ties break on username so the
// ordering is stable across refreshes.
func (s *ScoreStore) Top(_ context.Context, sortKey string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if sortKey == domain.SortBySpeed {
			if entries[i].AvgSpeed != entries[j].AvgSpeed {
				return entries[i].AvgSpeed < entries[j].AvgSpeed
			}
		} else if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
