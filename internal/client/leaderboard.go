package client

import (
	"context"
	"log"
	"time"
)

// LeaderboardView fetches and renders the ranked standings. Each Show fully
// replaces the previous render; the active-tab marker is only touched when
// the view is the dedicated leaderboard surface.
type LeaderboardView struct {
	api       *API
	render    LeaderboardRenderer
	dedicated bool
	refresh   time.Duration
}

func NewLeaderboardView(api *API, render LeaderboardRenderer, refresh time.Duration) *LeaderboardView {
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	return &LeaderboardView{api: api, render: render, refresh: refresh}
}

// Dedicated marks this view as the standalone leaderboard surface, which
// enables tab highlighting.
func (v *LeaderboardView) Dedicated() *LeaderboardView {
	v.dedicated = true
	return v
}

// Show fetches standings for sortKey and replaces the rendered list.
func (v *LeaderboardView) Show(ctx context.Context, sortKey string) error {
	entries, err := v.api.Leaderboard(ctx, sortKey)
	if err != nil {
		return err
	}
	v.render.ShowEntries(sortKey, entries)
	if v.dedicated {
		v.render.SetActiveTab(sortKey)
	}
	return nil
}

// Watch re-renders the score standings on a fixed interval until the context
// is cancelled. Refresh failures are logged and the next tick tries again.
func (v *LeaderboardView) Watch(ctx context.Context, sortKey string) {
	if err := v.Show(ctx, sortKey); err != nil {
		log.Printf("leaderboard refresh: %v", err)
	}
	ticker := time.NewTicker(v.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := v.Show(ctx, sortKey); err != nil {
				log.Printf("leaderboard refresh: %v", err)
			}
		}
	}
}
