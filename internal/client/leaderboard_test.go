package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mathrush/internal/domain"
)

type recordingBoard struct {
	mu      sync.Mutex
	renders int
	last    []domain.LeaderboardEntry
	lastKey string
	tabs    []string
}

func (b *recordingBoard) ShowEntries(sortKey string, entries []domain.LeaderboardEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renders++
	b.last = entries
	b.lastKey = sortKey
}

func (b *recordingBoard) SetActiveTab(sortKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabs = append(b.tabs, sortKey)
}

func newBoardFixture(t *testing.T, pages ...[]domain.LeaderboardEntry) (*LeaderboardView, *recordingBoard) {
	t.Helper()
	var mu sync.Mutex
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		page := pages[call%len(pages)]
		call++
		mu.Unlock()
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(server.Close)

	api, err := NewAPI(server.URL)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	board := &recordingBoard{}
	return NewLeaderboardView(api, board, time.Minute), board
}

func TestShowReplacesListEntirely(t *testing.T) {
	first := []domain.LeaderboardEntry{
		{Username: "alice", Score: 9, AvgSpeed: 2.5},
		{Username: "bob", Score: 7, AvgSpeed: 3.1},
	}
	second := []domain.LeaderboardEntry{
		{Username: "carol", Score: 11, AvgSpeed: 1.9},
	}
	view, board := newBoardFixture(t, first, second)

	if err := view.Show(context.Background(), domain.SortByScore); err != nil {
		t.Fatalf("show: %v", err)
	}
	if err := view.Show(context.Background(), domain.SortByScore); err != nil {
		t.Fatalf("show again: %v", err)
	}

	board.mu.Lock()
	defer board.mu.Unlock()
	if board.renders != 2 {
		t.Fatalf("expected 2 renders, got %d", board.renders)
	}
	if len(board.last) != 1 || board.last[0].Username != "carol" {
		t.Fatalf("previous render leaked into the list: %+v", board.last)
	}
}

func TestActiveTabOnlyOnDedicatedSurface(t *testing.T) {
	entries := []domain.LeaderboardEntry{{Username: "alice", Score: 1}}

	embedded, board := newBoardFixture(t, entries)
	if err := embedded.Show(context.Background(), domain.SortBySpeed); err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(board.tabs) != 0 {
		t.Fatalf("embedded view touched the tabs: %v", board.tabs)
	}

	dedicated, board2 := newBoardFixture(t, entries)
	dedicated.Dedicated()
	if err := dedicated.Show(context.Background(), domain.SortBySpeed); err != nil {
		t.Fatalf("show dedicated: %v", err)
	}
	if len(board2.tabs) != 1 || board2.tabs[0] != domain.SortBySpeed {
		t.Fatalf("expected one active tab %q, got %v", domain.SortBySpeed, board2.tabs)
	}
}

func TestWatchRefreshesPeriodically(t *testing.T) {
	entries := []domain.LeaderboardEntry{{Username: "alice", Score: 1}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entries)
	}))
	t.Cleanup(server.Close)

	api, err := NewAPI(server.URL)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	board := &recordingBoard{}
	view := NewLeaderboardView(api, board, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		view.Watch(ctx, domain.SortByScore)
	}()

	deadline := time.After(5 * time.Second)
	for {
		board.mu.Lock()
		renders := board.renders
		board.mu.Unlock()
		if renders >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watch never refreshed")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestShowPropagatesFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	api, err := NewAPI(server.URL)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	board := &recordingBoard{}
	view := NewLeaderboardView(api, board, time.Minute)

	if err := view.Show(context.Background(), domain.SortByScore); err == nil {
		t.Fatal("expected error from failing fetch")
	}
	if board.renders != 0 {
		t.Fatal("failed fetch must not touch the rendered list")
	}
}
