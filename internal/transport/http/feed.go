package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"mathrush/internal/domain"
)

// Feed fans leaderboard snapshots out to websocket subscribers. Slow readers
// have their stale snapshot replaced rather than blocking the publisher.
type Feed struct {
	mu   sync.Mutex
	subs map[chan []domain.LeaderboardEntry]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan []domain.LeaderboardEntry]struct{})}
}

func (f *Feed) Subscribe() (<-chan []domain.LeaderboardEntry, func()) {
	ch := make(chan []domain.LeaderboardEntry, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *Feed) Publish(entries []domain.LeaderboardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- entries:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- entries
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// leaderboardFeed streams standings: one snapshot on connect, then one per
// score submission.
func (h *Handler) leaderboardFeed(w http.ResponseWriter, r *http.Request, _ domain.User) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	initial, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("type"))
	if err == nil {
		if err := conn.WriteJSON(initial); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// drain reads so we notice the peer going away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entries, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(entries); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
