package cli

import (
	"fmt"
	"io"
	"sync"

	"mathrush/internal/domain"
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// Term renders the game onto a terminal. It implements the client package's
// FormView, GameRenderer, and LeaderboardRenderer surfaces. The countdown
// redraws in place with a carriage return; everything else scrolls.
type Term struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerm(out io.Writer) *Term {
	return &Term{out: out}
}

func (t *Term) ShowFieldError(field, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s%s: %s%s\n", ansiRed, field, message, ansiReset)
}

func (t *Term) ClearErrors() {}

func (t *Term) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, message)
}

func (t *Term) ShowQuestion(prompt string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n%s = ?\n", prompt)
}

func (t *Term) ShowTimer(remaining float64, warning bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if warning {
		fmt.Fprintf(t.out, "\r%sTime: %.1fs%s ", ansiRed, remaining, ansiReset)
		return
	}
	fmt.Fprintf(t.out, "\rTime: %.1fs ", remaining)
}

func (t *Term) ShowStats(score int, avgSpeed float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Score: %d | Avg Speed: %.1fs\n", score, avgSpeed)
}

func (t *Term) ShowFeedback(correct bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if correct {
		fmt.Fprintf(t.out, "%sCorrect!%s\n", ansiGreen, ansiReset)
		return
	}
	fmt.Fprintf(t.out, "%sWrong.%s\n", ansiRed, ansiReset)
}

func (t *Term) ShowFact(fact string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Did you know? %s\n", fact)
}

// DismissFact is a no-op on a scrolling terminal; the fact simply ages out of
// view.
func (t *Term) DismissFact() {}

func (t *Term) ShowGameOver(score int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n%sGame Over! Score: %d%s\n", ansiGreen, score, ansiReset)
}

func (t *Term) SetInputEnabled(bool) {}

func (t *Term) ShowEntries(sortKey string, entries []domain.LeaderboardEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n--- Leaderboard (%s) ---\n", sortKey)
	for i, entry := range entries {
		fmt.Fprintf(t.out, "#%d %s — Score: %d | Avg Speed: %.1fs\n",
			i+1, entry.Username, entry.Score, entry.AvgSpeed)
	}
	if len(entries) == 0 {
		fmt.Fprintln(t.out, "(no scores yet)")
	}
}

func (t *Term) SetActiveTab(sortKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sortKey == domain.SortBySpeed {
		fmt.Fprintln(t.out, "[ score | *speed* ]")
		return
	}
	fmt.Fprintln(t.out, "[ *score* | speed ]")
}
