package client

import (
	"context"
	"log"
	"sync"
	"time"

	"mathrush/internal/domain"
)

// State of a game round.
type State int

const (
	StateIdle State = iota
	StateActive
	StateEnded
)

// GameConfig holds the round timing knobs. Zero values fall back to the
// defaults the game has always used.
type GameConfig struct {
	TimeLimit     time.Duration // round length, default 20s
	Tick          time.Duration // countdown sampling interval, default 100ms
	WarnThreshold time.Duration // remaining time that flips the timer to warning, default 3s
	FactHold      time.Duration // how long a fact stays up, default 5s
}

func (c GameConfig) withDefaults() GameConfig {
	if c.TimeLimit <= 0 {
		c.TimeLimit = 20 * time.Second
	}
	if c.Tick <= 0 {
		c.Tick = 100 * time.Millisecond
	}
	if c.WarnThreshold <= 0 {
		c.WarnThreshold = 3 * time.Second
	}
	if c.FactHold <= 0 {
		c.FactHold = 5 * time.Second
	}
	return c
}

// Game drives one timed round: it owns the countdown, the sequential
// question loop, and the running score. All state lives on the controller;
// the round is strictly sequential, so at most one question is ever in
// flight. After the round ends, stale timer ticks and in-flight results are
// discarded by the state guard rather than cancelled.
type Game struct {
	api    *API
	render GameRenderer
	cfg    GameConfig
	now    func() time.Time
	onEnd  func()

	mu          sync.Mutex
	state       State
	startedAt   time.Time
	current     domain.Question
	hasQuestion bool
	shownAt     time.Time
	answered    int
	totalTime   time.Duration
	stop        chan struct{}
}

func NewGame(api *API, render GameRenderer, cfg GameConfig) *Game {
	return &Game{
		api:    api,
		render: render,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
	}
}

// WithClock injects a clock for deterministic tests.
func (g *Game) WithClock(now func() time.Time) *Game {
	g.now = now
	return g
}

// WithOnEnd registers a hook run once when the round ends, after the result
// has been reported. The leaderboard refresh hangs off this.
func (g *Game) WithOnEnd(fn func()) *Game {
	g.onEnd = fn
	return g
}

// Start begins a round: counters reset, stats rendered, first question
// loaded, countdown running. Starting an already active round is a no-op.
func (g *Game) Start(ctx context.Context) {
	g.mu.Lock()
	if g.state == StateActive {
		g.mu.Unlock()
		return
	}
	g.state = StateActive
	g.answered = 0
	g.totalTime = 0
	g.hasQuestion = false
	g.startedAt = g.now()
	g.stop = make(chan struct{})
	stop := g.stop
	g.mu.Unlock()

	g.render.SetInputEnabled(true)
	g.render.ShowStats(0, 0)
	g.loadQuestion(ctx)
	go g.countdown(ctx, stop)
}

// Submit verifies the typed answer against the active question. A correct
// answer bumps the score and accumulates the time spent; either way the next
// question loads immediately. There is no retry or skip budget.
func (g *Game) Submit(ctx context.Context, answer int) {
	g.mu.Lock()
	if g.state != StateActive || !g.hasQuestion {
		g.mu.Unlock()
		return
	}
	question := g.current
	timeSpent := g.now().Sub(g.shownAt)
	g.mu.Unlock()

	result, err := g.api.VerifyAnswer(ctx, domain.AnswerSubmission{
		QuestionID: question.ID,
		Answer:     answer,
		TimeSpent:  timeSpent.Milliseconds(),
	})
	if err != nil {
		// The question stays active and the countdown keeps running; the
		// player can submit again.
		log.Printf("verify answer: %v", err)
		return
	}

	g.mu.Lock()
	if g.state != StateActive {
		// Round ended while the submission was in flight; drop the result.
		g.mu.Unlock()
		return
	}
	if result.Correct {
		g.answered++
		g.totalTime += timeSpent
	}
	score := g.answered
	avg := g.avgSpeedLocked()
	g.mu.Unlock()

	g.render.ShowFeedback(result.Correct)
	if result.Correct && result.Fact != "" {
		g.showFact(result.Fact)
	}
	g.render.ShowStats(score, avg)
	g.loadQuestion(ctx)
}

// End finishes the round exactly once: countdown stopped, summary reported,
// input disabled, game-over rendered, end hook fired.
func (g *Game) End(ctx context.Context) {
	g.mu.Lock()
	if g.state != StateActive {
		g.mu.Unlock()
		return
	}
	g.state = StateEnded
	close(g.stop)
	score := g.answered
	avg := g.avgSpeedLocked()
	g.mu.Unlock()

	if err := g.api.ReportResult(ctx, domain.GameResult{Score: score, AvgSpeed: avg}); err != nil {
		log.Printf("report result: %v", err)
	}

	g.render.ShowGameOver(score)
	g.render.SetInputEnabled(false)
	if g.onEnd != nil {
		g.onEnd()
	}
}

// State reports the current round state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Score returns the number of correctly answered questions so far.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.answered
}

// AvgSpeed returns seconds per correct answer, 0 when nothing was answered.
func (g *Game) AvgSpeed() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.avgSpeedLocked()
}

func (g *Game) avgSpeedLocked() float64 {
	if g.answered == 0 {
		return 0
	}
	return g.totalTime.Seconds() / float64(g.answered)
}

func (g *Game) countdown(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(g.cfg.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			g.tick(ctx)
		}
	}
}

// tick recomputes remaining time from the round's start timestamp, so display
// drift cannot accumulate across ticks.
func (g *Game) tick(ctx context.Context) {
	g.mu.Lock()
	if g.state != StateActive {
		g.mu.Unlock()
		return
	}
	remaining := g.cfg.TimeLimit - g.now().Sub(g.startedAt)
	g.mu.Unlock()

	if remaining <= 0 {
		g.End(ctx)
		return
	}
	g.render.ShowTimer(remaining.Seconds(), remaining <= g.cfg.WarnThreshold)
}

// loadQuestion fetches the next question. Outside an active round it is a
// no-op; a failed load ends the game on the spot rather than retrying.
func (g *Game) loadQuestion(ctx context.Context) {
	g.mu.Lock()
	if g.state != StateActive {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	question, err := g.api.RandomQuestion(ctx)
	if err != nil {
		log.Printf("load question: %v", err)
		g.End(ctx)
		return
	}

	g.mu.Lock()
	if g.state != StateActive {
		g.mu.Unlock()
		return
	}
	g.current = question
	g.hasQuestion = true
	g.shownAt = g.now()
	g.mu.Unlock()

	g.render.ShowQuestion(question.Prompt)
	if question.Fact != "" {
		g.showFact(question.Fact)
	}
}

// showFact puts a fact up and schedules its dismissal. The timer is
// deliberately not tied to the round: a game ending does not take a pending
// fact down early.
func (g *Game) showFact(fact string) {
	g.render.ShowFact(fact)
	time.AfterFunc(g.cfg.FactHold, g.render.DismissFact)
}
