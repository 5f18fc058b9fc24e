package app_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"mathrush/internal/app"
	"mathrush/internal/domain"
	"mathrush/internal/infra/memory"
)

func newTestService() *app.GameService {
	return app.NewGameService(
		memory.NewUserStore(),
		memory.NewScoreStore(),
		memory.NewQuestionStore(time.Minute),
		10,
	)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	if err := service.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := service.Register(ctx, "alice", "other"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	user, err := service.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := service.Login(ctx, "alice", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	if err := service.Register(ctx, "", "secret1"); err == nil {
		t.Fatal("expected error for empty username")
	}
	if err := service.Register(ctx, "alice", ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	q, err := service.NextQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if q.Prompt == "" || q.ID == 0 {
		t.Fatalf("incomplete question: %+v", q)
	}

	answer := solve(t, q.Prompt)

	result, err := service.Verify(ctx, 1, domain.AnswerSubmission{QuestionID: q.ID, Answer: answer, TimeSpent: 1200})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Correct {
		t.Fatalf("expected correct for computed answer %d to %q", answer, q.Prompt)
	}

	// Same question, wrong answer.
	q2, err := service.NextQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	result, err = service.Verify(ctx, 1, domain.AnswerSubmission{QuestionID: q2.ID, Answer: solve(t, q2.Prompt) + 1})
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if result.Correct {
		t.Fatal("expected incorrect for off-by-one answer")
	}
}

func TestVerifyStaleQuestionID(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	q, err := service.NextQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	result, err := service.Verify(ctx, 1, domain.AnswerSubmission{QuestionID: q.ID + 1, Answer: solve(t, q.Prompt)})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Correct {
		t.Fatal("expected stale question id to count as incorrect")
	}
}

func TestVerifyWithoutIssuedQuestion(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	if _, err := service.Verify(ctx, 9, domain.AnswerSubmission{QuestionID: 1, Answer: 2}); err != domain.ErrNoActiveQuestion {
		t.Fatalf("expected ErrNoActiveQuestion, got %v", err)
	}
}

func TestLeaderboardDefaultsToScore(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	users := []struct {
		name   string
		result domain.GameResult
	}{
		{"alice", domain.GameResult{Score: 3, AvgSpeed: 5.0}},
		{"bob", domain.GameResult{Score: 8, AvgSpeed: 2.0}},
	}
	for i, u := range users {
		err := service.ReportResult(ctx, domain.User{ID: i + 1, Username: u.name}, u.result)
		if err != nil {
			t.Fatalf("report %s: %v", u.name, err)
		}
	}

	top, err := service.Leaderboard(ctx, "bogus")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if top[0].Username != "bob" {
		t.Fatalf("expected score ordering for unknown sort key, got %+v", top)
	}

	bySpeed, err := service.Leaderboard(ctx, domain.SortBySpeed)
	if err != nil {
		t.Fatalf("leaderboard speed: %v", err)
	}
	if bySpeed[0].Username != "bob" {
		t.Fatalf("expected bob fastest, got %+v", bySpeed)
	}
}

func TestVerifyCarriesFactOnCorrect(t *testing.T) {
	ctx := context.Background()
	service := newTestService().WithFacts(staticFacts("interesting number"))

	q, err := service.NextQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	result, err := service.Verify(ctx, 1, domain.AnswerSubmission{QuestionID: q.ID, Answer: solve(t, q.Prompt)})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Correct || result.Fact != "interesting number" {
		t.Fatalf("expected fact on correct answer, got %+v", result)
	}
}

type staticFacts string

func (f staticFacts) Fact(context.Context, int) (string, error) {
	return string(f), nil
}

// solve evaluates the two-operand prompt the generator produces.
func solve(t *testing.T, prompt string) int {
	t.Helper()
	for _, op := range []string{" + ", " - ", " × "} {
		if parts := strings.Split(prompt, op); len(parts) == 2 {
			a, err1 := strconv.Atoi(parts[0])
			b, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				t.Fatalf("unparseable prompt %q", prompt)
			}
			switch strings.TrimSpace(op) {
			case "+":
				return a + b
			case "-":
				return a - b
			case "×":
				return a * b
			}
		}
	}
	t.Fatalf("no operator in prompt %q", prompt)
	return 0
}
