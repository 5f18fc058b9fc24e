package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mathrush/internal/domain"
)

// UserStore abstracts account storage (in-memory, Postgres).
type UserStore interface {
	Create(ctx context.Context, username, passwordHash, avatar string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, string, error)
	GetOrCreateGithubUser(ctx context.Context, githubID int64, username string) (domain.User, error)
}

// ScoreStore abstracts leaderboard storage (in-memory, Redis, Postgres).
type ScoreStore interface {
	Save(ctx context.Context, user domain.User, result domain.GameResult) error
	Top(ctx context.Context, sortKey string, limit int) ([]domain.LeaderboardEntry, error)
}

// QuestionStore tracks the question currently issued to each player, so
// verification always runs against what that player was actually shown.
type QuestionStore interface {
	Put(ctx context.Context, userID int, q domain.Question) error
	Get(ctx context.Context, userID int) (domain.Question, error)
}

// FactSource supplies number trivia. Facts are decorative; a nil source or a
// failing lookup simply means no fact.
type FactSource interface {
	Fact(ctx context.Context, number int) (string, error)
}

// AvatarSource supplies profile thumbnails for new accounts, best-effort.
type AvatarSource interface {
	Avatar(ctx context.Context) (string, error)
}

// GameService contains the server-side game use cases: accounts, question
// issue/verify, and leaderboard reads and writes.
type GameService struct {
	users     UserStore
	scores    ScoreStore
	questions QuestionStore
	facts     FactSource
	avatars   AvatarSource
	topLimit  int

	mu    sync.Mutex
	rnd   *rand.Rand
	clock func() time.Time
}

func NewGameService(users UserStore, scores ScoreStore, questions QuestionStore, topLimit int) *GameService {
	return &GameService{
		users:     users,
		scores:    scores,
		questions: questions,
		topLimit:  topLimit,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:     time.Now,
	}
}

// WithFacts attaches a number-fact source.
func (s *GameService) WithFacts(facts FactSource) *GameService {
	s.facts = facts
	return s
}

// WithAvatars attaches an avatar source used at registration.
func (s *GameService) WithAvatars(avatars AvatarSource) *GameService {
	s.avatars = avatars
	return s
}

// Register creates an account with a bcrypt-hashed password.
func (s *GameService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	avatar := ""
	if s.avatars != nil {
		if a, err := s.avatars.Avatar(ctx); err == nil {
			avatar = a
		}
	}

	_, err = s.users.Create(ctx, username, string(hash), avatar)
	return err
}

// Login validates credentials. Unknown users and bad passwords are
// indistinguishable to the caller.
func (s *GameService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, hash, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// GithubLogin links a GitHub identity to a local account.
func (s *GameService) GithubLogin(ctx context.Context, githubID int64, username string) (domain.User, error) {
	return s.users.GetOrCreateGithubUser(ctx, githubID, username)
}

// NextQuestion generates a fresh arithmetic question, records it as the
// player's active question, and returns it. Roughly half the questions carry
// a number fact about one of the operands.
func (s *GameService) NextQuestion(ctx context.Context, userID int) (domain.Question, error) {
	q := s.generate()

	if s.facts != nil && s.coin() {
		operand := q.operandForFact
		if fact, err := s.facts.Fact(ctx, operand); err == nil {
			q.Question.Fact = fact
		}
	}

	if err := s.questions.Put(ctx, userID, q.Question); err != nil {
		return domain.Question{}, fmt.Errorf("store issued question: %w", err)
	}
	return q.Question, nil
}

// Verify checks a submission against the player's active question. A stale or
// mismatched question ID counts as incorrect rather than an error, since the
// round keeps going either way.
func (s *GameService) Verify(ctx context.Context, userID int, sub domain.AnswerSubmission) (domain.VerifyResult, error) {
	issued, err := s.questions.Get(ctx, userID)
	if err != nil {
		return domain.VerifyResult{}, err
	}

	correct := issued.ID == sub.QuestionID && issued.Answer == sub.Answer
	result := domain.VerifyResult{Correct: correct}
	if correct && s.facts != nil {
		if fact, err := s.facts.Fact(ctx, issued.Answer); err == nil {
			result.Fact = fact
		}
	}
	return result, nil
}

// ReportResult records the end-of-round summary for the leaderboard.
func (s *GameService) ReportResult(ctx context.Context, user domain.User, result domain.GameResult) error {
	return s.scores.Save(ctx, user, result)
}

// Leaderboard returns the top players for the given sort key. Anything other
// than "speed" sorts by score.
func (s *GameService) Leaderboard(ctx context.Context, sortKey string) ([]domain.LeaderboardEntry, error) {
	if sortKey != domain.SortBySpeed {
		sortKey = domain.SortByScore
	}
	return s.scores.Top(ctx, sortKey, s.topLimit)
}

type generated struct {
	Question       domain.Question
	operandForFact int
}

// generate builds one two-operand arithmetic question. Multiplication keeps
// the second operand small so answers stay mental-math sized.
func (s *GameService) generate() generated {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.rnd.Intn(90) + 10
	b := s.rnd.Intn(90) + 10
	ops := []string{"+", "-", "×"}
	op := ops[s.rnd.Intn(len(ops))]

	var answer int
	switch op {
	case "+":
		answer = a + b
	case "-":
		answer = a - b
	case "×":
		b = s.rnd.Intn(9) + 2
		answer = a * b
	}

	operand := a
	if s.rnd.Intn(2) == 0 {
		operand = b
	}

	return generated{
		Question: domain.Question{
			ID:       s.rnd.Int(),
			Prompt:   strconv.Itoa(a) + " " + op + " " + strconv.Itoa(b),
			Answer:   answer,
			Level:    "medium",
			IssuedAt: s.clock().UnixMilli(),
		},
		operandForFact: operand,
	}
}

func (s *GameService) coin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(2) == 0
}
