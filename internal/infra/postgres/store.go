package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mathrush/internal/domain"
)

// Store implements the user and score stores on a shared pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Create(ctx context.Context, username, passwordHash, avatar string) (domain.User, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, avatar) VALUES ($1, $2, $3) RETURNING id`,
		username, passwordHash, avatar,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return domain.User{ID: id, Username: username, Avatar: avatar}, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (domain.User, string, error) {
	var user domain.User
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, avatar, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Avatar, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("get user: %w", err)
	}
	return user, hash, nil
}

func (s *Store) GetOrCreateGithubUser(ctx context.Context, githubID int64, username string) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, avatar FROM users WHERE github_id = $1`,
		githubID,
	).Scan(&user.ID, &user.Username, &user.Avatar)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("get github user: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (username, github_id) VALUES ($1, $2) RETURNING id`,
		username, githubID,
	).Scan(&user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("create github user: %w", err)
	}
	user.Username = username
	return user, nil
}

func (s *Store) Save(ctx context.Context, user domain.User, result domain.GameResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (user_id, score, avg_speed, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET score = EXCLUDED.score, avg_speed = EXCLUDED.avg_speed, updated_at = now()`,
		user.ID, result.Score, result.AvgSpeed,
	)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (s *Store) Top(ctx context.Context, sortKey string, limit int) ([]domain.LeaderboardEntry, error) {
	order := `s.score DESC`
	if sortKey == domain.SortBySpeed {
		order = `s.avg_speed ASC`
	}
	query := fmt.Sprintf(
		`SELECT u.username, u.avatar, s.score, s.avg_speed
		 FROM scores s JOIN users u ON s.user_id = u.id
		 ORDER BY %s LIMIT $1`, order)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.Avatar, &entry.Score, &entry.AvgSpeed); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
