package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"mathrush/internal/app"
	"mathrush/internal/config"
	"mathrush/internal/facts"
	"mathrush/internal/infra/memory"
	"mathrush/internal/infra/postgres"
	infraredis "mathrush/internal/infra/redis"
	transport "mathrush/internal/transport/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), configPath, port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	sessionKey := cfg.Server.SessionKey
	if sessionKey == "" {
		sessionKey = os.Getenv("SESSION_KEY")
	}
	if sessionKey == "" {
		log.Printf("warning: using built-in session key; set server.session_key in production")
		sessionKey = "dev-only-session-key"
	}

	questionTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var users app.UserStore = memory.NewUserStore()
	var scores app.ScoreStore = memory.NewScoreStore()
	var questions app.QuestionStore = memory.NewQuestionStore(questionTTL)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := postgres.NewStore(pool)
		users = store
		scores = store
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		scores = infraredis.NewScoreStore(client)
		questions = infraredis.NewQuestionStore(client, questionTTL)
	}

	limit := cfg.Leaderboard.Limit
	if limit <= 0 {
		limit = config.DefaultLeaderboardLimit
	}

	factsBase := cfg.Facts.BaseURL
	if factsBase == "" {
		factsBase = config.DefaultFactsBaseURL
	}
	factsTTL := config.Duration(cfg.Facts.TTL, 10*time.Minute)

	service := app.NewGameService(users, scores, questions, limit).
		WithFacts(facts.NewClient(factsBase, factsTTL)).
		WithAvatars(facts.NewAvatarClient("https://randomuser.me"))

	handler := transport.NewHandler(service, sessionKey)
	if cfg.OAuth.GithubClientID != "" {
		handler.WithGithubOAuth(&oauth2.Config{
			ClientID:     cfg.OAuth.GithubClientID,
			ClientSecret: cfg.OAuth.GithubClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		})
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting mathrush server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
