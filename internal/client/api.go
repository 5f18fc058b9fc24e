// Package client implements the player-facing side of the game: the REST API
// client, the auth flows, the timed round controller, and the leaderboard
// view. Rendering goes through small interfaces so the controllers are
// testable without a terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"mathrush/internal/domain"
)

// StatusError is a non-2xx response. The body is kept so callers can derive
// user-facing messages from informative server text.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// API is a cookie-carrying client for the game endpoints. The jar holds the
// session cookie between login and subsequent calls, the same way a browser
// would.
type API struct {
	base string
	http *http.Client
}

func NewAPI(baseURL string) (*API, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &API{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Jar: jar},
	}, nil
}

func (a *API) Register(ctx context.Context, username, password string) error {
	return a.do(ctx, http.MethodPost, "/api/register", domain.Credentials{Username: username, Password: password}, nil)
}

func (a *API) Login(ctx context.Context, username, password string) error {
	return a.do(ctx, http.MethodPost, "/api/login", domain.Credentials{Username: username, Password: password}, nil)
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (a *API) CurrentUser(ctx context.Context) (string, error) {
	var out struct {
		Username string `json:"username"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/user", nil, &out); err != nil {
		return "", err
	}
	return out.Username, nil
}

func (a *API) RandomQuestion(ctx context.Context) (domain.Question, error) {
	var q domain.Question
	err := a.do(ctx, http.MethodGet, "/api/questions/random", nil, &q)
	return q, err
}

func (a *API) VerifyAnswer(ctx context.Context, sub domain.AnswerSubmission) (domain.VerifyResult, error) {
	var result domain.VerifyResult
	err := a.do(ctx, http.MethodPost, "/api/questions/verify", sub, &result)
	return result, err
}

func (a *API) ReportResult(ctx context.Context, result domain.GameResult) error {
	return a.do(ctx, http.MethodPost, "/api/leaderboard/update", result, nil)
}

func (a *API) Leaderboard(ctx context.Context, sortKey string) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	err := a.do(ctx, http.MethodGet, "/api/leaderboard?type="+sortKey, nil, &entries)
	return entries, err
}

func (a *API) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
