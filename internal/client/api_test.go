package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionCookieCarriedAcrossCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", Path: "/"})
	})
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value != "tok-1" {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"username":"alice"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api, err := NewAPI(server.URL)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}

	ctx := context.Background()
	if err := api.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	username, err := api.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if username != "alice" {
		t.Fatalf("username = %q", username)
	}
}

func TestStatusErrorKeepsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Username already exists", http.StatusConflict)
	}))
	t.Cleanup(server.Close)

	api, err := NewAPI(server.URL)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}

	err = api.Register(context.Background(), "alice", "secret1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusConflict || statusErr.Body != "Username already exists" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestTransportErrorIsNotStatusError(t *testing.T) {
	api, err := NewAPI("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	err = api.Logout(context.Background())
	var statusErr *StatusError
	if err == nil || errors.As(err, &statusErr) {
		t.Fatalf("expected bare transport error, got %v", err)
	}
}
