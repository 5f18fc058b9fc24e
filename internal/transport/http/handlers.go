// Package http exposes the game over REST plus a websocket leaderboard feed.
// The JSON shapes are a stable contract with the browser and CLI clients.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"mathrush/internal/app"
	"mathrush/internal/domain"
)

const sessionName = "mathrush-session"

// Handler wires the game service into HTTP routes with cookie sessions.
type Handler struct {
	service  *app.GameService
	sessions *sessions.CookieStore
	oauth    *oauth2.Config
	feed     *Feed
}

func NewHandler(service *app.GameService, sessionKey string) *Handler {
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	return &Handler{
		service:  service,
		sessions: store,
		feed:     NewFeed(),
	}
}

// WithGithubOAuth enables the GitHub login routes.
func (h *Handler) WithGithubOAuth(cfg *oauth2.Config) *Handler {
	h.oauth = cfg
	return h
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(securityHeaders)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", h.logout).Methods(http.MethodPost)
	r.HandleFunc("/api/user", h.requireAuth(h.currentUser)).Methods(http.MethodGet)
	r.HandleFunc("/api/questions/random", h.requireAuth(h.randomQuestion)).Methods(http.MethodGet)
	r.HandleFunc("/api/questions/verify", h.requireAuth(h.verifyAnswer)).Methods(http.MethodPost)
	r.HandleFunc("/api/leaderboard/update", h.requireAuth(h.updateScore)).Methods(http.MethodPost)
	r.HandleFunc("/api/leaderboard", h.requireAuth(h.leaderboard)).Methods(http.MethodGet)
	r.HandleFunc("/ws/leaderboard", h.requireAuth(h.leaderboardFeed)).Methods(http.MethodGet)

	if h.oauth != nil {
		r.HandleFunc("/auth/github/login", h.githubLogin).Methods(http.MethodGet)
		r.HandleFunc("/auth/github/callback", h.githubCallback).Methods(http.MethodGet)
	}
	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	if err := h.service.Register(r.Context(), creds.Username, creds.Password); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			http.Error(w, "Username already exists", http.StatusConflict)
		} else {
			log.Printf("registration error: %v", err)
			http.Error(w, "Registration failed", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.saveSession(w, r, user); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Printf("logout: clear session: %v", err)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	writeJSON(w, map[string]string{"username": user.Username})
}

func (h *Handler) randomQuestion(w http.ResponseWriter, r *http.Request, user domain.User) {
	question, err := h.service.NextQuestion(r.Context(), user.ID)
	if err != nil {
		log.Printf("next question for %q: %v", user.Username, err)
		http.Error(w, "Failed to generate question", http.StatusInternalServerError)
		return
	}
	writeJSON(w, question)
}

func (h *Handler) verifyAnswer(w http.ResponseWriter, r *http.Request, user domain.User) {
	var sub domain.AnswerSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Verify(r.Context(), user.ID, sub)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveQuestion) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Printf("verify for %q: %v", user.Username, err)
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) updateScore(w http.ResponseWriter, r *http.Request, user domain.User) {
	var result domain.GameResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ReportResult(r.Context(), user, result); err != nil {
		log.Printf("save score for %q: %v", user.Username, err)
		http.Error(w, "Failed to save score", http.StatusInternalServerError)
		return
	}

	// Push the fresh standings to websocket watchers.
	if entries, err := h.service.Leaderboard(r.Context(), domain.SortByScore); err == nil {
		h.feed.Publish(entries)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request, _ domain.User) {
	entries, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, entries)
}

type authedHandler func(http.ResponseWriter, *http.Request, domain.User)

func (h *Handler) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.sessions.Get(r, sessionName)
		userID, ok := session.Values["userID"].(int)
		if !ok {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		username, _ := session.Values["username"].(string)
		avatar, _ := session.Values["avatar"].(string)
		next(w, r, domain.User{ID: userID, Username: username, Avatar: avatar})
	}
}

func (h *Handler) saveSession(w http.ResponseWriter, r *http.Request, user domain.User) error {
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["userID"] = user.ID
	session.Values["username"] = user.Username
	session.Values["avatar"] = user.Avatar
	return session.Save(r, w)
}

func (h *Handler) githubLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.oauth.AuthCodeURL("state"), http.StatusTemporaryRedirect)
}

func (h *Handler) githubCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		return
	}

	client := h.oauth.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var githubUser struct {
		Login string `json:"login"`
		ID    int64  `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&githubUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GithubLogin(r.Context(), githubUser.ID, githubUser.Login)
	if err != nil {
		http.Error(w, "Failed to process user", http.StatusInternalServerError)
		return
	}

	if err := h.saveSession(w, r, user); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game", http.StatusTemporaryRedirect)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
