package domain

// User is a registered player.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// Credentials is the request body for register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Question is one arithmetic prompt issued to a player. The answer never
// crosses the wire; it lives only in the issued-question store.
type Question struct {
	ID       int    `json:"id"`
	Prompt   string `json:"question"`
	Answer   int    `json:"-"`
	Level    string `json:"level,omitempty"`
	Fact     string `json:"fact,omitempty"`
	IssuedAt int64  `json:"timestamp,omitempty"`
}

// AnswerSubmission is what the client sends to the verify endpoint.
type AnswerSubmission struct {
	QuestionID int   `json:"questionId"`
	Answer     int   `json:"answer"`
	TimeSpent  int64 `json:"timeSpent"` // milliseconds
}

// VerifyResult is the outcome of a single submission.
type VerifyResult struct {
	Correct bool   `json:"correct"`
	Fact    string `json:"fact,omitempty"`
}

// GameResult is the end-of-round summary reported to the leaderboard.
type GameResult struct {
	Score    int     `json:"score"`
	AvgSpeed float64 `json:"avgSpeed"` // seconds per correct answer
}

// LeaderboardEntry is a ranked player summary. Ordering is decided by the
// server from the requested sort key; clients render it as-is.
type LeaderboardEntry struct {
	Username string  `json:"username"`
	Avatar   string  `json:"avatar,omitempty"`
	Score    int     `json:"score"`
	AvgSpeed float64 `json:"avgSpeed"`
}

// Leaderboard sort keys accepted by the leaderboard endpoint.
const (
	SortByScore = "score"
	SortBySpeed = "speed"
)
