package client

import "mathrush/internal/domain"

// Form field keys used by the auth error slots.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// FormView is the rendering surface for the auth forms. Several error slots
// may be active at once; ClearErrors resets all of them.
type FormView interface {
	ShowFieldError(field, message string)
	ClearErrors()
	Notify(message string)
}

// GameRenderer is the rendering surface for a round. Implementations must
// tolerate calls after the round ended (the fact dismissal timer outlives the
// game on purpose).
type GameRenderer interface {
	ShowQuestion(prompt string)
	ShowTimer(remainingSeconds float64, warning bool)
	ShowStats(score int, avgSpeedSeconds float64)
	ShowFeedback(correct bool)
	ShowFact(fact string)
	DismissFact()
	ShowGameOver(score int)
	SetInputEnabled(enabled bool)
}

// LeaderboardRenderer displays ranked standings. ShowEntries always replaces
// the previous render wholesale; there is no incremental update.
type LeaderboardRenderer interface {
	ShowEntries(sortKey string, entries []domain.LeaderboardEntry)
	SetActiveTab(sortKey string)
}
