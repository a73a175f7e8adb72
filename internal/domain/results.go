package domain

import "time"

// Match is one game record as the ingestion collaborators write it.
// Only the fields the monitoring queries read are modeled here.
type Match struct {
	GameID       string    `json:"game_id"`
	Season       string    `json:"season"`
	GameDate     time.Time `json:"game_date"`
	HomeTeamID   int       `json:"home_team_id"`
	WinnerTeamID int       `json:"winner_team_id"`
	IsCompleted  bool      `json:"is_completed"`
}

// Prediction is one scored model prediction for a game. WasCorrect is
// nil until the game outcome has been evaluated against it.
type Prediction struct {
	GameID      string  `json:"game_id"`
	HomeWinProb float64 `json:"home_win_prob"`
	WasCorrect  *bool   `json:"was_correct"`
}
