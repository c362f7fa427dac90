package game

import (
	"time"

	"evolve/internal/sim"
)

// SessionView is the full player-facing snapshot: everything a client
// needs to render a turn screen.
type SessionView struct {
	Team     string              `json:"team"`
	Industry sim.IndustryProfile `json:"industry"`
	Phase    sim.Phase           `json:"phase"`
	Outcome  string              `json:"outcome,omitempty"`
	Theme    sim.YearTheme       `json:"theme"`
	Dilemma  *sim.Dilemma        `json:"dilemma,omitempty"`
	State    sim.GameState       `json:"state"`
}

// TurnOutcome is what a committed (or withheld) turn reports back.
type TurnOutcome struct {
	Session SessionView `json:"session"`
	Warning string      `json:"warning,omitempty"`
	Failure string      `json:"failure,omitempty"`
}

// FinalReport summarizes a terminated run for the awards screen.
type FinalReport struct {
	Team      string           `json:"team"`
	Industry  string           `json:"industry"`
	Outcome   string           `json:"outcome"`
	Score     int              `json:"score"`
	Valuation float64          `json:"valuation"`
	Cash      float64          `json:"cash"`
	Years     int              `json:"years"`
	History   []sim.YearRecord `json:"history"`
}

type AdvisorReport struct {
	Advice string  `json:"advice"`
	Cash   float64 `json:"cash"`
}

type OracleReport struct {
	Inputs     sim.TurnInput `json:"inputs"`
	Confidence float64       `json:"confidence"`
	Cash       float64       `json:"cash"`
}

type LiquidationReport struct {
	Proceeds float64 `json:"proceeds"`
	Cash     float64 `json:"cash"`
	Brand    float64 `json:"brand"`
}

type TeamCredential struct {
	Team string `json:"team"`
	Code string `json:"code"`
}

type LeaderboardRow struct {
	Rank      int     `json:"rank"`
	Team      string  `json:"team"`
	Industry  string  `json:"industry"`
	Score     int     `json:"score"`
	Valuation float64 `json:"valuation"`
	Outcome   string  `json:"outcome"`
}

// ResultRecord is one persisted run outcome, as stored.
type ResultRecord struct {
	Team        string    `json:"team"`
	Industry    string    `json:"industry"`
	Score       int       `json:"score"`
	Outcome     string    `json:"outcome"`
	Valuation   float64   `json:"valuation"`
	Cash        float64   `json:"cash"`
	Years       int       `json:"years"`
	CompletedAt time.Time `json:"completed_at"`
}
