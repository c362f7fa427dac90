package sim

import "fmt"

// FinalYear is the number of fiscal years in a full run.
const FinalYear = 5

// ExpenseBreakdown itemizes one year's costs for the audit trail.
type ExpenseBreakdown struct {
	COGS        float64 `json:"cogs"`
	FixedCost   float64 `json:"fixed_cost"`
	Interest    float64 `json:"interest"`
	Warehousing float64 `json:"warehousing"`
	RegFine     float64 `json:"reg_fine"`
}

// YearRecord is one entry of the append-only history; history is the
// sole input to scoring and the authoritative audit trail.
type YearRecord struct {
	Year      int              `json:"year"`
	Revenue   float64          `json:"revenue"`
	NetProfit float64          `json:"net_profit"`
	Valuation float64          `json:"valuation"`
	Expenses  ExpenseBreakdown `json:"expenses"`
}

// TurnAudit records what the player actually did on the turn that
// produced a state. Display only; never read by the engine.
type TurnAudit struct {
	Dilemma string    `json:"dilemma"`
	Inputs  TurnInput `json:"inputs"`
	Event   string    `json:"event"`
	Profit  float64   `json:"profit"`
}

// GameState is the whole simulation aggregate. A turn replaces it
// wholesale; nothing ever mutates an existing value in place.
type GameState struct {
	Year int `json:"year"`

	// Financial.
	Cash      float64 `json:"cash"`
	Debt      float64 `json:"debt"`
	Revenue   float64 `json:"revenue"`
	NetProfit float64 `json:"net_profit"`
	Valuation float64 `json:"valuation"`

	// Operational.
	Automation    float64 `json:"automation"`
	Quality       float64 `json:"quality"`
	Brand         float64 `json:"brand"`
	ESG           float64 `json:"esg"`
	ESGReputation float64 `json:"esg_reputation"`
	Morale        float64 `json:"morale"`
	MachineHealth float64 `json:"machine_health"`

	// Governance. BoardTrustHistory holds the last three readings; its
	// average is the firing trigger, which smooths one-year shocks.
	BoardTrust        float64   `json:"board_trust"`
	BoardTrustHistory []float64 `json:"board_trust_history"`

	// Competitive.
	RivalBrand    float64 `json:"rival_brand"`
	RivalCost     float64 `json:"rival_cost"`
	RivalStrategy string  `json:"rival_strategy"`
	MarketShare   float64 `json:"market_share"`
	RivalShare    float64 `json:"rival_share"`

	// Capability accumulators.
	SupplyChainScore float64 `json:"supply_chain_score"`
	DataLevel        float64 `json:"data_level"`
	Inventory        float64 `json:"inventory"`

	// Session meta.
	ConsultantsUsed  int     `json:"consultants_used"`
	OracleUsed       int     `json:"oracle_used"`
	BailoutUsed      bool    `json:"bailout_used"`
	LastDividendYear int     `json:"last_dividend_year"`

	History []YearRecord `json:"history"`

	// Most-recent-turn annotations, for display only.
	LastEvent     Event      `json:"last_event"`
	LastWarning   string     `json:"last_warning,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	Audit         *TurnAudit `json:"audit,omitempty"`
}

// NewGameState builds the year-zero state for an industry.
func NewGameState(ind IndustryProfile) GameState {
	return GameState{
		Year:      0,
		Cash:      ind.StartingCash,
		Debt:      15_000_000,
		Valuation: ind.BaseValuation,

		Automation:    0.1,
		Quality:       50,
		Brand:         50,
		ESG:           50,
		ESGReputation: 50,
		Morale:        85,
		MachineHealth: 100,

		BoardTrust:        100,
		BoardTrustHistory: []float64{100, 100, 100},

		RivalBrand:    50,
		RivalCost:     100,
		RivalStrategy: "Balanced",
		MarketShare:   12,
		RivalShare:    88,

		SupplyChainScore: 50,
		DataLevel:        0,

		LastDividendYear: -5,

		History: []YearRecord{{
			Year:      0,
			Valuation: ind.BaseValuation,
		}},
		LastEvent: Event{Name: "Market Open", Desc: "Operations begin."},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatMoney renders a currency amount the way every surface of the
// game displays it: millions of rupees with one decimal.
func FormatMoney(v float64) string {
	return fmt.Sprintf("₹%.1fM", v/1_000_000)
}
