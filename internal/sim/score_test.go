package sim

import "testing"

func scoredState(ind IndustryProfile) GameState {
	s := GameState{
		Year:          FinalYear,
		Valuation:     ind.BaseValuation * 2,
		Cash:          10_000_000,
		Morale:        80,
		ESGReputation: 80,
		History:       []YearRecord{{Year: 0, Valuation: ind.BaseValuation}},
	}
	for y := 1; y <= FinalYear; y++ {
		s.History = append(s.History, YearRecord{Year: y, NetProfit: 1_000_000})
	}
	return s
}

func TestScoreCleanFinish(t *testing.T) {
	ind, err := IndustryByID("THERMO")
	if err != nil {
		t.Fatalf("industry lookup: %v", err)
	}
	s := scoredState(ind)

	// Growth capped at 40, five profitable years at 20, social pillar
	// 16, unassisted-finish bonus 10.
	if got := Score(s, ind); got != 86 {
		t.Fatalf("score got=%d want=86", got)
	}
}

func TestScoreBailoutPenalty(t *testing.T) {
	ind, _ := IndustryByID("THERMO")
	s := scoredState(ind)
	s.BailoutUsed = true

	// Loses the 10-point bonus and pays 30 on top.
	if got := Score(s, ind); got != 46 {
		t.Fatalf("score got=%d want=46", got)
	}
}

func TestScoreAdvisorPenalties(t *testing.T) {
	ind, _ := IndustryByID("THERMO")
	s := scoredState(ind)
	s.ConsultantsUsed = 2
	s.OracleUsed = 1

	if got := Score(s, ind); got != 61 {
		t.Fatalf("score got=%d want=61", got)
	}
}

func TestScoreCaps(t *testing.T) {
	ind, _ := IndustryByID("THERMO")

	s := scoredState(ind)
	s.Cash = -1
	if got := Score(s, ind); got != 35 {
		t.Fatalf("negative cash cap got=%d want=35", got)
	}

	s = scoredState(ind)
	s.FailureReason = "Insolvency: The company is bankrupt."
	if got := Score(s, ind); got != 20 {
		t.Fatalf("failure cap got=%d want=20", got)
	}
}

func TestScoreMonotonicInValuation(t *testing.T) {
	ind, _ := IndustryByID("THERMO")
	low := scoredState(ind)
	low.Valuation = ind.BaseValuation * 1.1
	high := scoredState(ind)
	high.Valuation = ind.BaseValuation * 1.3

	if Score(low, ind) > Score(high, ind) {
		t.Fatalf("score decreased with valuation: %d > %d", Score(low, ind), Score(high, ind))
	}
}

func TestScoreFloor(t *testing.T) {
	ind, _ := IndustryByID("THERMO")
	s := GameState{Year: 2, Valuation: 0, OracleUsed: 3, History: []YearRecord{{Year: 0}}}
	if got := Score(s, ind); got != 0 {
		t.Fatalf("score got=%d want=0", got)
	}
}
