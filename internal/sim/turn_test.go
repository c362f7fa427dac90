package sim

import (
	"errors"
	"math"
	"testing"
)

func noFine() float64 { return 0 }

func calmMarkets() Event {
	return Event{Name: "Calm Markets", Desc: "Nothing notable."}
}

func thermo(t *testing.T) IndustryProfile {
	t.Helper()
	ind, err := IndustryByID("THERMO")
	if err != nil {
		t.Fatalf("industry lookup: %v", err)
	}
	return ind
}

func TestApplyTurnRequiresDilemma(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	_, err := ApplyTurn(s, TurnInput{}, nil, calmMarkets(), ind, noFine)
	if !errors.Is(err, ErrDilemmaRequired) {
		t.Fatalf("expected ErrDilemmaRequired, got %v", err)
	}
}

func TestApplyTurnDividendLockedUnderBailout(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	s.Year = 4
	s.BailoutUsed = true
	_, err := ApplyTurn(s, TurnInput{Dividend: 1}, nil, calmMarkets(), ind, noFine)
	if !errors.Is(err, ErrDividendLocked) {
		t.Fatalf("expected ErrDividendLocked, got %v", err)
	}
}

func TestApplyTurnLiquidityGuard(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	d, ok := DilemmaForYear(0)
	if !ok {
		t.Fatalf("expected a year-one dilemma")
	}
	opt := d.Options[0]
	_, err := ApplyTurn(s, TurnInput{Capex: 100}, &opt, calmMarkets(), ind, noFine)
	if !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestApplyTurnRejectsBadInput(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	s.Year = 4
	if _, err := ApplyTurn(s, TurnInput{Marketing: -1}, nil, calmMarkets(), ind, noFine); err == nil {
		t.Fatalf("expected negative spend to fail")
	}
	if _, err := ApplyTurn(s, TurnInput{Capex: math.NaN()}, nil, calmMarkets(), ind, noFine); err == nil {
		t.Fatalf("expected NaN spend to fail")
	}
}

func TestApplyTurnBounds(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	d, _ := DilemmaForYear(0)
	opt := d.Options[1]
	in := TurnInput{Capex: 10, RnD: 8, Marketing: 10, Training: 5, Maintenance: 5, Logistics: 5, Data: 4}

	res, err := ApplyTurn(s, in, &opt, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := res.State

	if next.Year != 1 {
		t.Fatalf("year got=%d want=1", next.Year)
	}
	for name, v := range map[string]float64{
		"quality": next.Quality, "brand": next.Brand, "morale": next.Morale,
		"machine_health": next.MachineHealth, "esg": next.ESG, "board_trust": next.BoardTrust,
	} {
		if v < 0 || v > 100 {
			t.Fatalf("%s=%f out of [0,100]", name, v)
		}
	}
	if next.Automation > 0.95 {
		t.Fatalf("automation %f exceeds cap", next.Automation)
	}
	if got := next.MarketShare + next.RivalShare; math.Abs(got-100) > 1e-9 {
		t.Fatalf("share complement got=%f want=100", got)
	}
	if len(next.History) != len(s.History)+1 {
		t.Fatalf("history len got=%d want=%d", len(next.History), len(s.History)+1)
	}
	if next.History[0].Valuation != ind.BaseValuation {
		t.Fatalf("year-zero valuation got=%f want=%f", next.History[0].Valuation, ind.BaseValuation)
	}
	if len(next.BoardTrustHistory) != 3 {
		t.Fatalf("trust window len got=%d want=3", len(next.BoardTrustHistory))
	}

	// Input aggregate untouched.
	if s.Year != 0 || len(s.History) != 1 {
		t.Fatalf("prior state mutated: year=%d histlen=%d", s.Year, len(s.History))
	}
}

func TestApplyTurnExpenseIdentity(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	d, _ := DilemmaForYear(0)
	opt := d.Options[1]
	in := TurnInput{Capex: 5, RnD: 5, Marketing: 8, Training: 5, Maintenance: 5, Logistics: 3, Data: 4}

	res, err := ApplyTurn(s, in, &opt, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := res.State
	rec := next.History[len(next.History)-1]

	expenses := rec.Expenses.COGS + rec.Expenses.FixedCost + rec.Expenses.Interest +
		rec.Expenses.Warehousing + rec.Expenses.RegFine
	want := next.Revenue - expenses - opt.Cost
	if math.Abs(rec.NetProfit-want) > 1e-6 {
		t.Fatalf("net profit got=%f want=%f", rec.NetProfit, want)
	}
	if rec.NetProfit != next.NetProfit {
		t.Fatalf("history record disagrees with state: %f vs %f", rec.NetProfit, next.NetProfit)
	}
}

func TestApplyTurnZeroSpendOverheadOnly(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	noop := DilemmaOption{Label: "Hold Course"}

	res, err := ApplyTurn(s, TurnInput{}, &noop, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := res.State.History[len(res.State.History)-1]
	if rec.Expenses.RegFine != 0 {
		t.Fatalf("unexpected fine %f", rec.Expenses.RegFine)
	}
	want := res.State.Revenue - rec.Expenses.COGS - rec.Expenses.FixedCost -
		rec.Expenses.Warehousing - rec.Expenses.Interest
	if math.Abs(rec.NetProfit-want) > 1e-6 {
		t.Fatalf("net profit got=%f want=%f", rec.NetProfit, want)
	}
	if rec.Expenses.FixedCost != 12_000_000 {
		t.Fatalf("fixed overhead got=%f want=12000000", rec.Expenses.FixedCost)
	}
}

func TestApplyTurnLaborRevoltNeedsConsecutiveYears(t *testing.T) {
	ind := thermo(t)

	s := NewGameState(ind)
	s.Year = 4
	s.Morale = 50
	res, err := ApplyTurn(s, TurnInput{Capex: 35}, nil, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State.Morale >= 15 {
		t.Fatalf("setup broken: morale %f should be below threshold", res.State.Morale)
	}
	if res.Failure != "" {
		t.Fatalf("single bad year should not revolt, got %q", res.Failure)
	}

	s.Morale = 10
	res, err = ApplyTurn(s, TurnInput{Capex: 10}, nil, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failure != "Labor Revolt: Extended strikes have shut down the plant." {
		t.Fatalf("expected labor revolt, got %q", res.Failure)
	}
}

func TestApplyTurnInterestTiers(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	s.Year = 4
	s.Debt = 100_000_000

	res, err := ApplyTurn(s, TurnInput{}, nil, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := res.State.History[len(res.State.History)-1]
	if math.Abs(rec.Expenses.Interest-15_000_000) > 1e-6 {
		t.Fatalf("interest got=%f want=15000000", rec.Expenses.Interest)
	}
}

func TestApplyTurnRegulatoryFine(t *testing.T) {
	ind := thermo(t)
	s := NewGameState(ind)
	s.Year = 4
	s.ESG = 20

	res, err := ApplyTurn(s, TurnInput{}, nil, calmMarkets(), ind, func() float64 { return 0.9 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := res.State.History[len(res.State.History)-1]
	if rec.Expenses.RegFine != 5_000_000 {
		t.Fatalf("fine got=%f want=5000000", rec.Expenses.RegFine)
	}
	if res.Warning != "Warning: Fined 5M for poor ESG practices." {
		t.Fatalf("warning got=%q", res.Warning)
	}

	// Same state but a kind draw.
	res, err = ApplyTurn(s, TurnInput{}, nil, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.State.History[len(res.State.History)-1].Expenses.RegFine; got != 0 {
		t.Fatalf("unexpected fine %f", got)
	}
}

func TestApplyTurnConsecutiveDividendBonus(t *testing.T) {
	ind := thermo(t)
	in := TurnInput{Dividend: 2}

	consecutive := NewGameState(ind)
	consecutive.Year = 4
	consecutive.BoardTrust = 50
	consecutive.LastDividendYear = 3

	gap := consecutive
	gap.LastDividendYear = 0

	resA, err := ApplyTurn(consecutive, in, nil, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resB, err := ApplyTurn(gap, in, nil, calmMarkets(), ind, noFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := resA.State.BoardTrust - resB.State.BoardTrust; math.Abs(diff-5) > 1e-9 {
		t.Fatalf("consecutive bonus diff got=%f want=5", diff)
	}
	if resA.State.LastDividendYear != 4 {
		t.Fatalf("dividend year got=%d want=4", resA.State.LastDividendYear)
	}
}
