package sim

import (
	"errors"
	"math"
	"testing"
)

func newTestRun(t *testing.T) *Run {
	t.Helper()
	ind, err := IndustryByID("THERMO")
	if err != nil {
		t.Fatalf("industry lookup: %v", err)
	}
	return NewRun("acme", ind, func() float64 { return 0 })
}

// Pushes an active run into its first failure: a workforce already on
// the brink plus an automation shove that guarantees a labor revolt.
func forceFailure(t *testing.T, r *Run) TurnResult {
	t.Helper()
	r.State.Year = 4
	r.State.Morale = 10
	res, err := r.PlayTurn(TurnInput{Capex: 10}, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failure == "" {
		t.Fatalf("setup broken: expected a failure")
	}
	return res
}

func TestRunFirstFailureWithheld(t *testing.T) {
	r := newTestRun(t)
	res := forceFailure(t, r)

	if r.Phase != PhaseFailurePending {
		t.Fatalf("phase got=%s want=%s", r.Phase, PhaseFailurePending)
	}
	if r.State.Year != 4 {
		t.Fatalf("failed year leaked into state: year=%d", r.State.Year)
	}
	if len(r.State.History) != 1 {
		t.Fatalf("failed year appended to history: len=%d", len(r.State.History))
	}
	if r.State.FailureReason != res.Failure {
		t.Fatalf("failure reason got=%q want=%q", r.State.FailureReason, res.Failure)
	}

	if _, err := r.PlayTurn(TurnInput{}, -1); !errors.Is(err, ErrRescuePending) {
		t.Fatalf("expected ErrRescuePending, got %v", err)
	}
}

func TestRunAcceptBailout(t *testing.T) {
	r := newTestRun(t)
	forceFailure(t, r)
	cashBefore := r.State.Cash
	debtBefore := r.State.Debt
	valBefore := r.State.Valuation

	if err := r.AcceptBailout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Phase != PhaseBailoutActive {
		t.Fatalf("phase got=%s want=%s", r.Phase, PhaseBailoutActive)
	}
	s := r.State
	if s.Cash != cashBefore+bailoutLoan || s.Debt != debtBefore+bailoutLoan {
		t.Fatalf("loan not booked on both sides: cash=%f debt=%f", s.Cash, s.Debt)
	}
	if math.Abs(s.Valuation-valBefore*0.5) > 1e-6 {
		t.Fatalf("valuation got=%f want=%f", s.Valuation, valBefore*0.5)
	}
	if s.BoardTrust != 50 || !s.BailoutUsed || s.FailureReason != "" {
		t.Fatalf("bailout state not applied: trust=%f used=%v reason=%q", s.BoardTrust, s.BailoutUsed, s.FailureReason)
	}

	if err := r.AcceptBailout(); !errors.Is(err, ErrNoRescuePending) {
		t.Fatalf("second bailout: expected ErrNoRescuePending, got %v", err)
	}
}

func TestRunResign(t *testing.T) {
	r := newTestRun(t)
	res := forceFailure(t, r)

	if err := r.Resign(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Phase != PhaseTerminated {
		t.Fatalf("phase got=%s want=%s", r.Phase, PhaseTerminated)
	}
	if r.Outcome != res.Failure {
		t.Fatalf("outcome got=%q want=%q", r.Outcome, res.Failure)
	}
	if got := r.Score(); got > 20 {
		t.Fatalf("failed run scored %d, cap is 20", got)
	}
}

func TestRunSecondFailureIsTerminal(t *testing.T) {
	r := newTestRun(t)
	forceFailure(t, r)
	if err := r.AcceptBailout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Morale never recovered; the replayed year fails again.
	res, err := r.PlayTurn(TurnInput{}, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failure == "" {
		t.Fatalf("expected a post-bailout failure")
	}
	if r.Phase != PhaseTerminated {
		t.Fatalf("phase got=%s want=%s", r.Phase, PhaseTerminated)
	}
	if r.Outcome != res.Failure {
		t.Fatalf("outcome got=%q want=%q", r.Outcome, res.Failure)
	}
	// Terminal failures commit: the year lands in history.
	if len(r.State.History) != 2 {
		t.Fatalf("history len got=%d want=2", len(r.State.History))
	}
	if got := r.Score(); got > 20 {
		t.Fatalf("failed run scored %d, cap is 20", got)
	}
}

func TestRunFullCompletion(t *testing.T) {
	r := newTestRun(t)
	in := TurnInput{Capex: 5, RnD: 5, Marketing: 8, Training: 10, Maintenance: 5, Logistics: 3, Data: 4}
	options := []int{1, 1, 0, 0, -1}

	for year := 0; year < FinalYear; year++ {
		res, err := r.PlayTurn(in, options[year])
		if err != nil {
			t.Fatalf("year %d: unexpected error: %v", year, err)
		}
		if res.Failure != "" {
			t.Fatalf("year %d: unexpected failure %q", year, res.Failure)
		}
	}

	if r.Phase != PhaseTerminated {
		t.Fatalf("phase got=%s want=%s", r.Phase, PhaseTerminated)
	}
	if r.Outcome != "Completed" {
		t.Fatalf("outcome got=%q want=Completed", r.Outcome)
	}
	if r.State.Year != FinalYear {
		t.Fatalf("year got=%d want=%d", r.State.Year, FinalYear)
	}
	if len(r.State.History) != FinalYear+1 {
		t.Fatalf("history len got=%d want=%d", len(r.State.History), FinalYear+1)
	}
	if got := r.Score(); got <= 0 || got > 100 {
		t.Fatalf("score %d out of range", got)
	}

	if _, err := r.PlayTurn(in, -1); !errors.Is(err, ErrRunOver) {
		t.Fatalf("expected ErrRunOver, got %v", err)
	}
}

func TestRunConsult(t *testing.T) {
	r := newTestRun(t)
	cashBefore := r.State.Cash

	advice, err := r.Consult()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice != "Stable. Maximize Auto & Mktg." {
		t.Fatalf("advice got=%q", advice)
	}
	if r.State.Cash != cashBefore-consultantFee {
		t.Fatalf("fee not charged: cash=%f", r.State.Cash)
	}
	if r.State.ConsultantsUsed != 1 {
		t.Fatalf("consultants used got=%d want=1", r.State.ConsultantsUsed)
	}

	r.State.Cash = 1_000_000
	if _, err := r.Consult(); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestRunOracle(t *testing.T) {
	ind, err := IndustryByID("THERMO")
	if err != nil {
		t.Fatalf("industry lookup: %v", err)
	}
	r := NewRun("acme", ind, func() float64 { return 0.5 })
	cashBefore := r.State.Cash

	in, confidence, err := r.Oracle()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(confidence-70) > 0.01 {
		t.Fatalf("confidence got=%f want=70", confidence)
	}
	if r.State.Cash != cashBefore-oracleFee {
		t.Fatalf("fee not charged: cash=%f", r.State.Cash)
	}
	if r.State.OracleUsed != 1 {
		t.Fatalf("oracle used got=%d want=1", r.State.OracleUsed)
	}
	// Healthy defaults steer the fill toward growth spending.
	if in.Capex <= 0 || in.Marketing <= 0 || in.RnD <= 0 {
		t.Fatalf("expected a growth allocation, got %+v", in)
	}
	if in.Dividend != 0 || in.Maintenance != 0 {
		t.Fatalf("unexpected defensive allocation: %+v", in)
	}
}

func TestRunLiquidate(t *testing.T) {
	r := newTestRun(t)

	if _, err := r.Liquidate(0.5); !errors.Is(err, ErrNoInventory) {
		t.Fatalf("expected ErrNoInventory, got %v", err)
	}

	r.State.Inventory = 10_000
	cashBefore := r.State.Cash
	brandBefore := r.State.Brand

	proceeds, err := r.Liquidate(0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 10_000 * r.Industry.UnitPrice * 0.5
	if proceeds != want {
		t.Fatalf("proceeds got=%f want=%f", proceeds, want)
	}
	if r.State.Cash != cashBefore+want {
		t.Fatalf("cash got=%f want=%f", r.State.Cash, cashBefore+want)
	}
	if r.State.Brand != brandBefore-10 {
		t.Fatalf("brand got=%f want=%f", r.State.Brand, brandBefore-10)
	}
	if r.State.Inventory != 0 {
		t.Fatalf("inventory not cleared: %f", r.State.Inventory)
	}
}
