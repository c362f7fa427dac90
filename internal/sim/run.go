package sim

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle of a run. Transitions only move forward;
// Terminated is absorbing.
type Phase string

const (
	PhaseActive         Phase = "active"
	PhaseFailurePending Phase = "failure_pending"
	PhaseBailoutActive  Phase = "bailout_active"
	PhaseTerminated     Phase = "terminated"
)

const (
	consultantFee = 2_000_000
	oracleFee     = 15_000_000
	bailoutLoan   = 50_000_000
)

var (
	ErrRunOver           = errors.New("run is over")
	ErrRescuePending     = errors.New("a rescue decision is pending")
	ErrNoRescuePending   = errors.New("no rescue decision is pending")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoInventory       = errors.New("no inventory to liquidate")
	ErrInvalidDilemma    = errors.New("invalid dilemma option")
)

// Run is one team's five-year session: the current state plus the
// failure/bailout machine around it. Not safe for concurrent use; the
// owning service serializes access.
type Run struct {
	Team     string
	Industry IndustryProfile
	Phase    Phase
	State    GameState

	// Outcome is set once Terminated: "Completed" or the failure reason.
	Outcome string

	rng func() float64
}

// NewRun starts a session for a team on an industry. rng feeds the
// regulatory-fine draw and the oracle's error margin; pass a fixed
// source in tests.
func NewRun(team string, ind IndustryProfile, rng func() float64) *Run {
	return &Run{
		Team:     team,
		Industry: ind,
		Phase:    PhaseActive,
		State:    NewGameState(ind),
		rng:      rng,
	}
}

// CurrentDilemma returns the forced choice for the upcoming turn, if
// the year has one.
func (r *Run) CurrentDilemma() (Dilemma, bool) {
	return DilemmaForYear(r.State.Year)
}

// PlayTurn executes one fiscal year. On a first failure the computed
// state is withheld: the pre-turn state stays current (annotated with
// the failure reason) and the run moves to FailurePending, awaiting
// AcceptBailout or Resign. Otherwise the new state is committed and
// the run terminates if the failure was post-bailout or year five was
// reached.
func (r *Run) PlayTurn(in TurnInput, dilemmaOption int) (TurnResult, error) {
	switch r.Phase {
	case PhaseTerminated:
		return TurnResult{}, ErrRunOver
	case PhaseFailurePending:
		return TurnResult{}, ErrRescuePending
	}

	var choice *DilemmaOption
	if d, ok := r.CurrentDilemma(); ok && dilemmaOption >= 0 {
		if dilemmaOption >= len(d.Options) {
			return TurnResult{}, ErrInvalidDilemma
		}
		opt := d.Options[dilemmaOption]
		choice = &opt
	}

	ev := SelectEvent(r.State.Year, r.Team)
	res, err := ApplyTurn(r.State, in, choice, ev, r.Industry, r.rng)
	if err != nil {
		return TurnResult{}, err
	}

	switch {
	case res.Failure != "" && !r.State.BailoutUsed:
		// Withhold the failing year; offer the one rescue.
		r.State.FailureReason = res.Failure
		r.Phase = PhaseFailurePending
	case res.Failure != "":
		r.State = res.State
		r.Phase = PhaseTerminated
		r.Outcome = res.Failure
	case res.State.Year >= FinalYear:
		r.State = res.State
		r.Phase = PhaseTerminated
		r.Outcome = "Completed"
	default:
		r.State = res.State
	}
	return res, nil
}

// AcceptBailout consumes the one rescue: an emergency loan, not a
// gift. Cash and debt both rise by the loan amount, valuation halves,
// board trust resets to 50, and the elevated interest rate plus the
// dividend lock apply for the rest of the run. The failed year is
// discarded; the player replays it with the loan in hand.
func (r *Run) AcceptBailout() error {
	if r.Phase != PhaseFailurePending {
		return ErrNoRescuePending
	}
	s := r.State
	s.Cash += bailoutLoan
	s.Debt += bailoutLoan
	s.Valuation *= 0.5
	s.BoardTrust = 50
	s.BailoutUsed = true
	s.FailureReason = ""
	s.LastWarning = ""
	r.State = s
	r.Phase = PhaseBailoutActive
	return nil
}

// Resign declines the rescue. The pre-failure state, annotated with
// the failure reason, is what gets reported and scored.
func (r *Run) Resign() error {
	if r.Phase != PhaseFailurePending {
		return ErrNoRescuePending
	}
	r.Phase = PhaseTerminated
	r.Outcome = r.State.FailureReason
	return nil
}

// Consult charges the consultant fee and returns one piece of
// state-dependent advice. Each use costs score points at the end.
func (r *Run) Consult() (string, error) {
	if r.Phase == PhaseTerminated || r.Phase == PhaseFailurePending {
		return "", ErrRunOver
	}
	s := r.State
	if s.Cash < consultantFee {
		return "", fmt.Errorf("%w (consultant fee %s)", ErrInsufficientFunds, FormatMoney(consultantFee))
	}
	advice := "Stable. Maximize Auto & Mktg."
	switch {
	case s.Cash < 10_000_000:
		advice = "Liquidity Crisis! Liquidate inventory or borrow."
	case s.BoardTrust < 60:
		advice = "Board angry. Improve margin or pay dividends."
	case s.Inventory > 40_000:
		advice = "Overproduction. Data Analytics needed."
	case s.Morale < 50:
		advice = "Strike imminent. Training needed."
	}
	s.Cash -= consultantFee
	s.ConsultantsUsed++
	r.State = s
	return advice, nil
}

// Oracle charges the oracle fee and returns an auto-filled budget. The
// fill is heuristic with an error margin that shrinks as the data
// level rises; confidence is reported as a percentage. The heavier
// score penalty makes this a crutch, not a strategy.
func (r *Run) Oracle() (TurnInput, float64, error) {
	if r.Phase == PhaseTerminated || r.Phase == PhaseFailurePending {
		return TurnInput{}, 0, ErrRunOver
	}
	s := r.State
	if s.Cash < oracleFee {
		return TurnInput{}, 0, fmt.Errorf("%w (oracle fee %s)", ErrInsufficientFunds, FormatMoney(oracleFee))
	}
	available := s.Cash - oracleFee
	remaining := available - 5_000_000

	errorMargin := 0.3 - s.DataLevel/100*0.25
	sign := 1.0
	if r.rng() <= 0.5 {
		sign = -1
	}
	remaining *= 1 + r.rng()*errorMargin*sign

	var in TurnInput
	if s.BoardTrust < 70 && !s.BailoutUsed {
		in.Dividend = 5
		remaining -= 5_000_000
	}
	if s.MachineHealth < 80 {
		in.Maintenance = 2
		remaining -= 2_000_000
	}
	if remaining > 0 {
		if s.Inventory > 20_000 {
			in.Marketing = remaining * 0.5 / spendUnit
			in.Data = remaining * 0.5 / spendUnit
		} else {
			in.Capex = remaining * 0.4 / spendUnit
			in.Marketing = remaining * 0.4 / spendUnit
			in.RnD = remaining * 0.2 / spendUnit
		}
	}

	s.Cash = available
	s.OracleUsed++
	r.State = s
	return in, (1 - errorMargin) * 100, nil
}

// Liquidate fire-sells all inventory at a fraction of list price. The
// deeper the discount, the bigger the brand hit.
func (r *Run) Liquidate(discount float64) (float64, error) {
	if r.Phase == PhaseTerminated || r.Phase == PhaseFailurePending {
		return 0, ErrRunOver
	}
	if discount <= 0 || discount >= 1 {
		return 0, fmt.Errorf("discount must be between 0 and 1")
	}
	s := r.State
	if s.Inventory <= 0 {
		return 0, ErrNoInventory
	}
	brandHit := 5.0
	if discount == 0.5 {
		brandHit = 10
	}
	proceeds := s.Inventory * r.Industry.UnitPrice * discount
	s.Inventory = 0
	s.Cash += proceeds
	s.Brand = clamp(s.Brand-brandHit, 0, 100)
	s.Revenue += proceeds
	r.State = s
	return proceeds, nil
}

// Score reduces the run's final state to its competition score.
func (r *Run) Score() int {
	return Score(r.State, r.Industry)
}
