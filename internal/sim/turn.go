package sim

import (
	"errors"
	"fmt"
	"math"
)

// Spend is entered in millions of rupees.
const spendUnit = 1_000_000

// Fixed annual overhead, charged every year regardless of activity.
const fixedCost = 12_000_000

var (
	ErrDilemmaRequired       = errors.New("strategic decision required before this turn")
	ErrDividendLocked        = errors.New("dividends are locked while under bailout oversight")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for requested spend")
)

// TurnInput is the per-year budget allocation. Each field is a
// non-negative spend in millions of rupees.
type TurnInput struct {
	Capex       float64 `json:"capex"`
	RnD         float64 `json:"rnd"`
	Marketing   float64 `json:"marketing"`
	Training    float64 `json:"training"`
	Maintenance float64 `json:"maintenance"`
	Logistics   float64 `json:"logistics"`
	Data        float64 `json:"data"`
	DebtPay     float64 `json:"debt_pay"`
	Dividend    float64 `json:"dividend"`
}

func (in TurnInput) total() float64 {
	return in.Capex + in.RnD + in.Marketing + in.Training + in.Maintenance +
		in.Logistics + in.Data + in.DebtPay + in.Dividend
}

func (in TurnInput) invest() float64 {
	return in.Capex + in.RnD + in.Marketing + in.Training + in.Maintenance +
		in.Logistics + in.Data
}

func (in TurnInput) validate() error {
	for _, v := range []float64{in.Capex, in.RnD, in.Marketing, in.Training,
		in.Maintenance, in.Logistics, in.Data, in.DebtPay, in.Dividend} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("budget values must be non-negative numbers")
		}
	}
	return nil
}

// TurnResult is the proposed outcome of one turn. The caller (the run
// state machine) decides whether the state is committed: a detected
// failure with an unused bailout withholds it.
type TurnResult struct {
	State   GameState
	Warning string
	Failure string
}

// eventModifiers is the accumulated effect record for one event.
// Multiplicative fields start at 1, additive at 0.
type eventModifiers struct {
	cost, demand, capacity, rivalCost float64
	morale, trust, quality, brand     float64
}

func foldEvent(ev Event) eventModifiers {
	m := eventModifiers{cost: 1, demand: 1, capacity: 1, rivalCost: 1}
	for _, eff := range ev.Effects {
		switch eff.Type {
		case EffectCost:
			m.cost *= eff.Val
		case EffectDemand:
			m.demand *= eff.Val
		case EffectCapacity:
			m.capacity *= eff.Val
		case EffectRivalCost:
			m.rivalCost *= eff.Val
		case EffectMorale:
			m.morale += eff.Val
		case EffectTrust:
			m.trust += eff.Val
		case EffectQuality:
			m.quality += eff.Val
		case EffectBrand:
			m.brand += eff.Val
		case EffectCash, EffectConditionalCash:
			// Settled against pre-turn state during the cash step.
		}
	}
	return m
}

// eventCash sums the event's direct grants plus conditional grants
// whose condition holds against the pre-turn state.
func eventCash(ev Event, pre GameState) float64 {
	total := 0.0
	for _, eff := range ev.Effects {
		switch eff.Type {
		case EffectCash:
			total += eff.Val
		case EffectConditionalCash:
			if eff.Condition != nil && eff.Condition(pre) {
				total += eff.Val
			}
		}
	}
	return total
}

// ApplyTurn runs one fiscal year. It is a pure function of its
// arguments except for rng, which supplies the single genuinely random
// draw (the regulatory-fine probability); inject a fixed source in
// tests. Preconditions reject before any computation; the returned
// state is a complete replacement aggregate with the year's record
// appended to history.
func ApplyTurn(s GameState, in TurnInput, choice *DilemmaOption, ev Event, ind IndustryProfile, rng func() float64) (TurnResult, error) {
	if err := in.validate(); err != nil {
		return TurnResult{}, err
	}
	if s.Year < 4 && choice == nil {
		return TurnResult{}, ErrDilemmaRequired
	}
	if s.BailoutUsed && in.Dividend > 0 {
		return TurnResult{}, ErrDividendLocked
	}
	d := DilemmaOption{Label: "N/A"}
	if choice != nil {
		d = *choice
	}
	totalSpend := in.total() * spendUnit
	if totalSpend+d.Cost > s.Cash {
		return TurnResult{}, ErrInsufficientLiquidity
	}

	mod := foldEvent(ev)

	// Rival response reads the player's pre-decay brand.
	rivalBrand := s.RivalBrand
	rivalCost := s.RivalCost * mod.rivalCost
	rivalStrategy := "Balanced"
	if s.Brand > s.RivalBrand*1.1 {
		rivalCost *= 0.95
		rivalStrategy = "Price War"
	} else {
		rivalBrand *= 1.05
		rivalStrategy = "Brand Blitz"
	}

	// Natural decay before this year's investment lands.
	const decayFactor = 0.95
	decayedBrand := s.Brand * decayFactor
	decayedQuality := s.Quality * decayFactor

	dataLevel := math.Min(100, s.DataLevel+in.Data*2.5)

	autoGain := in.Capex / 100
	automation := math.Min(0.95, s.Automation+autoGain+d.AutoMod)
	// Morale pays for the automation gained this year, not the level.
	morale := clamp(s.Morale-autoGain*120+in.Training/5+d.MoraleMod+mod.morale, 0, 100)
	health := clamp(s.MachineHealth-5+in.Maintenance/5, 0, 100)
	supply := math.Min(100, s.SupplyChainScore+in.Logistics/10)

	rndEffect := math.Log1p(in.RnD) * 8
	quality := clamp(decayedQuality+rndEffect+d.QualMod+mod.quality, 0, 100)
	esgDrag := 1.0
	if s.ESGReputation < 40 {
		esgDrag = 0.95
	}
	mktEffect := math.Sqrt(in.Marketing) * 5 * esgDrag
	brand := clamp(decayedBrand+mktEffect+mod.brand, 0, 100)
	esg := clamp(s.ESG+d.ESGMod, 0, 100)
	esgReputation := (s.ESGReputation + esg) / 2

	strikePenalty := 1.0
	if morale < 30 {
		strikePenalty = 0.6
	}
	machineFactor := 1.0
	if health < 40 {
		machineFactor = 0.8
	}
	theoreticalCapacity := 110_000 * (1 + automation) * strikePenalty * machineFactor * mod.capacity
	// Material purchasing ceiling: production cannot exceed what cash
	// on hand can pay input costs for.
	maxAffordableUnits := s.Cash / (ind.BaseCost * 0.4)
	capacity := math.Min(theoreticalCapacity, maxAffordableUnits)

	brandDiff := brand - rivalBrand
	const baseDemand = 110_000
	rivalPriceEstimate := rivalCost * 1.2
	pricePenalty := 1.0
	if ind.UnitPrice/rivalPriceEstimate > 1.2 {
		pricePenalty = 0.9
	}
	dataBonus := 1 + dataLevel/500
	volMod := d.VolMod
	if volMod == 0 {
		volMod = 1
	}
	demand := baseDemand * (1 + brandDiff/100) * (quality / 50) * mod.demand * volMod * dataBonus * pricePenalty

	// Forecast error deliberately overproduces; data spend shrinks it.
	forecastError := 0.25 * (1 - dataLevel/100)
	production := math.Min(capacity, demand*(1+forecastError))

	available := production + s.Inventory
	sales := math.Min(available, demand)
	inventory := math.Max(0, available-demand)
	warehouseRate := 30.0
	if s.Year >= 2 {
		warehouseRate = 50
	}
	warehousing := inventory * warehouseRate

	shareChange := brandDiff/2 + (quality*machineFactor-50)/4
	if brandDiff < -20 {
		shareChange -= 3
	}
	marketShare := clamp(s.MarketShare+shareChange, 1, 99)

	revMod := d.RevMod
	if revMod == 0 {
		revMod = 1
	}
	revenue := sales * ind.UnitPrice * revMod
	unitCost := ind.BaseCost * (1 - automation*0.3) * (1 - supply/200) * mod.cost
	if d.CostMod != 0 {
		unitCost *= d.CostMod
	}
	cogs := sales * unitCost

	debt := math.Max(0, s.Debt-in.DebtPay*spendUnit)
	baseInterest := 0.08
	switch {
	case debt > 90_000_000:
		baseInterest = 0.15
	case debt > 60_000_000:
		baseInterest = 0.12
	}
	esgDiscount := 0.0
	if esgReputation > 80 {
		esgDiscount = 0.02
	}
	interestRate := math.Max(0.04, baseInterest-esgDiscount)
	if s.BailoutUsed {
		// Bailout terms override the tiered rate for the rest of the run.
		interestRate = 0.15
	}
	interest := debt * interestRate

	dividendPaid := in.Dividend * spendUnit
	if s.BailoutUsed {
		dividendPaid = 0
	}
	regFine := 0.0
	if esg < 30 && rng() > 0.8 {
		regFine = 5_000_000
	}
	grant := eventCash(ev, s)

	totalExpenses := cogs + fixedCost + warehousing + interest + regFine + d.Cost
	netProfit := revenue - totalExpenses + grant
	cash := s.Cash + netProfit - in.invest()*spendUnit - dividendPaid - in.DebtPay*spendUnit

	margin := 0.0
	if revenue > 0 {
		margin = netProfit / revenue * 100
	}
	peRatio := 6.0
	switch {
	case margin < 5:
		peRatio = 4
	case margin > 15:
		peRatio = 8
	}
	yearValuation := ind.BaseValuation + netProfit*peRatio
	// Majority weight on the prior value keeps valuation sticky: one
	// good year cannot fake a track record.
	valuation := s.Valuation*0.6 + yearValuation*0.4

	trustChange := 5.0
	if netProfit < 0 {
		trustChange = -5
	}
	if dividendPaid > 0 {
		if s.Year-s.LastDividendYear == 1 {
			trustChange += 10
		} else {
			trustChange += 5
		}
	}
	if debt > 80_000_000 {
		trustChange -= 5
	}
	boardTrust := clamp(s.BoardTrust+trustChange+mod.trust, 0, 100)
	trustHistory := append(append([]float64{}, s.BoardTrustHistory...), boardTrust)
	if len(trustHistory) > 3 {
		trustHistory = trustHistory[len(trustHistory)-3:]
	}
	avgTrust := 0.0
	for _, v := range trustHistory {
		avgTrust += v
	}
	avgTrust /= float64(len(trustHistory))

	warning := ""
	switch {
	case capacity < theoreticalCapacity:
		warning = "Warning: Production capped by low cash!"
	case inventory > 40_000:
		warning = "Warning: Inventory piling up."
	case regFine > 0:
		warning = "Warning: Fined 5M for poor ESG practices."
	}

	// Precedence is deliberate: governance outranks insolvency, which
	// outranks labor and asset failures.
	failure := ""
	switch {
	case avgTrust < 20:
		failure = "Governance Failure: The Board has fired you."
	case cash < -15_000_000 && !s.BailoutUsed:
		failure = "Insolvency: The company is bankrupt."
	case cash < 0 && s.BailoutUsed:
		failure = "Liquidity Crisis: Bailout funds exhausted. Operations ceased."
	case morale < 15 && s.Morale < 15:
		failure = "Labor Revolt: Extended strikes have shut down the plant."
	case health < 15:
		failure = "Catastrophic Failure: Factory assets condemned."
	}

	lastDividendYear := s.LastDividendYear
	if dividendPaid > 0 {
		lastDividendYear = s.Year
	}

	next := s
	next.Year = s.Year + 1
	next.Cash = cash
	next.Debt = debt
	next.Revenue = revenue
	next.NetProfit = netProfit
	next.Valuation = valuation
	next.Automation = automation
	next.Quality = quality
	next.Brand = brand
	next.ESG = esg
	next.ESGReputation = esgReputation
	next.Morale = morale
	next.MachineHealth = health
	next.SupplyChainScore = supply
	next.DataLevel = dataLevel
	next.Inventory = inventory
	next.MarketShare = marketShare
	next.RivalShare = 100 - marketShare
	next.BoardTrust = boardTrust
	next.BoardTrustHistory = trustHistory
	next.RivalBrand = rivalBrand
	next.RivalCost = rivalCost
	next.RivalStrategy = rivalStrategy
	next.LastDividendYear = lastDividendYear
	next.LastEvent = ev
	next.LastWarning = warning
	next.FailureReason = failure
	next.Audit = &TurnAudit{Dilemma: d.Label, Inputs: in, Event: ev.Name, Profit: netProfit}
	next.History = append(append([]YearRecord{}, s.History...), YearRecord{
		Year:      next.Year,
		Revenue:   revenue,
		NetProfit: netProfit,
		Valuation: valuation,
		Expenses: ExpenseBreakdown{
			COGS:        cogs,
			FixedCost:   fixedCost,
			Interest:    interest,
			Warehousing: warehousing,
			RegFine:     regFine,
		},
	})

	return TurnResult{State: next, Warning: warning, Failure: failure}, nil
}
