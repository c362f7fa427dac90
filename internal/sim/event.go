package sim

import "strconv"

// EffectType discriminates how a single event effect is applied.
// Multiplicative effects scale a modifier that starts at 1; additive
// effects shift a modifier that starts at 0; cash effects are settled
// during the financial step of the turn.
type EffectType string

const (
	EffectCost            EffectType = "COST"
	EffectDemand          EffectType = "DEMAND"
	EffectCapacity        EffectType = "CAPACITY"
	EffectRivalCost       EffectType = "RIVAL_COST"
	EffectMorale          EffectType = "MORALE"
	EffectTrust           EffectType = "TRUST"
	EffectQuality         EffectType = "QUALITY"
	EffectBrand           EffectType = "BRAND"
	EffectCash            EffectType = "CASH"
	EffectConditionalCash EffectType = "CONDITIONAL_CASH"
)

// Effect is one modifier inside an event bundle. Condition is only set
// for CONDITIONAL_CASH effects and is evaluated against the pre-turn
// state.
type Effect struct {
	Type      EffectType
	Val       float64
	Condition func(GameState) bool
}

// Event is a named exogenous effect bundle, either scripted for a year
// or drawn from the pool.
type Event struct {
	Name    string   `json:"name"`
	Desc    string   `json:"desc"`
	Effects []Effect `json:"-"`
}

// Mandatory narrative beats. These fire for every team on the same year
// so the cohort experiences the recession, labor crisis, and tech shock
// together.
var mandatoryEvents = map[int]Event{
	2: {
		Name: "Global Recession",
		Desc: "DOWNTURN: Demand -20%, Board Trust -10%. Cash is King.",
		Effects: []Effect{
			{Type: EffectDemand, Val: 0.80},
			{Type: EffectTrust, Val: -10},
		},
	},
	3: {
		Name: "The Great Resignation",
		Desc: "LABOR CRISIS: Morale -15, Capacity -15%. Retention is vital.",
		Effects: []Effect{
			{Type: EffectMorale, Val: -15},
			{Type: EffectCapacity, Val: 0.85},
		},
	},
	4: {
		Name: "The AI Singularity",
		Desc: "TECH SHOCK: Costs -15%, but Rival Efficiency +15%.",
		Effects: []Effect{
			{Type: EffectCost, Val: 0.85},
			{Type: EffectRivalCost, Val: 0.85},
		},
	},
}

var eventPool = []Event{
	{Name: "Trade War", Desc: "Tariffs hit! Costs +15%, Demand -5%.", Effects: []Effect{
		{Type: EffectCost, Val: 1.15}, {Type: EffectDemand, Val: 0.95},
	}},
	{Name: "Viral Hit", Desc: "Social media craze! Demand +30%, Brand +10.", Effects: []Effect{
		{Type: EffectDemand, Val: 1.3}, {Type: EffectBrand, Val: 10},
	}},
	{Name: "Data Breach", Desc: "Hackers! Brand -10, Trust -5.", Effects: []Effect{
		{Type: EffectBrand, Val: -10}, {Type: EffectTrust, Val: -5},
	}},
	{Name: "Green Subsidy", Desc: "Gov grant! Cash +15M if ESG > 40.", Effects: []Effect{
		{Type: EffectConditionalCash, Val: 15_000_000, Condition: func(s GameState) bool { return s.ESG > 40 }},
	}},
	{Name: "Labor Strike", Desc: "Union walkout! Capacity -30%, Trust -15.", Effects: []Effect{
		{Type: EffectCapacity, Val: 0.7}, {Type: EffectTrust, Val: -15},
	}},
	{Name: "Tech Breakthrough", Desc: "R&D pays off! Quality +10, Cost -5%.", Effects: []Effect{
		{Type: EffectQuality, Val: 10}, {Type: EffectCost, Val: 0.95},
	}},
	{Name: "Supply Chain Knot", Desc: "Port delays. Cost +10%, Capacity -5%.", Effects: []Effect{
		{Type: EffectCost, Val: 1.10}, {Type: EffectCapacity, Val: 0.95},
	}},
	{Name: "Influencer Cancelled", Desc: "Bad PR. Brand -5, Demand -5%.", Effects: []Effect{
		{Type: EffectBrand, Val: -5}, {Type: EffectDemand, Val: 0.95},
	}},
	{Name: "Raw Material Crash", Desc: "Commodity prices drop. Cost -10%.", Effects: []Effect{
		{Type: EffectCost, Val: 0.9},
	}},
	{Name: "Competitor Recall", Desc: "Rival product fails. Demand +15%.", Effects: []Effect{
		{Type: EffectDemand, Val: 1.15},
	}},
	{Name: "Regulatory Fine", Desc: "Compliance issue. Cash -5M, Trust -5.", Effects: []Effect{
		{Type: EffectCash, Val: -5_000_000}, {Type: EffectTrust, Val: -5},
	}},
	{Name: "Angel Investor", Desc: "Seed funding. Cash +15M, Equity Dilution (Trust -5).", Effects: []Effect{
		{Type: EffectCash, Val: 15_000_000}, {Type: EffectTrust, Val: -5},
	}},
}

// SelectEvent picks the event for a year. Mandatory years always return
// their scripted event. Otherwise the pick is a character-code hash of
// the team seed, the year, and a salt (so pool seeding never collides
// with mandatory-year logic) taken modulo the pool size: deterministic
// for a given team and year, varied across teams.
func SelectEvent(year int, teamSeed string) Event {
	if ev, ok := mandatoryEvents[year]; ok {
		return ev
	}
	str := teamSeed + strconv.Itoa(year) + "salt"
	seed := 0
	for _, b := range []byte(str) {
		seed += int(b)
	}
	return eventPool[seed%len(eventPool)]
}
