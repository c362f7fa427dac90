package sim

// DilemmaOption is one side of a forced binary choice. Cost is paid in
// cash during the turn; the modifiers apply to that turn only.
type DilemmaOption struct {
	Label      string  `json:"label"`
	Desc       string  `json:"desc"`
	Cost       float64 `json:"cost"`
	AutoMod    float64 `json:"auto_mod,omitempty"`
	MoraleMod  float64 `json:"morale_mod,omitempty"`
	CostMod    float64 `json:"cost_mod,omitempty"`
	ESGMod     float64 `json:"esg_mod,omitempty"`
	QualMod    float64 `json:"qual_mod,omitempty"`
	RevMod     float64 `json:"rev_mod,omitempty"`
	VolMod     float64 `json:"vol_mod,omitempty"`
}

// Dilemma is the strategic crisis forced on the player once per year
// for years 1 through 4 (simulation years 0..3).
type Dilemma struct {
	Year    int             `json:"year"`
	Title   string          `json:"title"`
	Desc    string          `json:"desc"`
	Options []DilemmaOption `json:"options"`
}

var dilemmas = []Dilemma{
	{
		Year:  1,
		Title: "The Automation Paradox",
		Desc:  "Robots can replace 20% of staff. Efficiency vs. Morale?",
		Options: []DilemmaOption{
			{Label: "Aggressive Auto", Cost: 8_000_000, AutoMod: 0.15, MoraleMod: -15, Desc: "High Efficiency, Strike Risk"},
			{Label: "Human-Centric", Cost: 2_000_000, AutoMod: 0.05, MoraleMod: 10, Desc: "Slower Growth, Happy Staff"},
		},
	},
	{
		Year:  2,
		Title: "Supply Chain Ethics",
		Desc:  "A cheaper supplier uses questionable labor practices.",
		Options: []DilemmaOption{
			{Label: "Cheap Supplier", Cost: 0, CostMod: 0.9, ESGMod: -20, Desc: "Lower Unit Costs, Bad ESG"},
			{Label: "Ethical Supply", Cost: 4_000_000, CostMod: 1.05, ESGMod: 15, Desc: "Higher Costs, Brand Premium"},
		},
	},
	{
		Year:  3,
		Title: "Crisis Management",
		Desc:  "Recession hits. Competitor slashed prices.",
		Options: []DilemmaOption{
			{Label: "Price War", Cost: 0, RevMod: 0.90, VolMod: 1.2, Desc: "Slash Margins to keep Volume"},
			{Label: "Quality Pivot", Cost: 12_000_000, QualMod: 20, Desc: "Invest in R&D to justify price"},
		},
	},
	{
		Year:  4,
		Title: "Sustainability Push",
		Desc:  "New Carbon Tax introduced. Do we go Net Zero?",
		Options: []DilemmaOption{
			{Label: "Pay the Tax", Cost: 1_500_000, ESGMod: -5, Desc: "Eat cost annually"},
			{Label: "Green Retrofit", Cost: 15_000_000, ESGMod: 30, Desc: "Huge CapEx, Passive Income later"},
		},
	},
}

// DilemmaForYear returns the dilemma presented during a 0-based
// simulation year, or false for year 4 (the final year has none).
func DilemmaForYear(year int) (Dilemma, bool) {
	for _, d := range dilemmas {
		if d.Year == year+1 {
			return d, true
		}
	}
	return Dilemma{}, false
}
