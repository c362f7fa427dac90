package sim

import "fmt"

// IndustryProfile fixes the economics of a run. It is chosen once at
// session start and never changes afterwards.
type IndustryProfile struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	StartingCash  float64 `json:"starting_cash"`
	BaseValuation float64 `json:"base_valuation"`
	UnitPrice     float64 `json:"unit_price"`
	BaseCost      float64 `json:"base_cost"`
}

var industries = []IndustryProfile{
	{
		ID:            "THERMO",
		Name:          "Neuro Thermostats",
		Category:      "High Tech",
		Description:   "High Margin, High R&D. Competes on Innovation.",
		StartingCash:  75_000_000,
		BaseValuation: 120_000_000,
		UnitPrice:     2000,
		BaseCost:      1100,
	},
	{
		ID:            "SHOE",
		Name:          "Ocean Stride",
		Category:      "Manufacturing",
		Description:   "Volume play. Competes on Price & Efficiency.",
		StartingCash:  55_000_000,
		BaseValuation: 90_000_000,
		UnitPrice:     1000,
		BaseCost:      750,
	},
	{
		ID:            "COFFEE",
		Name:          "Zenith Brew",
		Category:      "FMCG",
		Description:   "Brand sensitive. Competes on Marketing.",
		StartingCash:  65_000_000,
		BaseValuation: 100_000_000,
		UnitPrice:     150,
		BaseCost:      80,
	},
}

// Industries returns the selectable presets in display order.
func Industries() []IndustryProfile {
	out := make([]IndustryProfile, len(industries))
	copy(out, industries)
	return out
}

func IndustryByID(id string) (IndustryProfile, error) {
	for _, ind := range industries {
		if ind.ID == id {
			return ind, nil
		}
	}
	return IndustryProfile{}, fmt.Errorf("unknown industry: %s", id)
}

// YearTheme is the narrative framing for one simulated fiscal year.
type YearTheme struct {
	Title string `json:"title"`
	Focus string `json:"focus"`
}

var yearThemes = []YearTheme{
	{Title: "Foundation", Focus: "Establish operational stability."},
	{Title: "Expansion", Focus: "Capture market share."},
	{Title: "Resilience", Focus: "Survive the Global Recession."},
	{Title: "Culture", Focus: "Navigate the Workforce Crisis."},
	{Title: "Transformation", Focus: "Adapt to the AI Singularity."},
}

// ThemeForYear returns the theme for a 0-based simulation year.
func ThemeForYear(year int) YearTheme {
	if year < 0 || year >= len(yearThemes) {
		return YearTheme{}
	}
	return yearThemes[year]
}

// KPIDefinition is display metadata for a dashboard metric. The engine
// never reads these; they exist for rendering surfaces.
type KPIDefinition struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Def   string `json:"def"`
	Calc  string `json:"calc"`
	Tip   string `json:"tip"`
}

var kpiDefinitions = []KPIDefinition{
	{Key: "cash", Title: "Liquid Cash", Def: "Funds available.", Calc: "Cash - Spend + Net Profit", Tip: "Keep > ₹5M."},
	{Key: "valuation", Title: "Valuation", Def: "Market Cap.", Calc: "Weighted Avg (Past + Current)", Tip: "Momentum matters."},
	{Key: "margin", Title: "Net Margin", Def: "Profit %.", Calc: "Net Profit / Revenue", Tip: "Target > 10%."},
	{Key: "inventory", Title: "Inventory", Def: "Unsold Goods.", Calc: "Prod - Sales", Tip: "Costs storage fees."},
	{Key: "morale", Title: "Morale", Def: "Worker Happiness.", Calc: "Base - Auto + Training", Tip: "<40% risks Strikes."},
	{Key: "machineHealth", Title: "Asset Health", Def: "Factory Status.", Calc: "Decays 5%/yr", Tip: "<40% risks Breakdown."},
	{Key: "quality", Title: "Quality", Def: "Product Standard.", Calc: "R&D Spend", Tip: "Allows higher prices."},
	{Key: "esg", Title: "ESG", Def: "Sustainability.", Calc: "Eco Spend", Tip: "Generates Carbon Credits."},
	{Key: "board", Title: "Board Trust", Def: "Job Security.", Calc: "Strategic + Financial Score", Tip: "0% = Fired."},
}

func KPIDefinitions() []KPIDefinition {
	out := make([]KPIDefinition, len(kpiDefinitions))
	copy(out, kpiDefinitions)
	return out
}
