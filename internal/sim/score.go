package sim

import "math"

// Score reduces a final state to the 0..100 competition score.
//
// Growth is valuation gain over the industry base, capped at 40.
// Resilience pays 4 points per profitable year, capped at 20. The
// social pillar averages morale and ESG reputation into 20 points. A
// clean unassisted finish earns 10 more. Advisors, the oracle, and the
// bailout all charge back against the total, and a negative cash
// position or a recorded failure caps the score outright.
func Score(end GameState, ind IndustryProfile) int {
	initial := ind.BaseValuation
	growth := math.Min(40, math.Max(0, (end.Valuation-initial)/initial*100))

	profitable := 0
	for _, h := range end.History {
		if h.NetProfit > 0 {
			profitable++
		}
	}
	resilience := math.Min(20, float64(profitable*4))

	social := (end.Morale + end.ESGReputation) / 200 * 20

	penalty := float64(end.OracleUsed*15 + end.ConsultantsUsed*5)
	if end.BailoutUsed {
		penalty += 30
	}

	bonus := 0.0
	if !end.BailoutUsed && end.Year >= FinalYear {
		bonus = 10
	}

	total := growth + resilience + social + bonus - penalty
	if end.Cash < 0 {
		total = math.Min(total, 35)
	}
	if end.FailureReason != "" {
		total = math.Min(total, 20)
	}
	return int(clamp(math.Floor(total), 0, 100))
}
