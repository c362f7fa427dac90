package game

import (
	"testing"

	"evolve/internal/sim"
)

func TestValidateTeamName(t *testing.T) {
	valid := []string{"team01", "acme_corp", "Zenith22"}
	for _, name := range valid {
		if err := ValidateTeamName(name); err != nil {
			t.Fatalf("expected team %q to be valid: %v", name, err)
		}
	}

	invalid := []string{"", "ab", "has space", "way_too_long_for_a_team_name", "bad-dash"}
	for _, name := range invalid {
		if err := ValidateTeamName(name); err == nil {
			t.Fatalf("expected team %q to fail", name)
		}
	}
}

func TestSessionViewCarriesDilemmaAndTheme(t *testing.T) {
	ind, err := sim.IndustryByID("SHOE")
	if err != nil {
		t.Fatalf("industry lookup: %v", err)
	}
	run := sim.NewRun("team01", ind, func() float64 { return 0 })

	v := viewOf(run)
	if v.Team != "team01" || v.Industry.ID != "SHOE" {
		t.Fatalf("identity wrong: %+v", v)
	}
	if v.Phase != sim.PhaseActive {
		t.Fatalf("phase got=%s want=%s", v.Phase, sim.PhaseActive)
	}
	if v.Theme.Title != "Foundation" {
		t.Fatalf("theme got=%q want=Foundation", v.Theme.Title)
	}
	if v.Dilemma == nil || v.Dilemma.Title != "The Automation Paradox" {
		t.Fatalf("expected the year-one dilemma, got %+v", v.Dilemma)
	}
}

func TestFinalReportMatchesRun(t *testing.T) {
	ind, err := sim.IndustryByID("COFFEE")
	if err != nil {
		t.Fatalf("industry lookup: %v", err)
	}
	run := sim.NewRun("team02", ind, func() float64 { return 0 })
	run.Phase = sim.PhaseTerminated
	run.Outcome = "Completed"

	r := reportOf(run)
	if r.Team != "team02" || r.Industry != ind.Name {
		t.Fatalf("identity wrong: %+v", r)
	}
	if r.Outcome != "Completed" {
		t.Fatalf("outcome got=%q", r.Outcome)
	}
	if r.Score != run.Score() {
		t.Fatalf("score got=%d want=%d", r.Score, run.Score())
	}
	if len(r.History) != len(run.State.History) {
		t.Fatalf("history len got=%d want=%d", len(r.History), len(run.State.History))
	}
}
