package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"evolve/internal/game"
	"evolve/internal/sim"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func printAccent(msg string) {
	accent.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

// promptSpend reads a budget line in millions; empty input means zero.
func promptSpend(label string) (float64, error) {
	for {
		fmt.Printf("%s (₹M) [0]: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v < 0 {
			printWarn("Enter a non-negative number.")
			continue
		}
		return v, nil
	}
}

func promptBudget(cash float64) (sim.TurnInput, error) {
	accent.Println("\n== BUDGET ALLOCATION ==")
	printInfo("Available cash: " + sim.FormatMoney(cash))

	var in sim.TurnInput
	fields := []struct {
		label string
		dst   *float64
	}{
		{"CapEx / Automation", &in.Capex},
		{"R&D", &in.RnD},
		{"Marketing", &in.Marketing},
		{"Training", &in.Training},
		{"Maintenance", &in.Maintenance},
		{"Logistics", &in.Logistics},
		{"Data Analytics", &in.Data},
		{"Debt Repayment", &in.DebtPay},
		{"Dividend", &in.Dividend},
	}
	for _, f := range fields {
		v, err := promptSpend(f.label)
		if err != nil {
			return sim.TurnInput{}, err
		}
		*f.dst = v
	}
	return in, nil
}

func promptDilemma(d sim.Dilemma) (int, error) {
	accent.Printf("\n== BOARDROOM DILEMMA: %s ==\n", d.Title)
	printInfo(d.Desc)
	for i, opt := range d.Options {
		fmt.Printf("  [%d] %s | cost %s (%s)\n", i, opt.Label, sim.FormatMoney(opt.Cost), opt.Desc)
	}
	for {
		text, err := promptRequired("Option")
		if err != nil {
			return 0, err
		}
		idx, err := strconv.Atoi(text)
		if err != nil || idx < 0 || idx >= len(d.Options) {
			printWarn("Pick one of the listed option numbers.")
			continue
		}
		return idx, nil
	}
}

func renderIndustries(industries []sim.IndustryProfile) {
	accent.Println("\n== INDUSTRIES ==")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Name", "Category", "Cash", "Valuation", "Unit Price", "Unit Cost"})
	for _, ind := range industries {
		tw.AppendRow(table.Row{
			ind.ID, ind.Name, ind.Category,
			sim.FormatMoney(ind.StartingCash), sim.FormatMoney(ind.BaseValuation),
			fmt.Sprintf("₹%.0f", ind.UnitPrice), fmt.Sprintf("₹%.0f", ind.BaseCost),
		})
	}
	tw.Render()
}

func renderSession(v game.SessionView) {
	s := v.State
	accent.Printf("\n== %s | YEAR %d: %s ==\n", v.Industry.Name, s.Year+1, v.Theme.Title)
	printInfo(v.Theme.Focus)

	if v.Phase == sim.PhaseFailurePending {
		danger.Println("\n" + s.FailureReason)
		printWarn("A one-time bailout is on the table. Run `evolve bailout` or `evolve resign`.")
	}
	if v.Phase == sim.PhaseTerminated {
		printAccent("Run over: " + v.Outcome + ". Run `evolve report`.")
	}
	if v.Phase == sim.PhaseBailoutActive {
		printWarn("Under bailout oversight: 15% interest, dividends locked.")
	}

	fmt.Printf("Cash:          %s\n", sim.FormatMoney(s.Cash))
	fmt.Printf("Debt:          %s\n", sim.FormatMoney(s.Debt))
	fmt.Printf("Valuation:     %s\n", sim.FormatMoney(s.Valuation))
	fmt.Printf("Revenue:       %s\n", sim.FormatMoney(s.Revenue))
	fmt.Printf("Net Profit:    %s\n", sim.FormatMoney(s.NetProfit))
	fmt.Printf("Market Share:  %.1f%% (rival %.1f%%)\n", s.MarketShare, s.RivalShare)
	fmt.Printf("Automation:    %.0f%%    Quality: %.1f    Brand: %.1f\n", s.Automation*100, s.Quality, s.Brand)
	fmt.Printf("Morale:        %.1f    Health:  %.1f    ESG:   %.1f\n", s.Morale, s.MachineHealth, s.ESG)
	fmt.Printf("Board Trust:   %.1f    Data:    %.1f    Inventory: %.0f units\n", s.BoardTrust, s.DataLevel, s.Inventory)
	fmt.Printf("Rival:         %s (brand %.1f)\n", s.RivalStrategy, s.RivalBrand)

	printAccent("Last event: " + s.LastEvent.Name + " | " + s.LastEvent.Desc)
	if s.LastWarning != "" {
		printWarn(s.LastWarning)
	}
	if v.Dilemma != nil {
		printWarn("Pending dilemma: " + v.Dilemma.Title)
	}
	fmt.Println()
}

func renderOutcome(out game.TurnOutcome) {
	if out.Failure != "" && out.Session.Phase == sim.PhaseFailurePending {
		danger.Println("\n" + out.Failure)
		printWarn("The failed year was not booked. Run `evolve bailout` or `evolve resign`.")
		return
	}
	if out.Warning != "" {
		printWarn(out.Warning)
	}
	renderSession(out.Session)
}

func renderOracle(out game.OracleReport) {
	accent.Printf("\n== ORACLE SUGGESTION (confidence %.0f%%) ==\n", out.Confidence)
	in := out.Inputs
	rows := []struct {
		label string
		v     float64
	}{
		{"CapEx", in.Capex}, {"R&D", in.RnD}, {"Marketing", in.Marketing},
		{"Training", in.Training}, {"Maintenance", in.Maintenance},
		{"Logistics", in.Logistics}, {"Data", in.Data},
		{"Debt Repayment", in.DebtPay}, {"Dividend", in.Dividend},
	}
	for _, r := range rows {
		if r.v > 0 {
			fmt.Printf("  %-15s ₹%.1fM\n", r.label, r.v)
		}
	}
	printInfo("Cash remaining: " + sim.FormatMoney(out.Cash))
	printWarn("A suggestion, not an order. Enter it with `evolve turn` if you agree.")
}

func renderReport(r game.FinalReport) {
	accent.Printf("\n== FINAL REPORT: %s ==\n", r.Team)
	fmt.Printf("Industry:   %s\n", r.Industry)
	fmt.Printf("Outcome:    %s\n", r.Outcome)
	fmt.Printf("Years:      %d\n", r.Years)
	fmt.Printf("Valuation:  %s\n", sim.FormatMoney(r.Valuation))
	fmt.Printf("Cash:       %s\n", sim.FormatMoney(r.Cash))
	success.Printf("Score:      %d / 100\n", r.Score)

	if len(r.History) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Year", "Revenue", "Net Profit", "Valuation"})
		for _, h := range r.History {
			tw.AppendRow(table.Row{
				h.Year, sim.FormatMoney(h.Revenue), sim.FormatMoney(h.NetProfit), sim.FormatMoney(h.Valuation),
			})
		}
		tw.Render()
	}
}

func renderLeaderboard(rows []game.LeaderboardRow) {
	accent.Println("\n== LEADERBOARD ==")
	if len(rows) == 0 {
		printInfo("No finished runs yet.")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Rank", "Team", "Industry", "Score", "Valuation", "Outcome"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Rank, r.Team, r.Industry, r.Score, sim.FormatMoney(r.Valuation), r.Outcome})
	}
	tw.Render()
}

func renderManual() {
	accent.Println("\n== DASHBOARD METRICS ==")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Metric", "What it is", "How it moves", "Tip"})
	for _, k := range sim.KPIDefinitions() {
		tw.AppendRow(table.Row{k.Title, k.Def, k.Calc, k.Tip})
	}
	tw.Render()

	accent.Println("\n== THE FIVE YEARS ==")
	for year := 0; year < sim.FinalYear; year++ {
		t := sim.ThemeForYear(year)
		fmt.Printf("  Year %d (%s): %s\n", year+1, t.Title, t.Focus)
	}
	fmt.Println()
}
