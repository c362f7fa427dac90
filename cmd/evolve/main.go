package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cl "evolve/internal/cli"
	"evolve/internal/config"
	"evolve/internal/sim"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "evolve",
		Short:        "Evolve boardroom simulation client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newIndustriesCmd(&apiBase),
		newStartCmd(&apiBase),
		newStatusCmd(&apiBase),
		newTurnCmd(&apiBase),
		newBailoutCmd(&apiBase),
		newResignCmd(&apiBase),
		newAdvisorCmd(&apiBase),
		newOracleCmd(&apiBase),
		newLiquidateCmd(&apiBase),
		newReportCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newManualCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func loadToken() (string, error) {
	sess, err := cl.LoadSession()
	if err != nil {
		return "", fmt.Errorf("login required: %w", err)
	}
	return sess.Token, nil
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login with your team credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := promptRequired("Team")
			if err != nil {
				return err
			}
			code, err := promptRequired("Access code")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Login(ctx, team, code)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{Token: out.Token, Team: out.Team}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Logged in as %s.", out.Team))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newIndustriesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "industries",
		Short: "List the selectable industries",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			industries, err := newClient(apiBase).Industries(ctx, token)
			if err != nil {
				return err
			}
			renderIndustries(industries)
			return nil
		},
	}
}

func newStartCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start [industry]",
		Short: "Start your one five-year run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)

			industry := ""
			if len(args) == 1 {
				industry = args[0]
			} else {
				industries, err := client.Industries(ctx, token)
				if err != nil {
					return err
				}
				renderIndustries(industries)
				ids := make([]string, 0, len(industries))
				for _, ind := range industries {
					ids = append(ids, ind.ID)
				}
				choice, err := promptChoice("Industry", ids, ids[0])
				if err != nil {
					return err
				}
				industry = choice
			}

			printWarn("One run per team. There is no restart.")
			confirm, err := promptChoice("Begin", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Aborted.")
				return nil
			}

			view, err := client.StartSession(ctx, token, industry)
			if err != nil {
				return err
			}
			renderSession(view)
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your current company state",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).Session(ctx, token)
			if err != nil {
				return err
			}
			renderSession(view)
			return nil
		},
	}
}

func newTurnCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "turn",
		Short: "Allocate this year's budget and advance",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			client := newClient(apiBase)

			view, err := client.Session(ctx, token)
			if err != nil {
				return err
			}
			renderSession(view)

			option := -1
			if view.Dilemma != nil {
				option, err = promptDilemma(*view.Dilemma)
				if err != nil {
					return err
				}
			}

			inputs, err := promptBudget(view.State.Cash)
			if err != nil {
				return err
			}

			out, err := client.PlayTurn(ctx, token, inputs, option)
			if err != nil {
				return err
			}
			renderOutcome(out)
			return nil
		},
	}
}

func newBailoutCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bailout",
		Short: "Accept the emergency bailout",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			printWarn("Bailout terms: +₹50M cash, +₹50M debt at 15% interest, valuation halved, dividends locked, -30 score.")
			confirm, err := promptChoice("Accept", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Declined. Run `evolve resign` to end the game, or decide later.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).AcceptBailout(ctx, token)
			if err != nil {
				return err
			}
			printSuccess("Bailout accepted. The board is watching. Replay the year.")
			renderSession(view)
			return nil
		},
	}
}

func newResignCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resign",
		Short: "Decline the bailout and end the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			confirm, err := promptChoice("Resign for good", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Aborted.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			report, err := newClient(apiBase).Resign(ctx, token)
			if err != nil {
				return err
			}
			renderReport(report)
			return nil
		},
	}
}

func newAdvisorCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "advisor",
		Short: "Hire a consultant (₹2M, -5 score)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Advisor(ctx, token)
			if err != nil {
				return err
			}
			printAccent("Consultant: " + out.Advice)
			printInfo("Cash remaining: " + sim.FormatMoney(out.Cash))
			return nil
		},
	}
}

func newOracleCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "oracle",
		Short: "Consult the oracle for a suggested budget (₹15M, -15 score)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			printWarn("The oracle is expensive and never certain.")
			confirm, err := promptChoice("Proceed", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Aborted.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Oracle(ctx, token)
			if err != nil {
				return err
			}
			renderOracle(out)
			return nil
		},
	}
}

func newLiquidateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "liquidate",
		Short: "Fire-sell all inventory at a discount",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			choice, err := promptChoice("Discount", []string{"half", "clearance"}, "clearance")
			if err != nil {
				return err
			}
			discount := 0.3
			if choice == "half" {
				discount = 0.5
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Liquidate(ctx, token, discount)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Inventory cleared for %s. Cash: %s, Brand: %.1f",
				sim.FormatMoney(out.Proceeds), sim.FormatMoney(out.Cash), out.Brand))
			return nil
		},
	}
}

func newReportCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the final report and score",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			report, err := newClient(apiBase).Report(ctx, token)
			if err != nil {
				return err
			}
			renderReport(report)
			return nil
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the competition standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadToken()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			rows, err := newClient(apiBase).Leaderboard(ctx, token)
			if err != nil {
				return err
			}
			renderLeaderboard(rows)
			return nil
		},
	}
}

func newManualCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manual",
		Short: "Explain the dashboard metrics and year themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderManual()
			return nil
		},
	}
}
