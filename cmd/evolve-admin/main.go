package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"evolve/internal/config"
	"evolve/internal/db"
	"evolve/internal/game"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "evolve-admin",
		Short:        "Operator tooling for the Evolve competition",
		SilenceUsage: true,
	}

	root.AddCommand(newTeamsCmd(), newResultsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func withStore(ctx context.Context, fn func(context.Context, *game.Store) error) error {
	cfg, err := config.LoadAdminFromEnv()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := game.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(ctx, store)
}

func newTeamsCmd() *cobra.Command {
	teams := &cobra.Command{
		Use:   "teams",
		Short: "Team registration commands",
	}
	teams.AddCommand(&cobra.Command{
		Use:   "generate <count>",
		Short: "Register numbered teams and print their access codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}
			return withStore(cmd.Context(), func(ctx context.Context, store *game.Store) error {
				creds, err := store.CreateTeams(ctx, n)
				if err != nil {
					return err
				}
				if len(creds) == 0 {
					slog.Info("no new teams registered")
					return nil
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Team", "Access Code"})
				for _, c := range creds {
					tw.AppendRow(table.Row{c.Team, c.Code})
				}
				tw.Render()
				return nil
			})
		},
	})
	return teams
}

func newResultsCmd() *cobra.Command {
	results := &cobra.Command{
		Use:   "results",
		Short: "Finished-run commands",
	}

	results.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every finished run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *game.Store) error {
				recs, err := store.ListResults(ctx)
				if err != nil {
					return err
				}
				tw := resultsTable(recs)
				tw.SetOutputMirror(os.Stdout)
				tw.Render()
				return nil
			})
		},
	})

	results.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Export finished runs as CSV on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *game.Store) error {
				recs, err := store.ListResults(ctx)
				if err != nil {
					return err
				}
				tw := resultsTable(recs)
				fmt.Println(tw.RenderCSV())
				return nil
			})
		},
	})

	return results
}

func resultsTable(recs []game.ResultRecord) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Team", "Industry", "Score", "Outcome", "Valuation", "Cash", "Years", "Completed At"})
	for _, r := range recs {
		tw.AppendRow(table.Row{
			r.Team, r.Industry, r.Score, r.Outcome,
			fmt.Sprintf("%.0f", r.Valuation), fmt.Sprintf("%.0f", r.Cash),
			r.Years, r.CompletedAt.Format(time.RFC3339),
		})
	}
	return tw
}
