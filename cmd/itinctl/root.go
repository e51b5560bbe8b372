package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"example.com/ai-travel-planner/internal/itinerary"
	"example.com/ai-travel-planner/internal/seasonal"
)

const dateLayout = "2006-01-02"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "itinctl",
		Short:        "Inspect generated itineraries and manage the travel planner database",
		SilenceUsage: true,
	}

	root.AddCommand(newParseCmd(), newBreakdownCmd(), newSeasonCmd(), newMigrateCmd())
	return root
}

type parseOutput struct {
	Days        []itinerary.DayPlan     `json:"days"`
	Timeline    []itinerary.TimelineRow `json:"timeline"`
	PlannedCost float64                 `json:"planned_cost"`
}

func newParseCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse itinerary text into days and activities (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			days := itinerary.Parse(text, startDate)
			return writeJSON(cmd.OutOrStdout(), parseOutput{
				Days:        days,
				Timeline:    itinerary.Timeline(days),
				PlannedCost: itinerary.PlannedCost(days),
			})
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Trip start date (YYYY-MM-DD), defaults to today")
	return cmd
}

type breakdownOutput struct {
	Items  []itinerary.CategoryAmount `json:"items"`
	Shares []itinerary.CategoryShare  `json:"shares,omitempty"`
}

func newBreakdownCmd() *cobra.Command {
	var budget float64

	cmd := &cobra.Command{
		Use:   "breakdown [file]",
		Short: "Extract the budget breakdown section from itinerary text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if budget < 0 {
				return fmt.Errorf("budget must not be negative")
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			items := itinerary.ExtractBudgetBreakdown(text)
			out := breakdownOutput{Items: items}
			if budget > 0 {
				out.Shares = itinerary.Shares(items, budget)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().Float64VarP(&budget, "budget", "b", 0, "Trip budget used to compute category shares")
	return cmd
}

func newSeasonCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "season [destination]",
		Short: "Show seasonal recommendations for a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseDateFlag(date)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), seasonal.Recommend(args[0], when))
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Travel date (YYYY-MM-DD), defaults to today")
	return cmd
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
