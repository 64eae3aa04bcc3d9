package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/scoring"
	"github.com/spf13/cobra"
)

func scoresCmd() *cobra.Command {
	var (
		eventID    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the complete leaderboard of an event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(eventID)
			if err != nil {
				return fmt.Errorf("invalid --event %q: %w", eventID, err)
			}
			return runScores(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), id, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&eventID, "event", "", "event ID")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

// runScores writes the leaderboard to out and logs to logOut, keeping out
// clean for --json.
func runScores(ctx context.Context, out, logOut io.Writer, eventID uuid.UUID, jsonOutput bool) error {
	cfg, store, err := bootstrap(ctx, logOut)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	scores, err := newService(cfg, store).GetCompleteScores(ctx, eventID)
	if err != nil {
		return err
	}
	return renderScores(out, scores, jsonOutput)
}

func renderScores(out io.Writer, scores []scoring.ScoreNormalized, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(scores)
	}

	if len(scores) == 0 {
		_, err := fmt.Fprintln(out, "No teams.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tTEAM\tTECHNICAL\tEXPERT\tSIDEQUEST\tVOTING\tBONUS\tFINAL")
	for _, s := range scores {
		var technical, expert, voting *scoring.CategoryScore
		if s.Technical != nil {
			technical = &s.Technical.CategoryScore
		}
		if s.Expert != nil {
			expert = &s.Expert.CategoryScore
		}
		if s.Voting != nil {
			voting = &s.Voting.CategoryScore
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f/%.0f\n",
			s.Rank, s.TeamName,
			category(technical), category(expert), category(s.Sidequest), category(voting),
			s.Bonus, s.Final, s.MaxFinal,
		)
	}
	return w.Flush()
}

// category formats a category score, or "-" when the team has none.
func category(c *scoring.CategoryScore) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", c.Score)
}
