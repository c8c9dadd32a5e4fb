package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/replay"
)

func newReplayCmd(opts *rootOptions) *cobra.Command {
	var fixturePath string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded fixture in memory and check its expectations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := replay.LoadFixture(fixturePath)
			if err != nil {
				return err
			}
			config, warnings, err := f.Config.ToReplayConfig()
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			events, err := f.ToEvents()
			if err != nil {
				return err
			}

			start := f.Start.ToLedger()
			results := replay.Replay(start, events, config)
			summary := replay.Summarize(start, results)

			mismatched := make([]bool, len(results))
			mismatches := 0
			for i, r := range results {
				if i >= len(f.ExpectedResults) {
					continue
				}
				exp := f.ExpectedResults[i]
				if exp.Action != r.Action || exp.Balance != r.Balance || (exp.Total != nil && *exp.Total != r.Total) {
					mismatched[i] = true
					mismatches++
				}
			}

			out := cmd.OutOrStdout()
			if opts.json {
				err = printJSON(out, struct {
					Results    []replay.ReplayResult `json:"results"`
					Summary    replay.ReplaySummary  `json:"summary"`
					Mismatches int                   `json:"mismatches"`
				}{results, summary, mismatches})
				if err != nil {
					return err
				}
			} else {
				for i, r := range results {
					mark := ""
					if mismatched[i] {
						mark = "  MISMATCH"
					}
					fmt.Fprintf(out, "%-6s %-12s total=%-4d balance=%-4d%s\n", r.ID, r.Action, r.Total, r.Balance, mark)
				}
				fmt.Fprintf(out, "events=%d credits=%d approved=%d rejected=%d invalid=%d credited=%d consumed=%d final=%d conserved=%t\n",
					summary.TotalEvents, summary.Credits, summary.Approved, summary.Rejected, summary.Invalid,
					summary.PointsCredited, summary.PointsConsumed, summary.FinalBalance, summary.Conserved)
			}

			if mismatches > 0 {
				return fmt.Errorf("%d events differ from the fixture expectations", mismatches)
			}
			if !summary.Conserved {
				return errors.New("points not conserved")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "Replay fixture JSON (required)")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}
