package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/catalog"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// changeFlags name the catalog and the two snapshot files of a change.
type changeFlags struct {
	actor       string
	catalogPath string
	beforePath  string
	afterPath   string
	mods        weights.Modifiers
}

func (f *changeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.actor, "actor", "player", "Actor whose ledger pays for the change")
	fs.StringVar(&f.catalogPath, "catalog", "", "Definition catalog (YAML/JSON, required)")
	fs.StringVar(&f.beforePath, "before", "", "Current snapshot file of names (empty snapshot when omitted)")
	fs.StringVar(&f.afterPath, "after", "", "Proposed snapshot file of names (required)")
	fs.IntVar(&f.mods.Believers, "believers", 0, "Believer count for the base cost")
	fs.IntVar(&f.mods.Factions, "factions", 0, "Faction count for the base cost")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("after")
}

// request resolves both snapshot files through the catalog.
func (f *changeFlags) request() (reform.Request, error) {
	cat, err := catalog.Load(f.catalogPath)
	if err != nil {
		return reform.Request{}, err
	}
	req := reform.Request{ActorID: f.actor, Modifiers: f.mods}
	if f.beforePath != "" {
		spec, err := catalog.LoadSpec(f.beforePath)
		if err != nil {
			return reform.Request{}, err
		}
		if req.Before, err = cat.Resolve(spec); err != nil {
			return reform.Request{}, fmt.Errorf("before: %w", err)
		}
	}
	spec, err := catalog.LoadSpec(f.afterPath)
	if err != nil {
		return reform.Request{}, err
	}
	if req.After, err = cat.Resolve(spec); err != nil {
		return reform.Request{}, fmt.Errorf("after: %w", err)
	}
	return req, nil
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	flags := &changeFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Price a change without touching the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			b, err := openBackend(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			reply, err := b.Score(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, reply)
			}
			printLines(out, reply.Lines, reply.Total)
			fmt.Fprintf(out, "Available: %d (threshold %d)\n", reply.Balance, reply.Threshold)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printLines(out io.Writer, lines []scoring.Line, total int) {
	for _, l := range lines {
		fmt.Fprintln(out, l.String())
	}
	fmt.Fprintf(out, "Total: %d\n", total)
}
