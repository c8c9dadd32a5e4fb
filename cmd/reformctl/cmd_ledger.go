package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

func newLedgerCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and restore development point ledgers",
	}
	cmd.AddCommand(newLedgerShowCmd(opts))
	cmd.AddCommand(newLedgerVersionsCmd(opts))
	cmd.AddCommand(newLedgerLogCmd(opts))
	cmd.AddCommand(newLedgerRollbackCmd(opts))
	return cmd
}

func newLedgerShowCmd(opts *rootOptions) *cobra.Command {
	var (
		actor string
		mods  weights.Modifiers
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show balance, reform count and threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openBackend(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			view, err := b.Ledger(cmd.Context(), actor, mods)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, view)
			}
			fmt.Fprintf(out, "Actor:     %s\n", view.ActorID)
			fmt.Fprintf(out, "Balance:   %d\n", view.Balance)
			fmt.Fprintf(out, "Reforms:   %d\n", view.ReformCount)
			fmt.Fprintf(out, "Threshold: %d\n", view.Threshold)
			fmt.Fprintf(out, "Can reform: %t\n", view.CanReform)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&actor, "actor", "player", "Actor")
	f.IntVar(&mods.Believers, "believers", 0, "Believer count for the threshold")
	f.IntVar(&mods.Factions, "factions", 0, "Faction count for the threshold")
	return cmd
}

func newLedgerVersionsCmd(opts *rootOptions) *cobra.Command {
	var (
		actor string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List ledger versions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openLocal(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			versions, err := b.ctrl.Versions(actor, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, versions)
			}
			for _, v := range versions {
				fmt.Fprintf(out, "%s  %-6s  balance=%d reforms=%d  %s\n",
					v.VersionID, v.Reason, v.Balance, v.ReformCount, v.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "player", "Actor")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum versions to list")
	return cmd
}

func newLedgerLogCmd(opts *rootOptions) *cobra.Command {
	var (
		actor string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the reform decision log, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openLocal(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			entries, err := b.ctrl.Decisions(actor, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-8s total=%d balance=%d  %s\n",
					e.CreatedAt.Format(time.RFC3339), e.Action, e.Total, e.Balance, e.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "player", "Actor")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to list")
	return cmd
}

func newLedgerRollbackCmd(opts *rootOptions) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "rollback <version-id>",
		Short: "Make an earlier ledger version active again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openLocal(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.ctrl.Rollback(actor, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %s to %s\n", actor, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "player", "Actor")
	return cmd
}
