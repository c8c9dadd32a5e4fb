package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
)

func newCreditCmd(opts *rootOptions) *cobra.Command {
	var req reform.CreditRequest
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Add development points to an actor's ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openBackend(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			reply, err := b.Credit(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, reply)
			}
			fmt.Fprintf(out, "Awarded: %d\n", reply.Awarded)
			fmt.Fprintf(out, "Balance: %d\n", reply.Balance)
			if reply.Crossed {
				fmt.Fprintf(out, "Reform threshold %d reached\n", reply.Threshold)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.ActorID, "actor", "player", "Actor to credit")
	f.IntVar(&req.Points, "points", 0, "Points before the multiplier (required)")
	f.BoolVar(&req.Quiet, "quiet", false, "Side award: never raise the threshold notification")
	f.IntVar(&req.Modifiers.Believers, "believers", 0, "Believer count for the threshold")
	f.IntVar(&req.Modifiers.Factions, "factions", 0, "Faction count for the threshold")
	_ = cmd.MarkFlagRequired("points")
	return cmd
}
