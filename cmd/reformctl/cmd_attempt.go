package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAttemptCmd(opts *rootOptions) *cobra.Command {
	flags := &changeFlags{}
	cmd := &cobra.Command{
		Use:   "attempt",
		Short: "Apply a change if the actor can pay for it",
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

			reply, err := b.Attempt(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, reply)
			}
			printLines(out, reply.Lines, reply.Total)
			fmt.Fprintf(out, "Decision: %s\n", reply.Action)
			fmt.Fprintf(out, "Reason:   %s\n", reply.Reason)
			fmt.Fprintf(out, "Balance:  %d after %d reforms\n", reply.Balance, reply.ReformCount)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
