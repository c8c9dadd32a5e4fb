package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	dbPath string
	addr   string
	debug  bool
	json   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "reformctl",
		Short: "Price reforms and manage development point ledgers",
		Long: "reformctl scores configuration changes, gates them against an actor's\n" +
			"development point ledger, and inspects ledger history and weights.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.dbPath, "db", "reform.db", "SQLite database path")
	f.StringVar(&opts.addr, "addr", "", "reformd gRPC address; when set, score/attempt/credit/ledger show run remotely")
	f.BoolVar(&opts.debug, "debug", false, "Debug logging to stderr")
	f.BoolVar(&opts.json, "json", false, "Print JSON instead of text")

	root.AddCommand(newScoreCmd(opts))
	root.AddCommand(newAttemptCmd(opts))
	root.AddCommand(newCreditCmd(opts))
	root.AddCommand(newLedgerCmd(opts))
	root.AddCommand(newWeightsCmd(opts))
	root.AddCommand(newReplayCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
