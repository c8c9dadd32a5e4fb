package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

func newWeightsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show and change the saved cost weights",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved weights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openLocal(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()
			return printWeights(cmd, opts, b.ctrl.Weights().Load())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the saved weights to defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return saveWeights(cmd, opts, weights.Default())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "load <file>",
		Short: "Save weights from a YAML file; missing keys keep their defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := weights.LoadFile(args[0])
			if err != nil {
				return err
			}
			return saveWeights(cmd, opts, w)
		},
	})
	return cmd
}

func saveWeights(cmd *cobra.Command, opts *rootOptions, w weights.Config) error {
	b, err := openLocal(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer b.Close()

	warnings, err := b.ctrl.UpdateWeights(w)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
	return printWeights(cmd, opts, b.ctrl.Weights().Load())
}

func printWeights(cmd *cobra.Command, opts *rootOptions, w weights.Config) error {
	out := cmd.OutOrStdout()
	if opts.json {
		return printJSON(out, w)
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(w)
}
