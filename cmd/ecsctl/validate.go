package main

import (
	"fmt"

	"github.com/parallex/ecsrt/pkg/ecsconfig"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate CONFIG",
	Short: "Load a scheduler config and check its system topology",
	Long: `Loads a JWCC or YAML scheduler config and validates it: a positive
worker count, unique system names, and an acyclic predecessor graph over a
closed set of names. Exits non-zero on the first problem found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ecsconfig.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("OK: %d workers, %d systems\n", cfg.Workers, len(cfg.Topology))
		for _, spec := range cfg.Topology {
			if len(spec.Predecessors) == 0 {
				fmt.Printf("  %s\n", spec.Name)
				continue
			}
			fmt.Printf("  %s (after %v)\n", spec.Name, spec.Predecessors)
		}
		return nil
	},
}
