package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo world for a fixed number of ticks",
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")
		entities, _ := cmd.Flags().GetInt("entities")
		ticks, _ := cmd.Flags().GetInt("ticks")
		quiet, _ := cmd.Flags().GetBool("quiet")

		w, sched, alloc := buildDemoWorld(workers, entities)
		defer sched.Close()

		for i := 0; i < ticks; i++ {
			sched.Run(w)
		}

		if !quiet {
			printWorldState(w, alloc)
		}
		fmt.Printf("ran %d ticks over %d entities with %d workers\n", ticks, entities, workers)
		return nil
	},
}

func init() {
	runCmd.Flags().Int("workers", 4, "Worker pool size")
	runCmd.Flags().Int("entities", 10, "Number of demo entities")
	runCmd.Flags().Int("ticks", 100, "Number of ticks to run")
	runCmd.Flags().Bool("quiet", false, "Suppress per-entity state dump at the end")
}
