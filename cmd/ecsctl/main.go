// ecsctl is a demonstration and validation CLI around pkg/ecs. It does not
// replace writing Go code against the library — a real application embeds
// pkg/ecs directly — but it exercises every piece of the runtime end to
// end: config-driven topology validation, a runnable demo world, an
// interactive tick stepper, and the debug HTTP surface.
package main

import (
	"fmt"
	"os"

	"github.com/parallex/ecsrt/pkg/log"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ecsctl",
	Short:   "ecsctl drives demo worlds against the ecs runtime",
	Long:    `ecsctl validates scheduler topologies, runs a demo ECS world, and serves its debug HTTP surface.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ecsctl version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})
}
