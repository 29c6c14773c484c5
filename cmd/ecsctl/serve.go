package main

import (
	"github.com/parallex/ecsrt/pkg/debugserver"
	"github.com/parallex/ecsrt/pkg/log"
	"github.com/parallex/ecsrt/pkg/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo world in the background and serve its debug HTTP surface",
	Long: `Starts a demo world ticking at a fixed rate on a background goroutine
and exposes pkg/debugserver's health, readiness, metrics, and world-dump
endpoints over HTTP until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")
		entities, _ := cmd.Flags().GetInt("entities")
		addr, _ := cmd.Flags().GetString("addr")
		tickInterval, _ := cmd.Flags().GetDuration("tick-interval")

		w, sched, _ := buildDemoWorld(workers, entities)
		defer sched.Close()

		metrics.SetVersion(Version)

		srv := debugserver.New(w)
		srv.ObserveScheduler(sched, []string{"gravity", "movement", "tick-counter"})

		stop := make(chan struct{})
		go tickLoop(w, sched, tickInterval, stop)
		defer close(stop)

		log.WithComponent("ecsctl").Info().Str("addr", addr).Msg("serving debug endpoints")
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Int("workers", 4, "Worker pool size")
	serveCmd.Flags().Int("entities", 10, "Number of demo entities")
	serveCmd.Flags().String("addr", "127.0.0.1:9090", "Debug server listen address")
	serveCmd.Flags().Duration("tick-interval", defaultTickInterval, "Interval between scheduler ticks")
}
