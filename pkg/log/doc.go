/*
Package log provides structured logging shared by the ECS runtime, wrapping
zerolog with a package-global logger and component-scoped child loggers.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	tick := log.ForTick(tickID, tickNum)
	tick.System("physics").Info().Msg("dispatched")

ForTick returns a TickScope carrying the tick's correlation ID and tick
number; its System method narrows to a single dispatched system so every
per-system log line carries both fields at once instead of one or the
other. There is no log rotation or aggregation logic here; that is left
to whatever ships the process's stdout.
*/
package log
