package ecs

import "fmt"

// SystemPanic records one system's panic during a tick: its name, the
// recovered value, and a captured stack trace for diagnostics.
type SystemPanic struct {
	System string
	Value  any
	Stack  []byte
}

func (p SystemPanic) String() string {
	return fmt.Sprintf("system %q panicked: %v", p.System, p.Value)
}

// PanicError is what Scheduler.Run panics with when one or more systems
// panicked during a tick. It implements error so a caller that recovers it
// can log or inspect it with the standard library, and it carries every
// system's panic from that tick, not just the first.
type PanicError struct {
	Panics []SystemPanic
}

func (e *PanicError) Error() string {
	if len(e.Panics) == 1 {
		return e.Panics[0].String()
	}
	msg := fmt.Sprintf("%d systems panicked during tick:", len(e.Panics))
	for _, p := range e.Panics {
		msg += "\n  " + p.String()
	}
	return msg
}
