package ecs

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parallex/ecsrt/pkg/log"
	"github.com/parallex/ecsrt/pkg/metrics"
)

// System is user logic that declares its access statically and produces no
// return value. Run is responsible for binding its own system data from
// world and releasing it before returning (typically via a deferred
// Release on a struct of ReadRes/WriteRes/ReadComp/WriteComp fields); the
// scheduler only ever calls DepSet and Run.
type System interface {
	DepSet(world *World) DepSet
	Run(world *World)
}

// TickSummary reports what happened during one call to Scheduler.Run, for
// consumption by a TickObserver.
type TickSummary struct {
	TickID        string
	Tick          uint64
	Duration      time.Duration
	SystemsRun    int
	Conflicts     int
	Ran           []string
	PanickedNames []string
}

// TickObserver is notified after every tick, successful or not. It is the
// hook pkg/metrics and pkg/debugserver attach to; it is optional and has
// no effect on scheduling.
type TickObserver interface {
	TickCompleted(summary TickSummary)
}

type systemRecord struct {
	name         string
	predecessors []string
	system       System
}

// Scheduler owns a set of name-keyed systems with explicit predecessor
// edges and dispatches them, tick by tick, to a fixed worker pool such
// that no two systems with conflicting DepSets ever run concurrently and
// every predecessor completes before its dependents start.
type Scheduler struct {
	mu       sync.Mutex
	systems  map[string]*systemRecord
	order    []string
	pool     *workerPool
	observer TickObserver
	tick     uint64
}

// NewScheduler returns a Scheduler backed by a worker pool of the given
// size. A size below 1 is treated as 1.
func NewScheduler(workers int) *Scheduler {
	return &Scheduler{
		systems: make(map[string]*systemRecord),
		pool:    newWorkerPool(workers),
	}
}

// SetObserver attaches a TickObserver, replacing any previous one. Pass
// nil to detach.
func (s *Scheduler) SetObserver(observer TickObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = observer
}

// Add installs a system under name with the given predecessor names.
// Names must be unique; Add panics on a duplicate. Predecessor names
// should already have been added, but the scheduler tolerates forward
// references as long as the resulting graph is acyclic by the time Run is
// called against it.
func (s *Scheduler) Add(system System, name string, predecessors []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.systems[name]; exists {
		panic(fmt.Sprintf("ecs: system %q already added", name))
	}
	preds := append([]string(nil), predecessors...)
	s.systems[name] = &systemRecord{name: name, predecessors: preds, system: system}
	s.order = append(s.order, name)
}

// Close shuts down the scheduler's worker pool, waiting for any in-flight
// work to finish. A Scheduler must not be reused after Close.
func (s *Scheduler) Close() {
	s.pool.Close()
}

// tickState is the per-tick transient bookkeeping the main loop and the
// worker closures share. cond is signaled every time a worker finishes (or
// panics), which is the only thing the dispatcher needs to wake up on: a
// newly-finished system may unblock a predecessor-gated or conflict-gated
// one.
type tickState struct {
	mu        sync.Mutex
	cond      *sync.Cond
	done      map[string]bool
	depSets   map[string]DepSet
	inFlight  map[string]DepSet
	remaining int
	panics    []SystemPanic
	conflicts int
	ran       []string
}

// Run executes one tick: every added system runs exactly once, subject to
// its predecessor edges and to the DepSet conflict gate. Run blocks until
// the tick drains. If any system panicked, Run panics with a *PanicError
// after every system has finished — no reservation or guard is left held.
func (s *Scheduler) Run(world *World) {
	s.mu.Lock()
	order := append([]string(nil), s.order...)
	records := make(map[string]*systemRecord, len(order))
	for k, v := range s.systems {
		records[k] = v
	}
	observer := s.observer
	s.tick++
	tickNum := s.tick
	s.mu.Unlock()

	tickID := uuid.New().String()
	tickScope := log.ForTick(tickID, tickNum)
	logger := tickScope.Logger()
	start := time.Now()
	timer := metrics.NewTimer()

	ts := &tickState{
		done:     make(map[string]bool, len(order)),
		depSets:  make(map[string]DepSet, len(order)),
		inFlight: make(map[string]DepSet),
	}
	ts.cond = sync.NewCond(&ts.mu)
	ts.remaining = len(order)
	for _, name := range order {
		ts.depSets[name] = records[name].system.DepSet(world)
	}

	logger.Debug().Int("systems", len(order)).Msg("tick started")

	for {
		ts.mu.Lock()
		if ts.remaining == 0 {
			ts.mu.Unlock()
			break
		}

		var chosen *systemRecord
		for _, name := range order {
			if ts.done[name] {
				continue
			}
			rec := records[name]
			if hasPendingPredecessor(rec, ts.done) {
				continue
			}
			if conflictsWithInFlight(ts.inFlight, ts.depSets[name]) {
				ts.conflicts++
				metrics.DispatchConflictsTotal.Inc()
				continue
			}
			ts.inFlight[name] = ts.depSets[name]
			chosen = rec
			break
		}

		if chosen == nil {
			ts.cond.Wait()
			ts.mu.Unlock()
			continue
		}
		ts.mu.Unlock()

		metrics.SystemsInFlight.Inc()
		s.pool.Submit(func() {
			s.runSystem(world, chosen, ts, tickScope)
		})
	}

	duration := timer.Duration()
	metrics.TicksTotal.Inc()
	timer.ObserveDuration(metrics.TickDuration)

	summary := TickSummary{
		TickID:     tickID,
		Tick:       tickNum,
		Duration:   duration,
		SystemsRun: len(ts.ran),
		Conflicts:  ts.conflicts,
		Ran:        append([]string(nil), ts.ran...),
	}
	for _, p := range ts.panics {
		summary.PanickedNames = append(summary.PanickedNames, p.System)
	}
	if observer != nil {
		observer.TickCompleted(summary)
	}

	logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("conflicts", ts.conflicts).
		Msg("tick completed")

	if len(ts.panics) > 0 {
		panic(&PanicError{Panics: ts.panics})
	}
}

func hasPendingPredecessor(rec *systemRecord, done map[string]bool) bool {
	for _, p := range rec.predecessors {
		if !done[p] {
			return true
		}
	}
	return false
}

func conflictsWithInFlight(inFlight map[string]DepSet, candidate DepSet) bool {
	for _, running := range inFlight {
		if candidate.ConflictsWith(running) {
			return true
		}
	}
	return false
}

func (s *Scheduler) runSystem(world *World, rec *systemRecord, ts *tickState, tickScope log.TickScope) {
	logger := tickScope.System(rec.name)
	defer metrics.SystemsInFlight.Dec()
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			logger.Error().
				Interface("panic", r).
				Msg("system panicked")
			metrics.SystemsPanickedTotal.WithLabelValues(rec.name).Inc()
			s.finishSystem(ts, rec.name, &SystemPanic{System: rec.name, Value: r, Stack: stack})
		}
	}()

	timer := metrics.NewTimer()
	rec.system.Run(world)
	timer.ObserveDurationVec(metrics.SystemDuration, rec.name)
	metrics.SystemsExecutedTotal.WithLabelValues(rec.name).Inc()
	s.finishSystem(ts, rec.name, nil)
}

func (s *Scheduler) finishSystem(ts *tickState, name string, p *SystemPanic) {
	ts.mu.Lock()
	delete(ts.inFlight, name)
	ts.done[name] = true
	ts.remaining--
	ts.ran = append(ts.ran, name)
	if p != nil {
		ts.panics = append(ts.panics, *p)
	}
	ts.cond.Broadcast()
	ts.mu.Unlock()
}
