/*
Package ecs is a parallel Entity-Component-System runtime: a typed,
lock-guarded World for resources and per-type component storages, a Join
engine for lock-step iteration across them, and a Scheduler that runs
user-defined Systems on a worker pool while statically preventing data
races through declared read/write access sets.

The scheduler is the hard part. Every System declares, via its DepSet, the
resources and component storages it reads and writes. Before a tick
dispatches a system, it checks that system's DepSet against every
currently-running system's DepSet; a write anywhere in either set that
overlaps the other's reads or writes blocks the dispatch until the
conflicting system finishes. Declared predecessor edges are a second,
independent gate: a system with an unfinished predecessor never dispatches
regardless of DepSet conflicts.

	┌────────────────────────── SCHEDULER TICK ──────────────────────────┐
	│                                                                     │
	│  ┌────────────────────────────────────────────────┐               │
	│  │           Scheduler.Run(world)                  │               │
	│  │  - compute DepSet per system, once              │               │
	│  │  - done[name]=false, inFlight={}                │               │
	│  └──────────────────┬─────────────────────────────┘               │
	│                     │                                               │
	│  ┌──────────────────▼─────────────────────────────┐               │
	│  │           Dispatcher loop (caller goroutine)    │               │
	│  │  scan systems in insertion order:               │               │
	│  │    skip if done                                 │               │
	│  │    skip if a predecessor is not done            │               │
	│  │    skip if DepSet conflicts with inFlight        │               │
	│  │    else: reserve + submit, break (one per scan) │               │
	│  │  if nothing dispatched: cond.Wait()             │               │
	│  └──────────────────┬─────────────────────────────┘               │
	│                     │                                               │
	│  ┌──────────────────▼─────────────────────────────┐               │
	│  │              Worker pool (N goroutines)         │               │
	│  │  - bind system data (acquire World guards)      │               │
	│  │  - run user code                                │               │
	│  │  - release guards, mark done, cond.Broadcast()  │               │
	│  └──────────────────┬─────────────────────────────┘               │
	│                     │                                               │
	│  ┌──────────────────▼─────────────────────────────┐               │
	│  │   Tick drains when all systems are done.        │               │
	│  │   Any recovered panics re-panic as *PanicError. │               │
	│  └────────────────────────────────────────────────┘               │
	└─────────────────────────────────────────────────────────────────────┘

# Core types

World holds resources (singletons keyed by type) and component storages
(sparse per-type columns keyed by a dense entity index) behind
per-type reader/writer locks. DepSet is the four-bitset access descriptor
(resource read/write, component read/write) that makes conflict detection
a handful of bitwise intersections. ReadRes/WriteRes/ReadComp/WriteComp are
the system-data primitives a system binds from the world; they compose
into larger structs by simple field composition, since Go has no variadic
generics for true tuple types.

# What this package does not do

No persistence, no networking, no dynamic component registration once a
scheduler has started running, no cross-process parallelism. The entity
allocator (EntityAllocator) is a collaborator the World and Scheduler never
use; any Joinable can stand in for it in a Join. Component storage has a
narrow contract (ComponentStorage[C]), but RegisterComponent always
installs a VecStorage[C]: a World holds no other storage backend.
*/
package ecs
