package main

import (
	"fmt"
	"time"

	"github.com/parallex/ecsrt/pkg/ecs"
)

// defaultTickInterval paces the background tick loop started by `serve`.
const defaultTickInterval = 250 * time.Millisecond

// Position and Velocity are the demo's components: a handful of entities
// moving by their velocity, whose Y component is damped every tick.
// TickCount is a resource tickCounterSystem updates through WriteRes, and
// DampingFactor is a resource gravitySystem reads through ReadRes.
type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type TickCount uint64
type DampingFactor float64

// movementSystem advances Position by Velocity for every entity that has
// both, using Join2 to walk the two storages in lock-step.
type movementSystem struct{}

func (movementSystem) DepSet(w *ecs.World) ecs.DepSet {
	return ecs.ReadComp[Velocity]{}.DepSet(w).Union(ecs.WriteComp[Position]{}.DepSet(w))
}

func (movementSystem) Run(w *ecs.World) {
	vel := ecs.ReadComp[Velocity]{}.Bind(w)
	pos := ecs.WriteComp[Position]{}.Bind(w)
	defer vel.Release()
	defer pos.Release()

	it := ecs.Join2[Velocity, Position](vel, pos)
	for {
		i, v, p, ok := it.Next()
		if !ok {
			break
		}
		pos.Set(i, Position{X: p.X + v.X, Y: p.Y + v.Y})
	}
}

// gravitySystem damps every velocity's Y component by DampingFactor. Its
// write to Velocity conflicts with movementSystem's read of Velocity, so
// the conflict gate keeps the two from overlapping, but it does not pick
// which runs first; the demo adds a predecessor edge to fix that order.
type gravitySystem struct{}

func (gravitySystem) DepSet(w *ecs.World) ecs.DepSet {
	return ecs.ReadRes[DampingFactor]{}.DepSet(w).Union(ecs.WriteComp[Velocity]{}.DepSet(w))
}

func (gravitySystem) Run(w *ecs.World) {
	damping := ecs.ReadRes[DampingFactor]{}.Bind(w)
	vel := ecs.WriteComp[Velocity]{}.Bind(w)
	defer damping.Release()
	defer vel.Release()

	d := float64(damping.Get())
	for i := 0; i < vel.Len(); i++ {
		if v, ok := vel.Get(i); ok {
			vel.Set(i, Velocity{X: v.X, Y: v.Y * d})
		}
	}
}

// tickCounterSystem increments TickCount once per tick. It has no
// component access, so it never conflicts with movementSystem or
// gravitySystem and runs alongside them.
type tickCounterSystem struct{}

func (tickCounterSystem) DepSet(w *ecs.World) ecs.DepSet {
	return ecs.WriteRes[TickCount]{}.DepSet(w)
}

func (tickCounterSystem) Run(w *ecs.World) {
	c := ecs.WriteRes[TickCount]{}.Bind(w)
	defer c.Release()
	c.Set(c.Get() + 1)
}

// buildDemoWorld seeds a World with n moving entities and returns it
// alongside a Scheduler wired with the three demo systems. gravitySystem
// is declared as a predecessor of movementSystem so velocity damping is
// always visible to the same tick's movement, not just the next one.
func buildDemoWorld(workers, entities int) (*ecs.World, *ecs.Scheduler, *ecs.EntityAllocator) {
	w := ecs.NewWorld()
	ecs.RegisterComponent[Position](w)
	ecs.RegisterComponent[Velocity](w)
	ecs.Insert[TickCount](w, 0)
	ecs.Insert[DampingFactor](w, 0.98)

	entityAlloc := ecs.NewEntityAllocator()
	pos := ecs.WriteComp[Position]{}.Bind(w)
	vel := ecs.WriteComp[Velocity]{}.Bind(w)
	for i := 0; i < entities; i++ {
		e := entityAlloc.CreateEntity()
		pos.Set(int(e.Index), Position{X: float64(i), Y: 0})
		vel.Set(int(e.Index), Velocity{X: 0.5, Y: 1.0})
	}
	pos.Release()
	vel.Release()

	sched := ecs.NewScheduler(workers)
	sched.Add(gravitySystem{}, "gravity", nil)
	sched.Add(movementSystem{}, "movement", []string{"gravity"})
	sched.Add(tickCounterSystem{}, "tick-counter", nil)

	return w, sched, entityAlloc
}

// printWorldState dumps every live entity's Position and Velocity.
func printWorldState(w *ecs.World, alloc *ecs.EntityAllocator) {
	pos := ecs.ReadComp[Position]{}.Bind(w)
	vel := ecs.ReadComp[Velocity]{}.Bind(w)
	tick := ecs.ReadRes[TickCount]{}.Bind(w)
	defer pos.Release()
	defer vel.Release()
	defer tick.Release()

	fmt.Printf("tick=%d\n", tick.Get())
	it := ecs.Join(alloc, pos, vel)
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		p, _ := pos.Get(i)
		v, _ := vel.Get(i)
		fmt.Printf("  entity[%d] pos=(%.2f, %.2f) vel=(%.2f, %.2f)\n", i, p.X, p.Y, v.X, v.Y)
	}
}

// tickLoop runs sched against w on a fixed interval until stop is closed.
func tickLoop(w *ecs.World, sched *ecs.Scheduler, interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sched.Run(w)
		}
	}
}
