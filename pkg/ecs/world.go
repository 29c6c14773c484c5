package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/parallex/ecsrt/pkg/metrics"
)

// World is the type-keyed registry of resources and component storages.
// Every resource type and every component type gets a dense index the
// first time it is registered; that index never changes afterwards and is
// what DepSet bitsets refer to. The registry itself (which types exist) is
// guarded by a short-lived mutex; the value behind each slot has its own
// reader/writer lock acquired by the binding primitives in systemdata.go.
type World struct {
	mu         sync.Mutex
	resources  map[reflect.Type]*resSlot
	resOrder   []reflect.Type
	components map[reflect.Type]*compSlot
	compOrder  []reflect.Type
}

type resSlot struct {
	mu    sync.RWMutex
	value any
	index int
}

type compSlot struct {
	mu      sync.RWMutex
	storage any
	index   int
}

// NewWorld returns an empty World.
func NewWorld() *World {
	return &World{
		resources:  make(map[reflect.Type]*resSlot),
		components: make(map[reflect.Type]*compSlot),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert registers resource type R with a fresh dense index and stores
// value. It panics if R is already registered; re-registration is a
// programmer error, not a recoverable condition (see §7 of the runtime's
// error taxonomy).
func Insert[R any](w *World, value R) {
	t := typeOf[R]()
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.resources[t]; exists {
		panic(fmt.Sprintf("ecs: resource %s already registered", t))
	}
	idx := len(w.resOrder)
	w.resOrder = append(w.resOrder, t)
	w.resources[t] = &resSlot{value: value, index: idx}
	metrics.ResourcesRegistered.Set(float64(len(w.resOrder)))
}

// RegisterComponent installs a fresh, empty VecStorage[C] with a new dense
// index. It panics if C is already registered.
func RegisterComponent[C any](w *World) {
	t := typeOf[C]()
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.components[t]; exists {
		panic(fmt.Sprintf("ecs: component %s already registered", t))
	}
	idx := len(w.compOrder)
	w.compOrder = append(w.compOrder, t)
	w.components[t] = &compSlot{storage: ComponentStorage[C](NewVecStorage[C]()), index: idx}
	metrics.ComponentsRegistered.Set(float64(len(w.compOrder)))
}

func resourceSlot[R any](w *World) *resSlot {
	t := typeOf[R]()
	w.mu.Lock()
	slot, ok := w.resources[t]
	w.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("ecs: resource %s not registered", t))
	}
	return slot
}

func componentSlot[C any](w *World) *compSlot {
	t := typeOf[C]()
	w.mu.Lock()
	slot, ok := w.components[t]
	w.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("ecs: component %s not registered", t))
	}
	return slot
}

// resourceIndex returns R's dense index without acquiring its value lock;
// used by DepSet() methods, which only need to name the bit, not read the
// value.
func resourceIndex[R any](w *World) int {
	return resourceSlot[R](w).index
}

func componentIndex[C any](w *World) int {
	return componentSlot[C](w).index
}

// ResourceCount returns the number of registered resource types. Exposed
// for pkg/debugserver's introspection endpoint.
func (w *World) ResourceCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.resOrder)
}

// ComponentCount returns the number of registered component types.
func (w *World) ComponentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.compOrder)
}

// ResourceNames returns the registered resource type names in registration
// (dense-index) order.
func (w *World) ResourceNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, len(w.resOrder))
	for i, t := range w.resOrder {
		names[i] = t.String()
	}
	return names
}

// ComponentNames returns the registered component type names in
// registration (dense-index) order.
func (w *World) ComponentNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, len(w.compOrder))
	for i, t := range w.compOrder {
		names[i] = t.String()
	}
	return names
}
