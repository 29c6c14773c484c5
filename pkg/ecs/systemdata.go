package ecs

// Binding is the minimal contract every system-data primitive and every
// tuple composed from them satisfies: it can describe its access given a
// world, and it can be released once a system is done with it. Bind is not
// part of this interface because Go methods cannot introduce new type
// parameters; each primitive exposes its own Bind(world) returning its own
// concrete type instead (see ReadRes.Bind and friends below).
type Binding interface {
	DepSet(w *World) DepSet
	Release()
}

// ReadRes is a bound, shared-read handle on resource type R. Its zero
// value is a descriptor: DepSet can be computed from it without binding.
type ReadRes[R any] struct {
	slot  *resSlot
	value R
}

// Bind acquires a read lock on R's slot and returns a populated ReadRes.
func (ReadRes[R]) Bind(w *World) ReadRes[R] {
	slot := resourceSlot[R](w)
	slot.mu.RLock()
	return ReadRes[R]{slot: slot, value: slot.value.(R)}
}

// DepSet returns the single-bit resource-read descriptor for R.
func (ReadRes[R]) DepSet(w *World) DepSet {
	return depSetResRead(resourceIndex[R](w))
}

// Get returns the bound value.
func (b ReadRes[R]) Get() R { return b.value }

// Release releases the read lock acquired by Bind.
func (b ReadRes[R]) Release() { b.slot.mu.RUnlock() }

// WriteRes is a bound, exclusive handle on resource type R.
type WriteRes[R any] struct {
	slot *resSlot
}

// Bind acquires a write lock on R's slot.
func (WriteRes[R]) Bind(w *World) WriteRes[R] {
	slot := resourceSlot[R](w)
	slot.mu.Lock()
	return WriteRes[R]{slot: slot}
}

// DepSet returns the single-bit resource-write descriptor for R.
func (WriteRes[R]) DepSet(w *World) DepSet {
	return depSetResWrite(resourceIndex[R](w))
}

// Get returns the current value.
func (b WriteRes[R]) Get() R { return b.slot.value.(R) }

// Set replaces the value.
func (b WriteRes[R]) Set(v R) { b.slot.value = v }

// Release releases the write lock acquired by Bind.
func (b WriteRes[R]) Release() { b.slot.mu.Unlock() }

// ReadComp is a bound, shared-read handle on component type C's storage.
// It satisfies Accessor[C], so it can be passed directly to Join/Join2/etc.
type ReadComp[C any] struct {
	slot    *compSlot
	storage ComponentStorage[C]
}

// Bind acquires a read lock on C's storage slot.
func (ReadComp[C]) Bind(w *World) ReadComp[C] {
	slot := componentSlot[C](w)
	slot.mu.RLock()
	return ReadComp[C]{slot: slot, storage: slot.storage.(ComponentStorage[C])}
}

// DepSet returns the single-bit component-read descriptor for C.
func (ReadComp[C]) DepSet(w *World) DepSet {
	return depSetCompRead(componentIndex[C](w))
}

// Get returns the value at i, if valid.
func (b ReadComp[C]) Get(i int) (C, bool) { return b.storage.Get(i) }

// Len returns the storage's high-water mark.
func (b ReadComp[C]) Len() int { return b.storage.Len() }

// Valid reports whether i is currently set.
func (b ReadComp[C]) Valid(i int) bool { return b.storage.Valid(i) }

// Release releases the read lock acquired by Bind.
func (b ReadComp[C]) Release() { b.slot.mu.RUnlock() }

// WriteComp is a bound, exclusive handle on component type C's storage. It
// carries Set/Delete/GetMut directly, so a system can mutate through the
// already-bound handle without a second lookup against the storage.
type WriteComp[C any] struct {
	slot    *compSlot
	storage ComponentStorage[C]
}

// Bind acquires a write lock on C's storage slot.
func (WriteComp[C]) Bind(w *World) WriteComp[C] {
	slot := componentSlot[C](w)
	slot.mu.Lock()
	return WriteComp[C]{slot: slot, storage: slot.storage.(ComponentStorage[C])}
}

// DepSet returns the single-bit component-write descriptor for C.
func (WriteComp[C]) DepSet(w *World) DepSet {
	return depSetCompWrite(componentIndex[C](w))
}

// Get returns the value at i, if valid.
func (b WriteComp[C]) Get(i int) (C, bool) { return b.storage.Get(i) }

// GetMut returns a pointer to the value at i, if valid.
func (b WriteComp[C]) GetMut(i int) (*C, bool) { return b.storage.GetMut(i) }

// Set writes value at i, marking it valid.
func (b WriteComp[C]) Set(i int, value C) { b.storage.Set(i, value) }

// Delete clears i's validity.
func (b WriteComp[C]) Delete(i int) { b.storage.Delete(i) }

// Len returns the storage's high-water mark.
func (b WriteComp[C]) Len() int { return b.storage.Len() }

// Valid reports whether i is currently set.
func (b WriteComp[C]) Valid(i int) bool { return b.storage.Valid(i) }

// Release releases the write lock acquired by Bind.
func (b WriteComp[C]) Release() { b.slot.mu.Unlock() }
