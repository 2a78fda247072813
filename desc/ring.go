package desc

// Descriptor is the minimal capability the generic Ring needs from its
// element type: enough to answer ownership-scanning queries
// (dma.Engine.RxFramesWaiting and friends) without the ring itself knowing
// whether it holds Rx or Tx descriptors.
type Descriptor interface {
	IsOwned() bool
}

// Ring is a generic circular buffer of N descriptors with a CPU cursor.
// D is a concrete descriptor type (*Rx or *Tx) satisfying Descriptor;
// using a type parameter instead of an interface value keeps descriptor
// access monomorphized with no per-call vtable indirection.
type Ring[D Descriptor] struct {
	entries []D
	cursor  int
}

// NewRing wraps a caller-owned, already-allocated slice of N descriptors.
// The slice's backing array must be static storage for the lifetime of the
// ring; Ring never allocates.
func NewRing[D Descriptor](entries []D) *Ring[D] {
	if len(entries) < 1 {
		panic("desc: ring must hold at least one descriptor")
	}

	return &Ring[D]{entries: entries}
}

// Len returns the ring size N.
func (r *Ring[D]) Len() int { return len(r.entries) }

// Current returns the descriptor at the cursor.
func (r *Ring[D]) Current() D { return r.entries[r.cursor] }

// AtOffset returns the descriptor k positions ahead of the cursor, modulo N.
func (r *Ring[D]) AtOffset(k int) D {
	n := len(r.entries)
	idx := ((r.cursor+k)%n + n) % n
	return r.entries[idx]
}

// Advance moves the cursor to the next descriptor. On a single-element ring
// (N==1) this is a no-op.
func (r *Ring[D]) Advance() { r.AdvanceBy(1) }

// AdvanceBy moves the cursor forward by k positions, modulo N.
func (r *Ring[D]) AdvanceBy(k int) {
	n := len(r.entries)
	if n == 1 {
		return
	}
	r.cursor = ((r.cursor+k)%n + n) % n
}

// Reset returns the cursor to position 0.
func (r *Ring[D]) Reset() { r.cursor = 0 }

// Entries returns the ring's backing descriptor slice in index order, so
// callers (the DMA engine) can reach a descriptor by index, e.g. entry 0 to
// program the descriptor-list-address register.
func (r *Ring[D]) Entries() []D { return r.entries }

// Iter calls fn for each descriptor in ring order, starting at index 0 (not
// the cursor).
func (r *Ring[D]) Iter(fn func(index int, d D)) {
	for i, d := range r.entries {
		fn(i, d)
	}
}
