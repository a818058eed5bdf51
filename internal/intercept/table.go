package intercept

import (
	"runtime"
	"sync"
	"weak"

	"github.com/roach88/vvalues/internal/value"
)

// record is the immutable association for one wrapper.
type record struct {
	handler Handler
	key     any
	target  value.Value
	caps    Capabilities
}

type slot struct {
	gen uint32
	ref weak.Pointer[value.Ref]
	rec *record
}

type slotID struct {
	index uint32
	gen   uint32
}

// table is a generational arena keyed by value.Ref.
//
// A slot never holds its Ref strongly. Records must not reference their own
// wrapper either, or the wrapper can never be reclaimed. The same holds
// across records: two records whose targets or handlers reach each other's
// wrappers stay live until one is released.
//
// The mutex guards against cleanups, which the runtime runs on its own
// goroutine. Dispatch itself is single-goroutine.
type table struct {
	mu          sync.Mutex
	slots       []slot // index 0 is never issued
	free        []uint32
	live        int
	autoReclaim bool
}

func newTable(autoReclaim bool) *table {
	return &table{slots: make([]slot, 1), autoReclaim: autoReclaim}
}

func (t *table) insert(rec *record) *value.Ref {
	t.mu.Lock()
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		index = uint32(len(t.slots) - 1)
	}
	s := &t.slots[index]
	s.gen++
	ref := value.NewRef(index, s.gen)
	s.ref = weak.Make(ref)
	s.rec = rec
	t.live++
	t.mu.Unlock()

	if t.autoReclaim {
		runtime.AddCleanup(ref, t.reclaim, slotID{index: index, gen: ref.Gen()})
	}
	return ref
}

// lookup resolves a wrapper to its record. Forged or stale refs miss.
func (t *table) lookup(v value.Value) (*record, bool) {
	ref := v.Ref()
	if ref == nil {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.resolve(ref)
	if !ok {
		return nil, false
	}
	return s.rec, true
}

// resolve must be called with mu held.
func (t *table) resolve(ref *value.Ref) (*slot, bool) {
	index := ref.Slot()
	if index == 0 || int(index) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[index]
	if s.rec == nil || s.gen != ref.Gen() || s.ref.Value() != ref {
		return nil, false
	}
	return s, true
}

func (t *table) release(ref *value.Ref) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.resolve(ref); !ok {
		return false
	}
	t.clear(ref.Slot())
	return true
}

func (t *table) reclaim(id slotID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id.index) >= len(t.slots) {
		return
	}
	s := &t.slots[id.index]
	if s.rec == nil || s.gen != id.gen {
		return
	}
	t.clear(id.index)
}

// clear must be called with mu held.
func (t *table) clear(index uint32) {
	s := &t.slots[index]
	s.rec = nil
	s.ref = weak.Pointer[value.Ref]{}
	t.free = append(t.free, index)
	t.live--
}

func (t *table) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}
