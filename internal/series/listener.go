package series

// listenerSet is an ordered registry of zero-argument change listeners.
//
// Listeners fire synchronously in registration order. Removal is O(1):
// the slot is nilled out via an id index rather than spliced, which also
// makes it safe to unsubscribe (or subscribe) from inside a listener
// while a dispatch is in flight. Dead slots are compacted once they
// outnumber live ones.
type listenerSet struct {
	entries []func()
	index   map[int]int // id -> slot
	nextID  int
	dead    int
}

func (ls *listenerSet) add(fn func()) (unsubscribe func()) {
	if ls.index == nil {
		ls.index = make(map[int]int)
	}
	id := ls.nextID
	ls.nextID++
	ls.index[id] = len(ls.entries)
	ls.entries = append(ls.entries, fn)

	return func() {
		slot, ok := ls.index[id]
		if !ok {
			return
		}
		delete(ls.index, id)
		ls.entries[slot] = nil
		ls.dead++
	}
}

func (ls *listenerSet) dispatch() {
	// Snapshot the length: listeners added during dispatch run on the
	// next notification, not this one.
	n := len(ls.entries)
	for i := 0; i < n; i++ {
		if fn := ls.entries[i]; fn != nil {
			fn()
		}
	}
	if ls.dead > len(ls.entries)-ls.dead {
		ls.compact()
	}
}

func (ls *listenerSet) compact() {
	idBySlot := make(map[int]int, len(ls.index)) // old slot -> id
	for id, slot := range ls.index {
		idBySlot[slot] = id
	}
	live := make([]func(), 0, len(ls.index))
	newIndex := make(map[int]int, len(ls.index))
	for old, fn := range ls.entries {
		if fn == nil {
			continue
		}
		newIndex[idBySlot[old]] = len(live)
		live = append(live, fn)
	}
	ls.entries = live
	ls.index = newIndex
	ls.dead = 0
}
