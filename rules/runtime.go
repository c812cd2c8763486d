// Package rules evaluates achievement condition expressions against emulated
// memory.
//
// Expressions use the RetroAchievements MemAddr syntax: conditions such as
// "0xH0010=5" joined by "_", with optional alternate groups introduced by
// "S". A Runtime holds any number of activated expressions and advances all
// of them by one frame per DoFrame call, reading memory through a PeekFunc
// and reporting state changes as Events.
package rules

// Runtime evaluates a set of activated achievements. It is not safe for
// concurrent use.
type Runtime struct {
	entries []*entry
	index   map[uint32]*entry

	memrefs  []*memref
	refIndex map[memrefKey]*memref

	events []Event
}

type entry struct {
	id   uint32
	expr string
	trig *trigger
}

// NewRuntime returns an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		index:    make(map[uint32]*entry),
		refIndex: make(map[memrefKey]*memref),
	}
}

// Activate parses expr and starts evaluating it as achievement id. An
// already active id is replaced. On error the runtime is unchanged and the
// returned error is a *ParseError.
func (r *Runtime) Activate(id uint32, expr string) error {
	var pending []*memref
	lookup := func(k memrefKey) *memref {
		if m, ok := r.refIndex[k]; ok {
			return m
		}
		for _, m := range pending {
			if m.memrefKey == k {
				return m
			}
		}
		m := &memref{memrefKey: k}
		pending = append(pending, m)
		return m
	}

	t, err := parse(expr, lookup)
	if err != nil {
		return err
	}

	for _, m := range pending {
		r.refIndex[m.memrefKey] = m
		r.memrefs = append(r.memrefs, m)
	}

	if e, ok := r.index[id]; ok {
		e.expr, e.trig = expr, t
		return nil
	}
	e := &entry{id: id, expr: expr, trig: t}
	r.entries = append(r.entries, e)
	r.index[id] = e
	return nil
}

// Deactivate stops evaluating id. Unknown ids are ignored.
func (r *Runtime) Deactivate(id uint32) {
	if _, ok := r.index[id]; !ok {
		return
	}
	delete(r.index, id)
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
}

// DoFrame refreshes every memory reference through peek and advances each
// active achievement by one frame. The returned slice is reused by the next
// call.
func (r *Runtime) DoFrame(peek PeekFunc) []Event {
	r.events = r.events[:0]
	for _, m := range r.memrefs {
		m.update(peek)
	}
	for _, e := range r.entries {
		r.events = e.trig.step(e.id, r.events)
	}
	return r.events
}

// Reset returns every active achievement to the waiting state and clears
// the memory history used for delta and prior values.
func (r *Runtime) Reset() {
	for _, e := range r.entries {
		e.trig.restart()
	}
	for _, m := range r.memrefs {
		m.reset()
	}
}

// Close deactivates everything and releases all memory references.
func (r *Runtime) Close() {
	r.entries = nil
	r.memrefs = nil
	r.events = nil
	clear(r.index)
	clear(r.refIndex)
}

// State returns the evaluation state of id.
func (r *Runtime) State(id uint32) (State, bool) {
	e, ok := r.index[id]
	if !ok {
		return StateWaiting, false
	}
	return e.trig.state, true
}

// Count returns the number of active achievements.
func (r *Runtime) Count() int {
	return len(r.entries)
}
