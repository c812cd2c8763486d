package rules

// State is the evaluation state of a single achievement trigger.
type State uint8

const (
	// StateWaiting: the trigger must be seen false once before it can fire.
	StateWaiting State = iota
	StateActive
	StatePaused
	StatePrimed
	StateTriggered
)

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StatePrimed:
		return "primed"
	case StateTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// trigger is a parsed condition expression: a core group plus zero or more
// alternate groups, at least one of which must hold.
type trigger struct {
	core *condset
	alts []*condset

	state      State
	hadHits    bool
	hasTrigger bool // any condition carries the Trigger flag

	hasMeasured    bool
	measuredTarget uint32
	lastMeasured   uint32
}

type result struct {
	isTrue bool
	primed bool
	paused bool
	reset  bool
	evalState
}

func (t *trigger) test() result {
	var r result
	coreTrue, corePrimed, corePaused := t.core.evaluate(&r.evalState)
	if corePaused {
		r.paused = true
		return r
	}

	altTrue, altPrimed := true, true
	if len(t.alts) > 0 {
		altTrue, altPrimed = false, false
		allPaused := true
		// Every alternate is evaluated so hit counts advance in all of them
		for _, alt := range t.alts {
			ok, primed, paused := alt.evaluate(&r.evalState)
			if paused {
				continue
			}
			allPaused = false
			altTrue = altTrue || ok
			altPrimed = altPrimed || primed
		}
		if allPaused {
			r.paused = true
			return r
		}
	}

	r.reset = r.evalState.reset
	r.isTrue = coreTrue && altTrue && !r.reset
	r.primed = corePrimed && altPrimed && !r.reset
	return r
}

func (t *trigger) resetHits() {
	t.core.resetHits()
	for _, alt := range t.alts {
		alt.resetHits()
	}
	t.hadHits = false
}

func (t *trigger) hasHits() bool {
	if t.core.hasHits() {
		return true
	}
	for _, alt := range t.alts {
		if alt.hasHits() {
			return true
		}
	}
	return false
}

// step evaluates the trigger for one frame and appends any resulting
// events for id to events.
func (t *trigger) step(id uint32, events []Event) []Event {
	if t.state == StateTriggered {
		return events
	}

	prev := t.state
	r := t.test()

	if r.reset {
		hadHits := t.hadHits
		t.resetHits()
		if prev == StateWaiting {
			return events
		}
		if prev == StatePrimed {
			t.state = StateActive
		}
		if hadHits {
			events = append(events, Reset{ID: id})
		}
		return events
	}

	if r.isTrue {
		if prev == StateWaiting {
			// True from the outset; it has to go false before it may fire
			t.resetHits()
			return events
		}
		t.state = StateTriggered
		return append(events, Triggered{ID: id})
	}

	t.hadHits = t.hasHits()

	if prev == StateWaiting {
		t.state = StateActive
		return append(events, Activated{ID: id})
	}

	next := StateActive
	switch {
	case r.paused:
		next = StatePaused
	case r.primed && t.hasTrigger:
		next = StatePrimed
	}

	if next != prev {
		t.state = next
		switch next {
		case StatePaused:
			events = append(events, Paused{ID: id})
		case StatePrimed:
			events = append(events, Primed{ID: id})
		case StateActive:
			if prev == StatePaused {
				events = append(events, Activated{ID: id})
			}
		}
	}

	if t.hasMeasured && !r.paused && r.hasMeasured && r.measured != t.lastMeasured {
		t.lastMeasured = r.measured
		events = append(events, ProgressUpdated{ID: id, Value: r.measured, Target: t.measuredTarget})
	}

	return events
}

// restart returns the trigger to its initial waiting state.
func (t *trigger) restart() {
	t.resetHits()
	t.state = StateWaiting
	t.lastMeasured = 0
	t.core.paused = false
	for _, alt := range t.alts {
		alt.paused = false
	}
}
