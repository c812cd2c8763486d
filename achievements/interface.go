package achievements

import "github.com/user-none/eblitui/cheevos/rules"

// Evaluator defines the interface for the condition evaluation runtime.
// This matches *rules.Runtime, decoupling the session from the concrete
// runtime so hosts and tests can supply their own.
type Evaluator interface {
	Activate(id uint32, memaddr string) error
	Deactivate(id uint32)
	DoFrame(peek rules.PeekFunc) []rules.Event
	Reset()
	Close()
}

var _ Evaluator = (*rules.Runtime)(nil)

func newRuntime() Evaluator {
	return rules.NewRuntime()
}
