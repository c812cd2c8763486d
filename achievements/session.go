// Package achievements drives achievement evaluation for a running game.
//
// A Session registers condition definitions with an evaluation runtime,
// steps the runtime once per emulated frame against the core's memory, and
// queues each unlock for the host thread. Every achievement unlocks at most
// once per session.
package achievements

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	emucore "github.com/user-none/eblitui/cheevos/api"
	"github.com/user-none/eblitui/cheevos/memory"
	"github.com/user-none/eblitui/cheevos/rules"
)

// frameLogInterval is how many frames pass between frame log lines.
const frameLogInterval = 3600

// ErrDuplicateID is reported for a definition whose id was already
// registered by the same Init call.
var ErrDuplicateID = errors.New("duplicate achievement id")

// Definition is a single achievement condition to evaluate.
type Definition struct {
	ID      uint32
	MemAddr string
}

// Failure records a definition that could not be registered.
type Failure struct {
	ID  uint32
	Err error
}

// InitResult summarizes an Init call.
type InitResult struct {
	Activated int
	Failures  []Failure
}

// Progress is the number of achievements unlocked out of those registered.
type Progress struct {
	Earned int
	Total  int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The memory adapter logs through it too.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// WithEvaluator replaces the runtime constructor. It is called once per Init.
func WithEvaluator(fn func() Evaluator) Option {
	return func(s *Session) {
		s.newEvaluator = fn
	}
}

// WithMetrics enables or disables prometheus recording. Enabled by default.
func WithMetrics(enabled bool) Option {
	return func(s *Session) {
		s.metrics = enabled
	}
}

// Session owns the evaluation runtime and memory adapter for one game.
//
// Init, InitMemory, EvaluateFrame, Reset and Clear belong to the emulation
// thread. HandleUnlocks, IsActive, Progress and Frames may be called from
// any thread.
type Session struct {
	log          zerolog.Logger
	frameLog     zerolog.Logger
	newEvaluator func() Evaluator
	metrics      bool

	adapter *memory.Adapter
	peek    rules.PeekFunc
	queue   UnlockQueue

	eval      Evaluator
	id        string
	started   bool
	triggered []uint32            // ids triggered during the current frame
	unlocked  map[uint32]struct{} // ids unlocked this session

	active atomic.Bool
	frames atomic.Uint64
	earned atomic.Int64
	total  atomic.Int64
}

// NewSession creates an uninitialized session reading memory through
// accessor.
func NewSession(accessor emucore.MemoryAccessor, opts ...Option) *Session {
	s := &Session{
		log:          log.Logger.With().Str("component", "achievements").Logger(),
		newEvaluator: newRuntime,
		metrics:      true,
		unlocked:     make(map[uint32]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adapter = memory.NewAdapter(accessor, s.log)
	s.peek = s.adapter.Read
	s.frameLog = s.log.Sample(&zerolog.BasicSampler{N: frameLogInterval})
	return s
}

// Init registers defs with a fresh runtime, discarding any previous
// evaluation state. Definitions that fail to register are skipped. The
// session becomes active when at least one registration succeeds. The
// memory mapping set by InitMemory is kept.
func (s *Session) Init(defs []Definition) InitResult {
	s.reset()
	s.id = uuid.New().String()

	var res InitResult
	if len(defs) == 0 {
		s.log.Debug().Str("session", s.id).Msg("No achievements to initialize")
		return res
	}

	s.eval = s.newEvaluator()
	registered := make(map[uint32]struct{}, len(defs))
	for _, def := range defs {
		err := ErrDuplicateID
		if _, dup := registered[def.ID]; !dup {
			err = s.eval.Activate(def.ID, def.MemAddr)
		}
		if s.metrics {
			RecordRegistration(err == nil)
		}
		if err != nil {
			s.log.Warn().Err(err).Uint32("achievement", def.ID).Msg("Failed to activate achievement")
			res.Failures = append(res.Failures, Failure{ID: def.ID, Err: err})
			continue
		}
		registered[def.ID] = struct{}{}
		res.Activated++
	}

	s.total.Store(int64(res.Activated))
	s.active.Store(res.Activated > 0)
	s.log.Info().
		Str("session", s.id).
		Int("activated", res.Activated).
		Int("requested", len(defs)).
		Msg("Achievements initialized")
	return res
}

// InitMemory builds the memory mapping for consoleID. An empty descriptor
// list selects the console's default layout. On error the session keeps
// evaluating against raw system RAM.
func (s *Session) InitMemory(consoleID uint32, descriptors []emucore.RegionDescriptor) error {
	return s.adapter.InitRegions(consoleID, descriptors)
}

// EvaluateFrame steps the runtime once. It does nothing unless the session
// is active. Achievements that trigger are queued for HandleUnlocks and
// deactivated so they cannot trigger again.
func (s *Session) EvaluateFrame() {
	if !s.active.Load() {
		return
	}
	if !s.started {
		s.started = true
		s.log.Info().
			Str("session", s.id).
			Bool("mapped", s.adapter.IsMapped()).
			Msg("Achievement evaluation started")
	}

	s.triggered = s.triggered[:0]
	for _, ev := range s.eval.DoFrame(s.peek) {
		if s.metrics {
			RecordEvent(rules.EventName(ev))
		}
		switch e := ev.(type) {
		case rules.Triggered:
			s.trigger(e.ID)
		case rules.ProgressUpdated:
			s.log.Debug().
				Uint32("achievement", e.ID).
				Uint32("value", e.Value).
				Uint32("target", e.Target).
				Msg("Achievement progress updated")
		default:
			s.log.Debug().
				Uint32("achievement", ev.AchievementID()).
				Str("event", rules.EventName(ev)).
				Msg("Achievement state changed")
		}
	}

	for _, id := range s.triggered {
		s.eval.Deactivate(id)
	}

	n := s.frames.Add(1)
	if s.metrics {
		RecordFrame()
	}
	s.frameLog.Debug().
		Uint64("frames", n).
		Bool("mapped", s.adapter.IsMapped()).
		Msg("Achievement evaluation")
}

func (s *Session) trigger(id uint32) {
	s.triggered = append(s.triggered, id)
	if _, ok := s.unlocked[id]; ok {
		return
	}
	s.unlocked[id] = struct{}{}
	s.earned.Add(1)
	s.queue.Enqueue(id)
	if s.metrics {
		RecordUnlockQueued()
	}
	s.log.Info().Uint32("achievement", id).Msg("Achievement triggered")
}

// HandleUnlocks delivers queued unlocks to handler in unlock order and
// returns how many were delivered. handler must not call back into the
// session.
func (s *Session) HandleUnlocks(handler func(id uint32)) int {
	n := s.queue.Drain(handler)
	if n > 0 && s.metrics {
		RecordUnlocksDelivered(n)
	}
	return n
}

// Reset restarts evaluation of the remaining achievements, as after a
// console reset. Achievements already unlocked stay unlocked.
func (s *Session) Reset() {
	if s.eval != nil {
		s.eval.Reset()
	}
}

// Clear releases the runtime and the memory mapping, discards undelivered
// unlocks and returns the session to its uninitialized state. It is safe to
// call at any time.
func (s *Session) Clear() {
	s.reset()
	s.adapter.Destroy()
	s.id = ""
	s.log.Debug().Msg("Achievements cleared")
}

func (s *Session) reset() {
	s.active.Store(false)
	if s.eval != nil {
		s.eval.Close()
		s.eval = nil
	}
	if n := s.queue.Discard(); n > 0 {
		s.log.Debug().Int("discarded", n).Msg("Discarded undelivered unlocks")
	}
	s.triggered = s.triggered[:0]
	clear(s.unlocked)
	s.started = false
	s.frames.Store(0)
	s.earned.Store(0)
	s.total.Store(0)
	s.frameLog = s.log.Sample(&zerolog.BasicSampler{N: frameLogInterval})
}

// IsActive reports whether at least one achievement is being evaluated.
func (s *Session) IsActive() bool {
	return s.active.Load()
}

// ID returns the identifier of the current Init, or "" when uninitialized.
func (s *Session) ID() string {
	return s.id
}

// Progress returns the unlocked and registered achievement counts.
func (s *Session) Progress() Progress {
	return Progress{
		Earned: int(s.earned.Load()),
		Total:  int(s.total.Load()),
	}
}

// Frames returns the number of frames evaluated since Init.
func (s *Session) Frames() uint64 {
	return s.frames.Load()
}

// Memory returns the session's memory adapter.
func (s *Session) Memory() *memory.Adapter {
	return s.adapter
}
