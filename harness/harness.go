// Package harness checks the condition runtime and memory adapter end to end
// against synthetic memory.
//
// Every case runs in isolation: fresh memory, a fresh runtime and a single
// registered condition. The case's setup writes are applied, the runtime is
// stepped a few frames so delta and prior values settle, the trigger writes
// are applied, and one more frame decides whether the condition fired.
package harness

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/user-none/eblitui/cheevos/memory"
	"github.com/user-none/eblitui/cheevos/rules"
)

// DefaultFrames is how many frames run between the setup and trigger writes.
const DefaultFrames = 5

// caseID is the achievement id each case registers its condition under.
const caseID = 1

// Mode selects how the runtime reads the synthetic memory.
type Mode string

const (
	// ModeDirect reads the memory double directly.
	ModeDirect Mode = "direct"
	// ModeRaw reads through a memory adapter in raw system RAM mode.
	ModeRaw Mode = "raw"
	// ModeMapped reads through a memory adapter with the memory split into
	// two mapped regions.
	ModeMapped Mode = "mapped"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeDirect, ModeRaw, ModeMapped}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want direct, raw or mapped)", s)
}

// Mutation changes memory as part of a case.
type Mutation func(m *Memory)

// Case is a single conformance check.
type Case struct {
	Name          string
	MemAddr       string
	Setup         Mutation
	Trigger       Mutation
	ExpectTrigger bool
}

// Result is the outcome of one case.
type Result struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Triggered bool   `json:"triggered"`
	Details   string `json:"details"`
}

// Tester runs cases. The zero value runs DefaultFrames settle frames on
// DefaultMemorySize bytes in ModeRaw and does not log.
type Tester struct {
	Frames     int
	MemorySize int
	Mode       Mode
	Logger     *zerolog.Logger
}

func (t *Tester) logger() zerolog.Logger {
	if t.Logger == nil {
		return zerolog.Nop()
	}
	return *t.Logger
}

func (t *Tester) frames() int {
	if t.Frames <= 0 {
		return DefaultFrames
	}
	return t.Frames
}

func (t *Tester) memorySize() int {
	if t.MemorySize <= 0 {
		return DefaultMemorySize
	}
	return t.MemorySize
}

func (t *Tester) mode() Mode {
	if t.Mode == "" {
		return ModeRaw
	}
	return t.Mode
}

// peekFunc returns the read callback for mem in the tester's mode.
func (t *Tester) peekFunc(mem *Memory) (rules.PeekFunc, error) {
	switch t.mode() {
	case ModeDirect:
		return mem.Peek, nil
	case ModeRaw:
		return memory.NewAdapter(mem, t.logger()).Read, nil
	case ModeMapped:
		split := splitMemory{mem: mem, split: mem.Size() / 2}
		a := memory.NewAdapter(split, t.logger())
		if err := a.InitRegions(0, split.descriptors()); err != nil {
			return nil, err
		}
		return a.Read, nil
	}
	return nil, fmt.Errorf("unknown mode %q", t.Mode)
}

// Run executes c and reports whether its outcome matched ExpectTrigger.
func (t *Tester) Run(c Case) Result {
	res := Result{Name: c.Name}
	log := t.logger().With().Str("case", c.Name).Logger()
	log.Debug().Str("memaddr", c.MemAddr).Msg("Running test")

	mem := NewMemory(t.memorySize())
	peek, err := t.peekFunc(mem)
	if err != nil {
		res.Details = fmt.Sprintf("memory setup failed: %v", err)
		log.Error().Msg("FAIL: " + res.Details)
		return res
	}

	rt := rules.NewRuntime()
	defer rt.Close()

	if err := rt.Activate(caseID, c.MemAddr); err != nil {
		res.Details = fmt.Sprintf("failed to parse condition: %v", err)
		log.Error().Msg("FAIL: " + res.Details)
		return res
	}

	if c.Setup != nil {
		c.Setup(mem)
	}
	for i := 0; i < t.frames(); i++ {
		rt.DoFrame(peek)
	}
	if c.Trigger != nil {
		c.Trigger(mem)
	}
	for _, ev := range rt.DoFrame(peek) {
		if _, ok := ev.(rules.Triggered); ok && ev.AchievementID() == caseID {
			res.Triggered = true
		}
	}

	res.Passed = res.Triggered == c.ExpectTrigger
	res.Details = fmt.Sprintf("expected=%s, got=%s", outcome(c.ExpectTrigger), outcome(res.Triggered))
	if res.Passed {
		log.Debug().Msg("PASS: " + res.Details)
	} else {
		log.Error().Msg("FAIL: " + res.Details)
	}
	return res
}

// RunAll runs every case. A failing case never stops the run.
func (t *Tester) RunAll(cases []Case) Report {
	r := Report{
		RunID:   uuid.New().String(),
		Mode:    t.mode(),
		Results: make([]Result, 0, len(cases)),
	}
	log := t.logger()
	log.Info().Str("run", r.RunID).Int("cases", len(cases)).Str("mode", string(r.Mode)).
		Msg("Running achievement condition tests")

	for _, c := range cases {
		res := t.Run(c)
		r.Results = append(r.Results, res)
		if res.Passed {
			r.Passed++
		} else {
			r.Failed++
		}
	}

	log.Info().Str("run", r.RunID).Int("passed", r.Passed).Int("failed", r.Failed).Msg("Results")
	return r
}

func outcome(triggered bool) string {
	if triggered {
		return "trigger"
	}
	return "no-trigger"
}
