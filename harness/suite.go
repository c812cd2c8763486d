package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite is a set of cases loaded from a YAML file.
type Suite struct {
	// Name identifies the suite in reports.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description,omitempty"`

	// Frames overrides the number of settle frames when positive.
	Frames int `yaml:"frames,omitempty"`

	// Cases are run in order.
	Cases []CaseSpec `yaml:"cases"`
}

// CaseSpec is the YAML form of a Case.
type CaseSpec struct {
	Name          string  `yaml:"name"`
	MemAddr       string  `yaml:"memaddr"`
	Setup         []Write `yaml:"setup,omitempty"`
	Trigger       []Write `yaml:"trigger,omitempty"`
	ExpectTrigger bool    `yaml:"expect_trigger"`
}

// LoadSuite reads and validates a YAML suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes a YAML suite. Unknown fields are rejected.
func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSuite(&s); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &s, nil
}

func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if c.MemAddr == "" {
			return fmt.Errorf("cases[%d] %q: memaddr is required", i, c.Name)
		}
		for _, w := range append(append([]Write{}, c.Setup...), c.Trigger...) {
			switch w.Size {
			case 0, 1, 2, 4:
			default:
				return fmt.Errorf("cases[%d] %q: write size %d at %#x must be 1, 2 or 4", i, c.Name, w.Size, w.Address)
			}
		}
	}
	return nil
}

// Case converts c to a runnable Case.
func (c CaseSpec) Case() Case {
	return Case{
		Name:          c.Name,
		MemAddr:       c.MemAddr,
		Setup:         Writes(c.Setup...),
		Trigger:       Writes(c.Trigger...),
		ExpectTrigger: c.ExpectTrigger,
	}
}

// RunnableCases returns the suite's cases in order.
func (s *Suite) RunnableCases() []Case {
	cases := make([]Case, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = c.Case()
	}
	return cases
}

// RunSuite runs every case in s, honoring the suite's frame override.
func (t *Tester) RunSuite(s *Suite) Report {
	tt := *t
	if s.Frames > 0 {
		tt.Frames = s.Frames
	}
	r := tt.RunAll(s.RunnableCases())
	r.Suite = s.Name
	return r
}
