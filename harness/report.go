package harness

import (
	"encoding/json"
	"fmt"
	"io"
)

// Report aggregates the results of a run.
type Report struct {
	RunID   string   `json:"run_id"`
	Suite   string   `json:"suite,omitempty"`
	Mode    Mode     `json:"mode"`
	Results []Result `json:"results"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
}

// OK reports whether every case passed.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Summary aggregates the reports of several suites.
type Summary struct {
	Reports []Report `json:"reports"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
}

// Add appends r and folds its counts into the totals.
func (s *Summary) Add(r Report) {
	s.Reports = append(s.Reports, r)
	s.Passed += r.Passed
	s.Failed += r.Failed
}

// WriteSummaryText writes every report with WriteText, separated by blank
// lines.
func WriteSummaryText(w io.Writer, s Summary) error {
	for i, r := range s.Reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := WriteText(w, r); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes one line per case followed by a summary line. The run id
// is left out so output is stable between runs.
func WriteText(w io.Writer, r Report) error {
	name := r.Suite
	if name == "" {
		name = "standard"
	}
	if _, err := fmt.Fprintf(w, "suite: %s (mode %s)\n", name, r.Mode); err != nil {
		return err
	}
	for _, res := range r.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s  %s: %s\n", status, res.Name, res.Details); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d cases: %d passed, %d failed\n", len(r.Results), r.Passed, r.Failed)
	return err
}

// WriteJSON writes v, normally a Report or Summary, as indented JSON
// followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
