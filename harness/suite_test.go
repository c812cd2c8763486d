package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSuite(t *testing.T) {
	suite, err := LoadSuite("testdata/sample.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sample", suite.Name)
	require.Len(t, suite.Cases, 4)
	assert.Equal(t, "0x 0020=513", suite.Cases[1].MemAddr)
	assert.Equal(t, []Write{{Address: 0x20, Size: 2, Value: 0x0201}}, suite.Cases[1].Trigger)
	assert.True(t, suite.Cases[1].ExpectTrigger)
}

func TestRegressionSuitePassesInEveryMode(t *testing.T) {
	suite, err := LoadSuite("testdata/regression.yaml")
	require.NoError(t, err)
	require.Equal(t, 3, suite.Frames)

	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			tester := &Tester{Mode: mode}
			report := tester.RunSuite(suite)

			for _, res := range report.Results {
				assert.True(t, res.Passed, "%s: %s", res.Name, res.Details)
			}
			assert.Equal(t, "regression", report.Suite)
			assert.Zero(t, report.Failed)
		})
	}
}

func TestRunSuiteKeepsTesterSettings(t *testing.T) {
	suite := &Suite{Name: "s", Frames: 2, Cases: []CaseSpec{{Name: "c", MemAddr: "0xH0000=1"}}}
	tester := &Tester{Frames: 9}
	tester.RunSuite(suite)
	assert.Equal(t, 9, tester.Frames)
}

func TestParseSuiteErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ncases:\n  - name: a\n    memaddr: \"0xH0000=1\"\n    expect: true\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: "cases:\n  - name: a\n    memaddr: \"0xH0000=1\"\n",
			want: "name is required",
		},
		{
			name: "no cases",
			yaml: "name: x\ncases: []\n",
			want: "cases list is required",
		},
		{
			name: "case without memaddr",
			yaml: "name: x\ncases:\n  - name: a\n",
			want: "memaddr is required",
		},
		{
			name: "bad write size",
			yaml: "name: x\ncases:\n  - name: a\n    memaddr: \"0xH0000=1\"\n    trigger:\n      - {address: 0, size: 3, value: 1}\n",
			want: "must be 1, 2 or 4",
		},
		{
			name: "negative frames",
			yaml: "name: x\nframes: -1\ncases:\n  - name: a\n    memaddr: \"0xH0000=1\"\n",
			want: "frames must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSuite([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSuiteMissingFile(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteApply(t *testing.T) {
	m := NewMemory(8)
	Writes(
		Write{Address: 0, Value: 0x1FF},
		Write{Address: 2, Size: 2, Value: 0xABCD},
		Write{Address: 4, Size: 4, Value: 0x01020304},
		Write{Address: 1, Size: 3, Value: 0xFF},
	)(m)

	assert.Equal(t, uint32(0xFF), m.Peek(0, 1))
	assert.Equal(t, uint32(0), m.Peek(1, 1), "unsupported sizes are ignored")
	assert.Equal(t, uint32(0xABCD), m.Peek(2, 2))
	assert.Equal(t, uint32(0x01020304), m.Peek(4, 4))
}
