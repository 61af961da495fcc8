package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/martinemde/amrviz/amrgraph"
	"github.com/martinemde/amrviz/visnet"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const sampleAMR = "# ::snt test\n(s / sentence)\n:ARG1 (t / test-01)\n"

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConvertCommandJSON(t *testing.T) {
	path := writeTemp(t, "in.amr", sampleAMR)
	out, _, err := runCLI(t, "", "convert", path, "--mode", "heuristic", "--format", "json", "--lint=false", "--strict=false")
	require.NoError(t, err)

	var g amrgraph.Graph
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, amrgraph.Convert(sampleAMR), &g)
}

func TestConvertCommandStdinYAML(t *testing.T) {
	out, _, err := runCLI(t, sampleAMR, "convert", "-", "--mode", "heuristic", "--format", "yaml", "--lint=false", "--strict=false")
	require.NoError(t, err)

	var g amrgraph.Graph
	require.NoError(t, yaml.Unmarshal([]byte(out), &g))
	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, []amrgraph.Edge{{From: 0, To: 1, Label: "ARG1"}}, g.Edges)
}

func TestConvertCommandNestedVis(t *testing.T) {
	out, _, err := runCLI(t, "(s / sentence :ARG1 (t / test-01))", "convert", "--mode", "nested", "--format", "vis", "--lint=false", "--strict=false")
	require.NoError(t, err)

	var p visnet.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Len(t, p.Graph.Edges, 1)
	assert.True(t, p.Options.Physics.Enabled)
}

func TestConvertCommandLintAndStrict(t *testing.T) {
	_, stderr, err := runCLI(t, "(a / b\ngarbage", "convert", "--mode", "heuristic", "--format", "summary", "--lint", "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, stderr, "unrecognized_line")
	assert.Contains(t, stderr, "unbalanced_parens")

	_, _, err = runCLI(t, "(a / b", "convert", "--mode", "heuristic", "--format", "summary", "--lint=false", "--strict")
	require.Error(t, err)
	var verr *amrgraph.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestConvertCommandRejectsBadInput(t *testing.T) {
	_, _, err := runCLI(t, "", "convert", filepath.Join(t.TempDir(), "missing.amr"), "--mode", "heuristic", "--format", "json", "--lint=false", "--strict=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading AMR file")

	_, _, err = runCLI(t, "(a / b)", "convert", "--mode", "heuristic", "--format", "xml", "--lint=false", "--strict=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	_, _, err = runCLI(t, "(a / b)", "convert", "--mode", "strict", "--format", "json", "--lint=false", "--strict=false")
	require.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	a := writeTemp(t, "a.amr", "(w / want-01)\n:ARG0 (b / boy)")
	b := writeTemp(t, "b.amr", "(w / want-01)\n:ARG0 (g / girl)")
	out, _, err := runCLI(t, "", "compare", a, b, "--mode", "heuristic", "--format", "json", "--threshold", "0.8")
	require.NoError(t, err)

	var c amrgraph.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, []string{"want-01"}, c.CommonNodes)
	assert.Equal(t, []string{"boy"}, c.AOnlyNodes)
	assert.Equal(t, []string{"girl"}, c.BOnlyNodes)
	assert.InDelta(t, 1.0/3, c.Stats.F1, 1e-9)

	var res compareOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 1.0/3, res.Consistency.Score, 1e-9)
	assert.False(t, res.Consistency.Consistent)
}

func TestCompareCommandExtraSourcesYAML(t *testing.T) {
	t.Cleanup(func() {
		_ = compareCmd.Flags().Lookup("source").Value.(pflag.SliceValue).Replace(nil)
	})
	a := writeTemp(t, "a.amr", "(w / want-01 :ARG0 (b / boy))")
	b := writeTemp(t, "b.amr", "(w / want-01 :ARG0 (b / boy) :ARG1 (g / girl))")
	src := writeTemp(t, "src.amr", "(s / see-01 :ARG1 (g / girl))")
	out, _, err := runCLI(t, "", "compare", a, b, "--mode", "nested", "--format", "yaml", "--threshold", "0.8", "--source", src)
	require.NoError(t, err)

	var res struct {
		Statistics  map[string]float64 `yaml:"statistics"`
		Consistency struct {
			Consistent bool    `yaml:"consistent"`
			Score      float64 `yaml:"score"`
		} `yaml:"consistency"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	// want-01 :ARG1 girl is the only unsupported triple of five.
	assert.InDelta(t, 0.8, res.Consistency.Score, 1e-9)
	assert.True(t, res.Consistency.Consistent)
	assert.InDelta(t, 1.0, res.Statistics["recall"], 1e-9)
}

func TestCompareCommandRejectsThreshold(t *testing.T) {
	a := writeTemp(t, "a.amr", "(a / b)")
	_, _, err := runCLI(t, "", "compare", a, a, "--mode", "heuristic", "--format", "json", "--threshold", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestPrintGraphSummary(t *testing.T) {
	var buf bytes.Buffer
	printGraphSummary(&buf, amrgraph.ConvertNested("(r / run-01 :ARG0 (b / boy) :polarity -)"))
	assert.Equal(t, `Nodes: 3
  [0] r / run-01
  [1] b / boy
  [2] "-" (constant)
Edges: 2
  0 -ARG0-> 1
  0 -polarity-> 2
`, buf.String())
}

func TestWriteGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeGraphFile(path, amrgraph.Convert(sampleAMR), "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var g amrgraph.Graph
	require.NoError(t, json.Unmarshal(data, &g))
	assert.Len(t, g.Nodes, 2)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWatchFile(t *testing.T) {
	path := writeTemp(t, "watched.amr", "(a / b)")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() error {
			calls.Add(1)
			changed <- struct{}{}
			return nil
		}, zap.NewNop())
	}()

	waitForChange := func() {
		t.Helper()
		select {
		case <-changed:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for conversion")
		}
	}

	waitForChange() // initial conversion
	require.NoError(t, os.WriteFile(path, []byte(sampleAMR), 0o600))
	waitForChange()

	// Other files in the directory are ignored. Let trailing events for the
	// watched file settle first.
	time.Sleep(200 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.amr"), []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop")
	}
}
