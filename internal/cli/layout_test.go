package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/graph"
)

// writeMock writes the mock snapshot in the given format and returns its path.
func writeMock(t *testing.T, c *CLI, format string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mock."+format)
	captureOutput(t, func() {
		if err := c.runMock(path, format); err != nil {
			t.Fatalf("runMock() error: %v", err)
		}
	})
	return path
}

func TestRunLayout(t *testing.T) {
	c := testCLI(t)
	input := writeMock(t, c, "yaml")
	base := filepath.Join(t.TempDir(), "net")

	got := captureOutput(t, func() {
		err := c.runLayout(t.Context(), input, layoutOptions{
			Engine:  engineOptions{Strategy: "diagonal"},
			Output:  base,
			Formats: []string{formatJSON, formatDOT},
		})
		if err != nil {
			t.Fatalf("runLayout() error: %v", err)
		}
	})

	l, err := graph.ReadLayoutFile(base + ".json")
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if l.Strategy != "diagonal" || len(l.Nodes) != 5 || len(l.Edges) != 4 {
		t.Errorf("layout = %s with %d nodes, %d edges", l.Strategy, len(l.Nodes), len(l.Edges))
	}
	if n, _ := l.Node("n4"); n.X != 3 || n.Y != 3 {
		t.Errorf("n4 at (%v, %v), want (3, 3)", n.X, n.Y)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot output starts with %q", string(dot)[:min(len(dot), 20)])
	}
	for _, want := range []string{"Layout complete", "5 vertices", "4 edges", "2 alarms", "1 situations"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunLayoutLocations(t *testing.T) {
	c := testCLI(t)
	input := writeMock(t, c, "json")
	output := filepath.Join(t.TempDir(), "branch.json")

	captureOutput(t, func() {
		err := c.runLayout(t.Context(), input, layoutOptions{
			Engine:    engineOptions{Strategy: "diagonal"},
			Output:    output,
			Formats:   []string{formatJSON},
			Locations: []string{"Branch"},
		})
		if err != nil {
			t.Fatalf("runLayout() error: %v", err)
		}
	})

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 2 || len(l.Edges) != 1 {
		t.Errorf("Branch layout has %d nodes, %d edges, want 2, 1", len(l.Nodes), len(l.Edges))
	}
}

func TestRunLayoutCacheHit(t *testing.T) {
	c := testCLI(t)
	c.Config.Layout.Cache = "file"
	input := writeMock(t, c, "toml")

	run := func() string {
		return captureOutput(t, func() {
			err := c.runLayout(t.Context(), input, layoutOptions{
				Engine:  engineOptions{Strategy: "force", Seed: 3, SeedSet: true},
				Output:  filepath.Join(t.TempDir(), "out.json"),
				Formats: []string{formatJSON},
			})
			if err != nil {
				t.Fatalf("runLayout() error: %v", err)
			}
		})
	}

	if got := run(); !strings.Contains(got, iconFresh) {
		t.Errorf("first run should compute a fresh layout:\n%s", got)
	}
	if got := run(); !strings.Contains(got, iconCached) {
		t.Errorf("second run should hit the cache:\n%s", got)
	}
}

func TestRunLayoutErrors(t *testing.T) {
	c := testCLI(t)
	input := writeMock(t, c, "json")

	tests := []struct {
		name  string
		input string
		opts  layoutOptions
		code  errors.Code
	}{
		{"unknown format", input, layoutOptions{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"unknown strategy", input, layoutOptions{Engine: engineOptions{Strategy: "circle"}}, errors.ErrCodeInvalidStrategy},
		{"missing file", filepath.Join(t.TempDir(), "none.json"), layoutOptions{}, errors.ErrCodeFileNotFound},
		{"bad extension", filepath.Join(t.TempDir(), "topo.xml"), layoutOptions{}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runLayout(t.Context(), tt.input, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("runLayout() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "default",
			input:   "net/topo.yaml",
			formats: []string{"json", "svg"},
			want:    map[string]string{"json": "net/topo.layout.json", "svg": "net/topo.layout.svg"},
		},
		{
			name:    "single explicit",
			input:   "topo.yaml",
			output:  "out.txt",
			formats: []string{"dot"},
			want:    map[string]string{"dot": "out.txt"},
		},
		{
			name:    "explicit base",
			input:   "topo.yaml",
			output:  "out/net.json",
			formats: []string{"json", "png"},
			want:    map[string]string{"json": "out/net.json", "png": "out/net.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.input, tt.output, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	got := parseList(" Default, ,Branch,")
	if !reflect.DeepEqual(got, []string{"Default", "Branch"}) {
		t.Errorf("parseList() = %q", got)
	}
	if parseList("") != nil {
		t.Error("parseList(\"\") should be nil")
	}
}
