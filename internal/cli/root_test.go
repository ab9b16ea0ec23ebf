package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/errors"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := testCLI(t).RootCommand()

	for _, name := range []string{"layout", "replay", "watch", "serve", "mock", "cache", "version", "completion"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil || cmd.Name() != name {
				t.Errorf("Find(%q) = %v, %v", name, cmd, err)
			}
		})
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	c := testCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[layout]\nstrategy = \"diagonal\"\nseed = 9\ncache = \"none\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "version", "--json"})
	captureOutput(t, func() {
		if err := root.Execute(); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	})

	if c.Config.Layout.Strategy != "diagonal" || c.Config.Layout.Seed != 9 {
		t.Errorf("Config.Layout = %+v", c.Config.Layout)
	}
}

func TestRootCommandBadConfig(t *testing.T) {
	c := testCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\nstrategy = \"circle\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "version"})
	root.SilenceErrors = true
	err := root.Execute()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() error = %v, want INVALID_CONFIG", err)
	}
	if got := errors.ExitCode(err); got != 2 {
		t.Errorf("ExitCode() = %d, want 2", got)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	root := testCLI(t).RootCommand()
	root.SetArgs([]string{"version", "--json"})

	got := captureOutput(t, func() {
		if err := root.Execute(); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	})

	var info map[string]string
	if err := json.Unmarshal([]byte(got), &info); err != nil {
		t.Fatalf("version --json output is not JSON: %v\n%s", err, got)
	}
	for _, key := range []string{"version", "commit", "date", "go_version"} {
		if info[key] == "" {
			t.Errorf("version --json missing %q", key)
		}
	}
}

func TestStrategyCompletion(t *testing.T) {
	complete := fixedCompletions("force", "spring", "diagonal")

	got, directive := complete(nil, nil, "")
	if strings.Join(got, ",") != "force,spring,diagonal" {
		t.Errorf("completions = %v", got)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}

	got, _ = complete(nil, nil, "json,d")
	if got[0] != "json,force" {
		t.Errorf("list completion = %v, want prefix kept", got)
	}
}
