package command

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// run executes the app with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"tscontainer"}, args...))
	return out.String(), err
}

// runJSON executes the app with JSON output and decodes the result into v.
func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, append([]string{"-o", "json"}, args...)...)
	if err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tscontainer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "tscontainer" {
		t.Errorf("app.Name = %q, want tscontainer", app.Name)
	}
	if app.Version == "" {
		t.Error("app.Version should be set")
	}

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"stress", "soak", "snapshot", "config", "version"} {
		if !commands[name] {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		for _, name := range f.Names() {
			flags[name] = true
		}
	}
	for _, name := range []string{"config", "c", "log-level", "log-format", "locker", "degree", "output", "o"} {
		if !flags[name] {
			t.Errorf("missing global flag %q", name)
		}
	}
}

func TestApp_InvalidOutputFormat(t *testing.T) {
	if _, err := run(t, "-o", "xml", "version"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestApp_MissingConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := run(t, "--config", missing, "version"); err == nil {
		t.Error("a missing config file should fail")
	}
}

func TestRuntimeFrom_Uninitialized(t *testing.T) {
	app := App()
	c := cli.NewContext(app, nil, nil)
	if _, err := runtimeFrom(c); err == nil {
		t.Error("runtimeFrom() should fail before setup")
	}
}

func TestConfigShow_Layering(t *testing.T) {
	path := writeConfig(t, `
container:
  degree: 16
stress:
  workers: 3
`)

	var got map[string]map[string]any
	runJSON(t, &got, "--config", path, "--degree", "8", "config", "show")

	if got["container"]["degree"] != float64(8) {
		t.Errorf("container.degree = %v, want 8 (flag over file)", got["container"]["degree"])
	}
	if got["stress"]["workers"] != float64(3) {
		t.Errorf("stress.workers = %v, want 3 (file over default)", got["stress"]["workers"])
	}
	if got["log"]["level"] != "info" {
		t.Errorf("log.level = %v, want default info", got["log"]["level"])
	}
}

func TestConfigShow_Table(t *testing.T) {
	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"container.degree", "soak.duration", "1m0s", "metrics.path"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	out, err := run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "valid") {
		t.Errorf("output = %q", out)
	}

	path := writeConfig(t, "container:\n  locker: spin\n")
	if _, err := run(t, "--config", path, "config", "validate"); err == nil {
		t.Error("an unknown locker should fail validation")
	}
}

func TestVersion(t *testing.T) {
	var got map[string]any
	runJSON(t, &got, "version")

	if got["version"] == "" || got["go_version"] == "" {
		t.Errorf("version output = %v", got)
	}
}
