package cli

import (
	"bytes"
	"strings"
	"testing"
)

func withVersionInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := appVersion, appCommit, appDate
	t.Cleanup(func() { appVersion, appCommit, appDate = v, c, d })
	SetVersionInfo(version, commit, date)
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	var err error
	out := captureStdout(t, func() { err = Execute() })
	return out, err
}

func TestVersionCmd_PrintsBuildInfo(t *testing.T) {
	withVersionInfo(t, "0.4.1", "9f2c7ab", "2026-10-01T12:00:00Z")

	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "gantt 0.4.1\ncommit: 9f2c7ab\nbuilt:  2026-10-01T12:00:00Z\n"
	if out != want {
		t.Errorf("version output = %q, want %q", out, want)
	}
}

func TestVersionCmd_DefaultsToDev(t *testing.T) {
	withVersionInfo(t, "dev", "none", "unknown")

	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "gantt dev\n") {
		t.Errorf("version output = %q", out)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, err := runRoot(t, "gnatt")
	if err == nil || !strings.Contains(err.Error(), `unknown command "gnatt"`) {
		t.Fatalf("got %v, want an unknown command error", err)
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range []string{"version", "project", "task", "export", "import", "chart", "layout", "dashboard", "metrics", "alerts", "mcp", "config"} {
		if !registered[name] {
			t.Errorf("%s command not registered on root", name)
		}
	}
}
