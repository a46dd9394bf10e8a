package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	content := strings.Join([]string{
		"[paths]",
		`download_dir = "` + filepath.Join(base, "downloads") + `"`,
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
	}, "\n") + "\n"

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("crd %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestQueueAddAndList(t *testing.T) {
	cfgPath := writeTestConfig(t)

	addOut := runCommand(t, "-c", cfgPath,
		"queue", "add",
		"--service", "cr",
		"--id", "GTEST0001",
		"--title", "Pilot",
		"--series", "Serie",
		"--season", "1",
		"--episode", "1",
		"--sub", "de-DE",
		"--dub", "ja-JP",
	)
	if !strings.Contains(addOut, "Queued job") {
		t.Fatalf("add output = %q", addOut)
	}

	listOut := runCommand(t, "-c", cfgPath, "queue", "list")
	if !strings.Contains(listOut, "Serie - Pilot") {
		t.Errorf("list output missing title: %q", listOut)
	}
	if !strings.Contains(listOut, "waiting") {
		t.Errorf("list output missing status: %q", listOut)
	}
	if !strings.Contains(listOut, "Deutsch") {
		t.Errorf("list output missing sub language name: %q", listOut)
	}
}

func TestQueueListEmpty(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runCommand(t, "-c", cfgPath, "queue", "list")
	if !strings.Contains(out, "Queue is empty") {
		t.Errorf("output = %q", out)
	}
}

func TestQueueClearRequiresSelector(t *testing.T) {
	cfgPath := writeTestConfig(t)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"-c", cfgPath, "queue", "clear"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("queue clear without a selector should fail")
	}
}

func TestQueueAddRejectsUnknownService(t *testing.T) {
	cfgPath := writeTestConfig(t)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"-c", cfgPath, "queue", "add", "--service", "netflix", "--id", "1", "--title", "x"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("unknown service should be rejected")
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out := runCommand(t, "config", "init", "--path", target)
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("output = %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Errorf("sample config missing [paths] section")
	}
}
