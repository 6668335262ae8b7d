package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/mood"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := New()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("mood %s: %v\n%s", strings.Join(args, " "), err, buf.String())
	}
	return buf.String()
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MOOD_CONFIG_PATH", dir)
	t.Setenv("MOOD_PATH", dir)
	t.Setenv("MOOD_INFERENCE_ENABLED", "false")
	t.Setenv("MOOD_LOG_LEVEL", "error")
	config = nil
	output.JSON = false
	t.Cleanup(func() {
		config = nil
		output.JSON = false
	})
}

func TestCommandsRegistered(t *testing.T) {
	cmd := New()
	for _, name := range []string{"log", "say", "infer", "today", "history", "stats", "rules", "clear", "migrate", "dash", "mcp", "info", "version", "completion"} {
		if c, _, err := cmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("expected %q command, got %v %v", name, c, err)
		}
	}
}

func TestLogThenStats(t *testing.T) {
	isolate(t)

	out := run(t, "log", "calm", "--score", "72", "--json")
	var rec mood.DayRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if rec.Sample.Label != "calm" || rec.Sample.Score != 72 {
		t.Fatalf("unexpected record %+v", rec)
	}

	out = run(t, "stats", "--json")
	var stats aggregate.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if stats.Days != 1 || stats.AverageScore != 72 || stats.StreakLength != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestSayLocalThenClear(t *testing.T) {
	isolate(t)

	out := run(t, "say", "--local", "so", "tired")
	if !strings.Contains(out, "sad 45") {
		t.Fatalf("unexpected output %q", out)
	}

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"clear"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected clear without --yes to fail")
	}

	run(t, "clear", "--yes")
	out = run(t, "history", "--json")
	if strings.TrimSpace(out) != "null" && strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty history, got %q", out)
	}
}

func TestLogRejectsBadDay(t *testing.T) {
	isolate(t)

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"log", "sad", "--on", "someday"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLogRejectsFutureDay(t *testing.T) {
	isolate(t)

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"log", "sad", "--on", "2999-01-01"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error")
	}
	out := run(t, "history", "--json")
	if strings.TrimSpace(out) != "null" && strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected nothing recorded, got %q", out)
	}
}
