package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigure_InvalidLevel(t *testing.T) {
	if err := Configure("loud", ""); err == nil {
		t.Fatal("Configure() expected error for unknown level")
	}
}

func TestConfigure_LevelFilters(t *testing.T) {
	if err := Configure("warn", ""); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	t.Cleanup(func() { _ = Configure("info", "") })

	var buf bytes.Buffer
	SetOutput(&buf)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestConfigure_FileLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "callsnap.log")
	if err := Configure("info", path); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	SetOutput(&bytes.Buffer{})

	Errorf("export failed: %s", "disk full")
	Close()
	t.Cleanup(func() { _ = Configure("info", "") })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"msg":"export failed: disk full"`) {
		t.Errorf("file log = %q, want JSON entry", data)
	}
}
