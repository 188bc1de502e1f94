package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trafficflow/internal/config"
)

func TestNewLogger_WritesLevelFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	l.Info("camera %d ready", 0)
	l.Warning("slow frame")
	l.Error("read failed")

	for file, want := range map[string]string{
		InfoFile:    "camera 0 ready",
		WarningFile: "slow frame",
		ErrorFile:   "read failed",
	} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", file, err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s: expected %q, got %q", file, want, data)
		}
	}

	if l.Directory() != dir {
		t.Errorf("Expected directory %s, got %s", dir, l.Directory())
	}
}

func TestCleanLogs(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	l.Error("something broke")
	if err := l.CleanLogs(ErrorFile); err != nil {
		t.Fatalf("CleanLogs failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, ErrorFile))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("Expected empty error log, got %d bytes", info.Size())
	}

	// ścieżka jest przycinana do nazwy pliku
	if err := l.CleanLogs("../" + InfoFile); err != nil {
		t.Errorf("CleanLogs with path failed: %v", err)
	}
}

func TestNewWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.Info("hello")
	l.Warning("careful")

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "hello") {
		t.Errorf("Missing info line in %q", out)
	}
	if !strings.Contains(out, "WARNING") || !strings.Contains(out, "careful") {
		t.Errorf("Missing warning line in %q", out)
	}
	if err := l.CleanLogs(InfoFile); err != nil {
		t.Errorf("CleanLogs on writer logger should be a no-op, got %v", err)
	}
}
