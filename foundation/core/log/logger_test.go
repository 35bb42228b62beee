// File: logger_test.go
// Title: Logger Tests
// Description: Tests for level filtering, context fields, formatters, error
//              integration and timers.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-02
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-02 v0.1.0: Initial tests
// - 2026-10-12 v0.2.0: Timer and LogError coverage

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	fserr "github.com/msto63/forsure/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf}), buf
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WRN] visible") {
		t.Errorf("Expected warning line, got %q", out)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	parent, buf := newBufferLogger(LevelInfo, FormatLogfmt)
	child := parent.WithField("component", "parser")

	parent.Info("from parent")
	child.Info("from child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if strings.Contains(lines[0], "component") {
		t.Errorf("Parent logger picked up child field: %s", lines[0])
	}
	if !strings.Contains(lines[1], `component="parser"`) {
		t.Errorf("Child line missing field: %s", lines[1])
	}
}

func TestJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger.WithName("forsure").Debug("token", Fields{"kind": "HEADING", "line": 3})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %q: %v", buf.String(), err)
	}
	if decoded["level"] != "debug" || decoded["message"] != "token" {
		t.Errorf("Unexpected entry: %v", decoded)
	}
	if decoded["logger"] != "forsure" {
		t.Errorf("Expected logger name, got %v", decoded["logger"])
	}
	if decoded["line"] != float64(3) {
		t.Errorf("Expected line field 3, got %v", decoded["line"])
	}
}

func TestTextFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.Info("created", Fields{"zeta": 1, "alpha": 2, "mid": 3})

	if !strings.Contains(buf.String(), "[alpha=2 mid=3 zeta=1]") {
		t.Errorf("Expected sorted fields, got %q", buf.String())
	}
}

func TestConsoleFormatColors(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatConsole)
	logger.Error("boom")

	out := buf.String()
	if !strings.HasPrefix(out, LevelError.Color()) || !strings.HasSuffix(out, "\033[0m\n") {
		t.Errorf("Expected colored line, got %q", out)
	}
}

func TestLogErrorUsesSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"syntax error is info", fserr.New("bad heading").WithCode(fserr.CodeForSureSyntax), "[INF]"},
		{"io error is error", fserr.New("disk").WithCode(fserr.CodeIOError), "[ERR]"},
		{"plain error is error", errors.New("plain"), "[ERR]"},
		{"unknown code is warn", fserr.New("meh"), "[WRN]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatText)
			logger.LogError(tt.err)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %s in %q", tt.want, buf.String())
			}
		})
	}
}

func TestLogErrorAddsDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatLogfmt)
	logger.LogError(fserr.New("escape").WithCode(fserr.CodePathEscape).
		WithOperation("materializer.resolve").WithDetail("path", "../x"))

	out := buf.String()
	for _, want := range []string{`error_code="PATH_ESCAPE"`, `error_operation="materializer.resolve"`, `error_path="../x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in %q", want, out)
		}
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	timer := logger.StartTimer("parse")
	timer.Stop()
	if timer.Stop() != 0 {
		t.Error("Expected second Stop to return zero")
	}
	if strings.Count(buf.String(), "parse completed") != 1 {
		t.Errorf("Expected exactly one completion line, got %q", buf.String())
	}

	buf.Reset()
	logger.StartTimer("materialize").StopWithError(errors.New("denied"))
	if !strings.Contains(buf.String(), "materialize failed") || !strings.Contains(buf.String(), `error="denied"`) {
		t.Errorf("Expected failure line, got %q", buf.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{"trace": LevelTrace, "DEBUG": LevelDebug, "warning": LevelWarn, "": LevelInfo}
	for in, want := range levels {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}

	if f, err := ParseFormat("logfmt"); err != nil || f != FormatLogfmt {
		t.Errorf("ParseFormat(logfmt) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.IsLevelEnabled(LevelFatal) {
		t.Error("Discard logger should not enable any level")
	}
	logger.Error("dropped")
}
