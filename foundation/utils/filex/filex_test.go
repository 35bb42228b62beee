// File: filex_test.go
// Title: File Utilities Tests
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-03
// Modified: 2026-10-13
//
// Change History:
// - 2026-10-03 v0.1.0: Initial tests
// - 2026-10-13 v0.2.0: ReadLimited, Within, LooksLikeText

package filex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExistsIsFileIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(file, []byte("fn main(){}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !Exists(file) || !IsFile(file) || IsDir(file) {
		t.Errorf("Expected %s to be an existing regular file", file)
	}
	if !Exists(dir) || !IsDir(dir) || IsFile(dir) {
		t.Errorf("Expected %s to be an existing directory", dir)
	}
	if Exists(filepath.Join(dir, "missing")) {
		t.Error("Expected missing path to not exist")
	}
}

func TestWriteStringAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")

	if err := WriteString(path, "# Hello\n", 0o600); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := WriteString(path, "# Replaced\n", 0o600); err != nil {
		t.Fatalf("WriteString overwrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Replaced\n" {
		t.Errorf("Expected replaced content, got %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestMkdirAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if !IsDir(dir) {
		t.Errorf("Expected %s to exist", dir)
	}
}

func TestReadLimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.forsure")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
		t.Fatal(err)
	}

	if data, err := ReadLimited(path, 100); err != nil || len(data) != 100 {
		t.Errorf("ReadLimited(100) = %d bytes, %v", len(data), err)
	}
	if _, err := ReadLimited(path, 99); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
	if data, err := ReadLimited(path, 0); err != nil || len(data) != 100 {
		t.Errorf("ReadLimited(0) = %d bytes, %v", len(data), err)
	}
}

func TestWithin(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		target string
		want   bool
	}{
		{base, true},
		{filepath.Join(base, "src", "main.rs"), true},
		{filepath.Join(base, "src", "..", "lib"), true},
		{filepath.Join(base, ".."), false},
		{filepath.Join(base, "..", filepath.Base(base)+"-other"), false},
		{filepath.Join(base, "..hidden"), true},
	}

	for _, tt := range tests {
		if got := Within(base, tt.target); got != tt.want {
			t.Errorf("Within(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestLooksLikeText(t *testing.T) {
	if !LooksLikeText([]byte("package main\n")) {
		t.Error("Expected Go source to look like text")
	}
	if LooksLikeText([]byte{0x7f, 'E', 'L', 'F', 0, 1}) {
		t.Error("Expected binary data to be rejected")
	}
	if LooksLikeText([]byte{0xff, 0xfe, 0xfd}) {
		t.Error("Expected invalid UTF-8 to be rejected")
	}
}
