// File: filex.go
// Title: Core File Utilities
// Description: File helpers used by the materializer, the converter and the
//              document loader: existence checks, atomic writes, bounded
//              reads, containment checks and text sniffing.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-03
// Modified: 2026-10-13
//
// Change History:
// - 2026-10-03 v0.1.0: Exists, IsDir, IsFile, MkdirAll, WriteString
// - 2026-10-13 v0.2.0: ReadLimited, Within, LooksLikeText

package filex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrTooLarge is returned by ReadLimited when a file exceeds the limit
var ErrTooLarge = errors.New("file too large")

// Exists reports whether path exists (following symlinks)
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MkdirAll creates path and all parents with the given permissions
func MkdirAll(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteString writes content to path atomically: the data goes to a temp
// file in the same directory which is then renamed over path.
func WriteString(path, content string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := io.WriteString(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename into %s: %w", path, err)
	}
	return nil
}

// ReadLimited reads path, failing with ErrTooLarge when the file is bigger
// than limit bytes. A limit <= 0 disables the check.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", path, limit, ErrTooLarge)
	}
	return data, nil
}

// Within reports whether target, after cleaning, lies inside base (or is
// base itself). Both paths are made absolute first.
func Within(base, target string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// LooksLikeText reports whether data is valid UTF-8 without NUL bytes,
// judging by at most the first 8 KiB.
func LooksLikeText(data []byte) bool {
	if len(data) > 8192 {
		data = data[:8192]
		// do not reject a multi-byte rune cut at the boundary
		for i := 0; i < utf8.UTFMax && len(data) > 0 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}
	return !bytes.ContainsRune(data, 0) && utf8.Valid(data)
}
