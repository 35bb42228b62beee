package materializer

import (
	"time"
)

// EntryKind is the kind of file system entry
type EntryKind string

const (
	KindDirectory EntryKind = "dir"
	KindFile      EntryKind = "file"
)

// Action is what happened to an entry
type Action string

const (
	// ActionCreate means the entry was (or in a dry run would be) created
	ActionCreate Action = "create"
	// ActionOverwrite means an existing file was replaced
	ActionOverwrite Action = "overwrite"
	// ActionSkip means an existing file was left alone
	ActionSkip Action = "skip"
	// ActionExists means the directory was already there
	ActionExists Action = "exists"
)

// Entry is one file system entry of a run; Path is relative to the base
// directory and uses forward slashes
type Entry struct {
	Kind   EntryKind `json:"kind" yaml:"kind"`
	Path   string    `json:"path" yaml:"path"`
	Action Action    `json:"action" yaml:"action"`
	Item   string    `json:"item,omitempty" yaml:"item,omitempty"`
}

// Command is a command attached to an item. Commands are reported for
// the user to run; they are never executed.
type Command struct {
	Dir     string `json:"dir" yaml:"dir"`
	Command string `json:"command" yaml:"command"`
	Item    string `json:"item,omitempty" yaml:"item,omitempty"`
}

// Report describes one materialization run
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	BaseDir    string    `json:"base_dir" yaml:"base_dir"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Entries    []Entry   `json:"entries" yaml:"entries"`
	Commands   []Command `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// Created counts created and overwritten entries
func (r *Report) Created() int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == ActionCreate || e.Action == ActionOverwrite {
			n++
		}
	}
	return n
}

// Skipped counts entries left untouched
func (r *Report) Skipped() int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == ActionSkip || e.Action == ActionExists {
			n++
		}
	}
	return n
}

// Duration returns how long the run took
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
