// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     health
// Description: Environment checks run by "forsure doctor"
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status represents the outcome of a check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name     string                 `json:"name" yaml:"name"`
	Status   Status                 `json:"status" yaml:"status"`
	Message  string                 `json:"message,omitempty" yaml:"message,omitempty"`
	Duration time.Duration          `json:"duration" yaml:"duration"`
	Details  map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// Checker is an interface for checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// CheckFunc is a function type that implements Checker
type CheckFunc func(ctx context.Context) CheckResult

// Check implements the Checker interface
func (f CheckFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// Name returns a default name
func (f CheckFunc) Name() string {
	return "unknown"
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &namedCheck{name: name, fn: fn}
}

func (c *namedCheck) Name() string {
	return c.name
}

func (c *namedCheck) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry runs a set of checkers. Registering a name twice replaces the
// earlier checker in place.
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
	version  string
}

// NewRegistry creates an empty registry
func NewRegistry(version string) *Registry {
	return &Registry{version: version}
}

// Register adds a checker to the registry
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.checkers {
		if c.Name() == checker.Name() {
			r.checkers[i] = checker
			return
		}
	}
	r.checkers = append(r.checkers, checker)
}

// RegisterFunc adds a check function to the registry
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Check runs all checks concurrently. Results keep registration order and
// the overall status is the worst individual status.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	report := &Report{
		Version:   r.version,
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			if result.Name == "" {
				result.Name = c.Name()
			}
			if result.Status == "" {
				result.Status = StatusUnknown
			}
			report.Checks[i] = result
		}(i, checker)
	}
	wg.Wait()

	report.Status = StatusHealthy
	for _, result := range report.Checks {
		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded, StatusUnknown:
			if report.Status == StatusHealthy {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}

// CheckWithTimeout runs all checks with a timeout
func (r *Registry) CheckWithTimeout(ctx context.Context, timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report represents the combined result of a registry run
type Report struct {
	Version   string        `json:"version" yaml:"version"`
	Status    Status        `json:"status" yaml:"status"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Checks    []CheckResult `json:"checks" yaml:"checks"`
}

// Healthy reports whether no check failed
func (r *Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// String returns a one-line summary of the report
func (r *Report) String() string {
	failed := 0
	for _, c := range r.Checks {
		if c.Status == StatusUnhealthy {
			failed++
		}
	}
	return fmt.Sprintf("Status: %s, Checks: %d, Failed: %d", r.Status, len(r.Checks), failed)
}

// WritableDir checks that files can be created in dir. A missing dir is
// fine as long as its closest existing ancestor is writable, since create
// makes the missing levels itself.
func WritableDir(name, dir string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:    name,
			Details: map[string]interface{}{"path": dir},
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		probe := abs
		for {
			info, err := os.Stat(probe)
			if err == nil {
				if !info.IsDir() {
					result.Status = StatusUnhealthy
					result.Message = probe + " is not a directory"
					return result
				}
				break
			}
			parent := filepath.Dir(probe)
			if parent == probe {
				result.Status = StatusUnhealthy
				result.Message = err.Error()
				return result
			}
			probe = parent
		}

		f, err := os.CreateTemp(probe, ".forsure-doctor-*")
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("%s is not writable: %v", probe, err)
			return result
		}
		f.Close()
		os.Remove(f.Name())

		if probe != abs {
			result.Status = StatusDegraded
			result.Message = fmt.Sprintf("does not exist yet, %s is writable", probe)
			return result
		}
		result.Status = StatusHealthy
		result.Message = "writable"
		return result
	})
}
