// File: timer.go
// Title: Performance Timer
// Description: Measures the duration of an operation and logs it on Stop.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-02
// Modified: 2026-10-02
//
// Change History:
// - 2026-10-02 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Timer measures an operation and logs its duration when stopped
type Timer struct {
	logger    *Logger
	operation string
	start     time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates and starts a timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		start:     time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the level of the completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to the completion message
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop logs "<operation> completed" with the elapsed time. Only the first
// call logs; later calls return zero.
func (t *Timer) Stop() time.Duration {
	return t.finish(nil)
}

// StopWithError logs "<operation> failed" at error level when err is non-nil,
// otherwise behaves like Stop.
func (t *Timer) StopWithError(err error) time.Duration {
	return t.finish(err)
}

func (t *Timer) finish(err error) time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger == nil {
		return elapsed
	}

	entry := NewEntry(t.level, t.operation+" completed")
	entry.Logger = t.logger.name
	entry.Duration = elapsed
	if err != nil {
		entry.Level = LevelError
		entry.Message = t.operation + " failed"
		entry.Error = err
	}
	if !entry.Level.ShouldLog(t.logger.level) {
		return elapsed
	}

	for k, v := range t.logger.contextFields {
		entry.Fields[k] = v
	}
	for k, v := range t.fields {
		entry.Fields[k] = v
	}
	entry.Fields["operation"] = t.operation

	t.logger.write(entry)
	return elapsed
}
