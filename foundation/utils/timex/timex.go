// File: timex.go
// Title: Time Utilities
// Description: Duration parsing with day and week units and compact
//              formatting of durations and ages for command-line output.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-03
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-03 v0.1.0: ParseDuration, FormatDurationCompact
// - 2026-10-16 v0.2.0: Compact day/week suffixes, Ago

package timex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Day is 24 hours; calendar effects are ignored
	Day = 24 * time.Hour

	// Week is seven days
	Week = 7 * Day
)

// ParseDuration parses duration strings with extended formats. Besides
// everything time.ParseDuration accepts it understands a trailing "d" or "w"
// ("30d", "2w", "1.5d") and the spelled-out form "3 days". Negative values
// are rejected.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	if strings.HasPrefix(value, "-") {
		return 0, fmt.Errorf("negative durations are not supported: %s", value)
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}

	if n := len(value); n > 1 {
		unit := value[n-1]
		if unit == 'd' || unit == 'w' {
			if num, err := strconv.ParseFloat(value[:n-1], 64); err == nil {
				return scale(num, string(unit))
			}
		}
	}

	parts := strings.Fields(value)
	if len(parts) == 2 {
		if num, err := strconv.ParseFloat(parts[0], 64); err == nil {
			return scale(num, strings.TrimSuffix(parts[1], "s"))
		}
	}

	return 0, fmt.Errorf("unable to parse duration string: %s", value)
}

func scale(num float64, unit string) (time.Duration, error) {
	var base time.Duration
	switch unit {
	case "second", "sec":
		base = time.Second
	case "minute", "min":
		base = time.Minute
	case "hour", "hr":
		base = time.Hour
	case "d", "day":
		base = Day
	case "w", "week":
		base = Week
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
	return time.Duration(num * float64(base)), nil
}

// FormatDurationCompact formats a duration as "1d 2h 30m", "45s" or "120ms".
// Units below a second are only shown for durations shorter than a second.
func FormatDurationCompact(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDurationCompact(-d)
	}
	if d < time.Second {
		if d < time.Millisecond {
			return "0s"
		}
		return fmt.Sprintf("%dms", d/time.Millisecond)
	}

	var parts []string
	if days := d / Day; days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
		d -= days * Day
	}
	if hours := d / time.Hour; hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		d -= hours * time.Hour
	}
	if minutes := d / time.Minute; minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
		d -= minutes * time.Minute
	}
	if seconds := d / time.Second; seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// Ago describes how long before now t happened using the largest whole
// unit: "just now", "5m ago", "3h ago", "2d ago". Times in the future are
// reported as "just now".
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", d/time.Minute)
	case d < Day:
		return fmt.Sprintf("%dh ago", d/time.Hour)
	case d < 2*Week:
		return fmt.Sprintf("%dd ago", d/Day)
	default:
		return fmt.Sprintf("%dw ago", d/Week)
	}
}
