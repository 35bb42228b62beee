// Package stringx provides string helpers used across the ForSure tools.
package stringx
