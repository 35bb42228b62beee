// Package filex provides file system helpers for the ForSure tools.
package filex
