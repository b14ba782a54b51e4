// Package syspage implements membuf.PageEnumerator against real operating
// system primitives: a VirtualQueryEx walk on Windows, and a
// /proc/<pid>/maps walk with free-gap synthesis on Linux.
package syspage

import "github.com/elyor0529/membuf"

// New returns a fresh, single-pass membuf.PageEnumerator over the given
// process ID's address space. pid == 0 means the calling process.
func New(pid int) membuf.PageEnumerator {
	return newEnumerator(pid)
}

// NewFunc returns a factory suitable for membuf.Helper's NewPages field:
// each call to the returned function produces a brand-new, single-pass
// enumerator, since PageEnumerators are not restartable.
func NewFunc(pid int) func() membuf.PageEnumerator {
	return func() membuf.PageEnumerator {
		return New(pid)
	}
}
