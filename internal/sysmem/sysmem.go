// Package sysmem implements membuf.MemorySource against real operating
// system primitives: direct access for the calling process, and
// cross-process read/write/commit primitives for any other process on the
// same host. The distilled specification treats this as an external
// collaborator abstracted behind an interface; this package is the one
// concrete implementation this repository ships.
package sysmem

import "github.com/elyor0529/membuf"

// SystemInfo reports the host's page size and allocation granularity, the
// two geometry numbers membuf.NewPlacement needs. On Windows these come
// from GetSystemInfo; on Linux, page size comes from getpagesize(2) and
// granularity is defined to equal it, since Linux mmap has no separate
// 64 KiB alignment requirement the way Windows VirtualAlloc does.
func SystemInfo() (pageSize, granularity uint64, err error) {
	return systemInfo()
}

// Local is a membuf.MemorySource that accesses the calling process's own
// address space directly.
type Local struct{}

// NewLocal builds a Local MemorySource.
func NewLocal() *Local { return &Local{} }

// Remote is a membuf.MemorySource that accesses another process's address
// space through OS cross-process primitives.
type Remote struct {
	PID int
}

// NewRemote builds a Remote MemorySource targeting the given process ID.
func NewRemote(pid int) *Remote { return &Remote{PID: pid} }

// compile-time assertions that Local and Remote satisfy membuf.MemorySource.
var (
	_ membuf.MemorySource = (*Local)(nil)
	_ membuf.MemorySource = (*Remote)(nil)
)
