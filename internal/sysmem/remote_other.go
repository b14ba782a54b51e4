//go:build !windows && !linux

package sysmem

import "github.com/elyor0529/membuf"

func systemInfo() (pageSize, granularity uint64, err error) {
	return 0, 0, membuf.ErrUnsupportedPlatform
}

// SafeRead is unsupported on platforms without a real-process backend in
// this package; unlike Windows and Linux, there is no OS-mediated read
// path here to fall back on, so Local.SafeRead must refuse rather than
// risk an unmediated dereference.
func (l *Local) SafeRead(addr uint64, length int) ([]byte, bool) {
	return nil, false
}

// Commit is unsupported on this platform.
func (l *Local) Commit(addr uint64, length uint64) error {
	return membuf.ErrUnsupportedPlatform
}

// Read is unsupported on this platform.
func (r *Remote) Read(addr uint64, length int) ([]byte, error) {
	return nil, membuf.ErrUnsupportedPlatform
}

// SafeRead is unsupported on this platform.
func (r *Remote) SafeRead(addr uint64, length int) ([]byte, bool) {
	return nil, false
}

// Write is unsupported on this platform.
func (r *Remote) Write(addr uint64, buf []byte) error {
	return membuf.ErrUnsupportedPlatform
}

// Commit is unsupported on this platform.
func (r *Remote) Commit(addr uint64, length uint64) error {
	return membuf.ErrUnsupportedPlatform
}
