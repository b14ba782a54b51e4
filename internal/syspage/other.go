//go:build !windows && !linux

package syspage

import "github.com/elyor0529/membuf"

// newEnumerator returns an immediately-exhausted enumerator on platforms
// without a real page-query backend in this package. Placement then
// correctly reports membuf.ErrNoSuitableRegion rather than this package
// pretending to support a platform it cannot query.
func newEnumerator(pid int) membuf.PageEnumerator {
	return membuf.NewSliceEnumerator(nil)
}
