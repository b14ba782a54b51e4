package membuf

import (
	"bytes"
	"sync"
)

// MagicSize is the fixed length, in bytes, of the tag written at the start
// of every buffer. 16 bytes keeps the odds of an incidental collision with
// uninitialized or code memory astronomically low while staying small next
// to BufferOverhead.
const MagicSize = 16

// BufferMagic is the fixed byte pattern written at the start of every
// buffer this package creates, and the pattern Discovery looks for when
// scanning committed memory. Two magics are equal iff byte-identical.
type BufferMagic [MagicSize]byte

// Equals reports whether two magics are byte-identical.
func (m BufferMagic) Equals(other BufferMagic) bool {
	return bytes.Equal(m[:], other[:])
}

// defaultMagic is the compile-time constant the specification calls for:
// "a build-time constant is sufficient; do not randomize per process, or
// discovery across modules breaks." Every process that links this package
// at this version writes and looks for the same bytes, so a buffer created
// by one process (e.g. one `membufctl create` invocation) is discoverable
// by any later, independently-started process (`membufctl discover`,
// `membufctl append`) without coordination.
var defaultMagic = BufferMagic{
	'm', 'e', 'm', 'b', 'u', 'f', '-', 'v', '1', 0xDE, 0xAD, 0xBE, 0xEF, 0xCA, 0xFE, 0x00,
}

var (
	magicMu sync.Mutex
	magic   = defaultMagic
)

// Magic returns the process-wide BufferMagic: defaultMagic unless a caller
// overrode it with SetMagic.
func Magic() BufferMagic {
	magicMu.Lock()
	defer magicMu.Unlock()
	return magic
}

// SetMagic pins the process-wide BufferMagic to a caller-supplied value,
// overriding defaultMagic. Existing deployments that need to distinguish
// their buffers from another build's (rather than inter-operate with it)
// can call this during init with a value unique to that build; it must be
// called before any buffer is created or discovered to have any effect on
// that process's behavior.
func SetMagic(m BufferMagic) {
	magicMu.Lock()
	defer magicMu.Unlock()
	magic = m
}
