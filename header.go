package membuf

import "encoding/binary"

// HeaderSize is the on-the-wire size, in bytes, of a BufferHeader: three
// pointer-sized (8 byte) fields plus two 32-bit fields.
const HeaderSize = 8 + 8 + 8 + 4 + 4

// BufferOverhead is the number of bytes consumed by the magic tag plus the
// header before the first payload byte.
const BufferOverhead = MagicSize + HeaderSize

// Lock states for BufferHeader.State.
const (
	Unlocked uint32 = 0
	Locked   uint32 = 1
)

// DefaultAlignment is the alignment newly created buffers re-align their
// write offset to after every append, unless the caller asked for a
// different one at creation time.
const DefaultAlignment uint32 = 4

// BufferHeader is the plain record stored at DataPtr-BufferOverhead+MagicSize
// in the target process's memory. It is always read and written as a whole
// record through a MemorySource, because the buffer may live in another
// process.
type BufferHeader struct {
	DataPtr   uint64
	Size      uint64
	Offset    uint64
	State     uint32
	Alignment uint32
}

// WritePtr returns the address the next Append would write to, ignoring
// alignment padding.
func (h BufferHeader) WritePtr() uint64 {
	return h.DataPtr + h.Offset
}

// Remaining returns the number of payload bytes not yet used.
func (h BufferHeader) Remaining() uint64 {
	if h.Offset >= h.Size {
		return 0
	}
	return h.Size - h.Offset
}

// CanFit reports whether n more bytes fit in the remaining payload.
func (h BufferHeader) CanFit(n uint64) bool {
	return h.Remaining() >= n
}

// Locked reports whether the header's advisory lock flag is set.
func (h BufferHeader) Locked() bool {
	return h.State == Locked
}

// lock sets the state field to Locked in place.
func (h *BufferHeader) lock() { h.State = Locked }

// unlock sets the state field to Unlocked in place.
func (h *BufferHeader) unlock() { h.State = Unlocked }

// align rounds Offset up to the nearest multiple of Alignment, capped at
// Size so a caller can never observe an Offset past the end of the buffer.
func (h *BufferHeader) align() {
	a := uint64(h.Alignment)
	if a <= 1 {
		return
	}
	aligned := roundUp(h.Offset, a)
	if aligned > h.Size {
		aligned = h.Size
	}
	h.Offset = aligned
}

// Encode serializes h into its stable little-endian wire layout.
func (h BufferHeader) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.DataPtr)
	binary.LittleEndian.PutUint64(buf[8:16], h.Size)
	binary.LittleEndian.PutUint64(buf[16:24], h.Offset)
	binary.LittleEndian.PutUint32(buf[24:28], h.State)
	binary.LittleEndian.PutUint32(buf[28:32], h.Alignment)
	return buf
}

// DecodeHeader parses a header previously produced by Encode. It returns an
// error only if buf is shorter than HeaderSize; it performs no other
// validation, matching the distilled spec's treatment of the header as a
// plain record with invariants enforced by its own methods, not by decode.
func DecodeHeader(buf []byte) (BufferHeader, error) {
	if len(buf) < HeaderSize {
		return BufferHeader{}, ErrUnreadable
	}
	var h BufferHeader
	h.DataPtr = binary.LittleEndian.Uint64(buf[0:8])
	h.Size = binary.LittleEndian.Uint64(buf[8:16])
	h.Offset = binary.LittleEndian.Uint64(buf[16:24])
	h.State = binary.LittleEndian.Uint32(buf[24:28])
	h.Alignment = binary.LittleEndian.Uint32(buf[28:32])
	return h, nil
}

// roundUp returns the smallest r >= n with r % m == 0. When m == 0, n is
// returned unchanged (round_up/round_down are never invoked with m == 0 by
// the placement algorithm, but the identity fallback keeps the helper total
// rather than panicking on misuse from elsewhere).
func roundUp(n, m uint64) uint64 {
	if m == 0 {
		return n
	}
	rem := n % m
	if rem == 0 {
		return n
	}
	return n + (m - rem)
}

// roundDown returns the largest r <= n with r % m == 0.
func roundDown(n, m uint64) uint64 {
	if m == 0 {
		return n
	}
	return n - (n % m)
}
