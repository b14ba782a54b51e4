package membuf

import (
	"sync"
	"time"
)

// spinInterval is how long Append sleeps between polls of the header's
// lock flag while waiting for another cooperating module to release it.
const spinInterval = time.Millisecond

// Buffer is a handle to an already-placed, magic-tagged region of memory
// in a target process, plus the bump-append protocol over its payload.
// A Buffer does not own the target process or the MemorySource; several
// Buffer values (in this module or another cooperating one) can safely
// reference the same underlying bytes, coordinating only through the
// header's lock flag.
type Buffer struct {
	source MemorySource

	// address is the absolute start of the buffer, i.e. where the magic
	// tag begins.
	address uint64

	// headerAddr is address + MagicSize, where the BufferHeader lives.
	headerAddr uint64

	// mu serializes Append and SetLockTimeout calls made through this particular
	// Buffer value by goroutines in this module. It says nothing about
	// other modules or other Buffer values over the same memory — those
	// are coordinated only by the header's lock flag, per the distilled
	// spec's cross-module mutex design.
	mu sync.Mutex

	// lockTimeout bounds the spin-wait on the header's lock flag. Zero
	// (the default) means wait forever, matching the distilled spec's
	// default; SetLockTimeout overrides it for a single buffer.
	lockTimeout time.Duration
}

// CreateBuffer commits total bytes at exactly addr (unless preAllocated is
// true, meaning the caller already committed the region — e.g. because
// Placement and commit were split across a retry loop upstream) and writes
// a fresh BufferMagic + BufferHeader describing a payload of
// total-BufferOverhead bytes starting right after the header.
func CreateBuffer(source MemorySource, addr, total uint64, preAllocated bool) (*Buffer, error) {
	return CreateBufferAligned(source, addr, total, preAllocated, DefaultAlignment)
}

// CreateBufferAligned is CreateBuffer with an explicit initial alignment
// for the header, resolving the distilled spec's alignment Open Question
// as a creation-time option rather than a per-append parameter.
func CreateBufferAligned(source MemorySource, addr, total uint64, preAllocated bool, alignment uint32) (*Buffer, error) {
	if !preAllocated {
		if err := source.Commit(addr, total); err != nil {
			return nil, &CommitError{Err: err}
		}
	}

	m := Magic()
	if err := source.Write(addr, m[:]); err != nil {
		return nil, err
	}

	hdr := BufferHeader{
		DataPtr:   addr + BufferOverhead,
		Size:      total - BufferOverhead,
		Offset:    0,
		State:     Unlocked,
		Alignment: alignment,
	}
	if err := source.Write(addr+MagicSize, hdr.Encode()); err != nil {
		return nil, err
	}

	return &Buffer{
		source:     source,
		address:    addr,
		headerAddr: addr + MagicSize,
	}, nil
}

// Address returns the absolute address of the buffer's magic tag — the
// value Discovery and FromAddress key off of.
func (b *Buffer) Address() uint64 { return b.address }

// SetLockTimeout bounds how long Append spin-waits for the header's lock
// flag before giving up with ErrLockContention. The distilled spec's
// default is an unbounded wait (timeout == 0).
func (b *Buffer) SetLockTimeout(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lockTimeout = d
}

// Header returns a snapshot of the buffer's current header. It is only a
// snapshot: another append racing concurrently (in this or another module)
// may change the underlying bytes immediately after this call returns.
func (b *Buffer) Header() (BufferHeader, error) {
	raw, err := b.source.Read(b.headerAddr, HeaderSize)
	if err != nil {
		return BufferHeader{}, err
	}
	return DecodeHeader(raw)
}

// CanFit reports whether n more bytes currently fit in the buffer, reading
// a fresh header snapshot to answer.
func (b *Buffer) CanFit(n uint64) (bool, error) {
	hdr, err := b.Header()
	if err != nil {
		return false, err
	}
	return hdr.CanFit(n), nil
}

// Append writes data to the buffer's current write pointer, advances and
// re-aligns the offset, and returns the address the bytes were written at.
// It implements the full cross-module coordination protocol from §4.7:
// acquire the intra-module mutex, spin-wait on the header's lock flag,
// flip it to Locked, check remaining space, write, advance, re-align,
// unlock — clearing the lock flag on every exit path, successful or not.
func (b *Buffer) Append(data []byte) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.acquireHeaderLock(); err != nil {
		return 0, err
	}

	hdr, err := b.Header()
	if err != nil {
		// The lock flag is already set from acquireHeaderLock's last
		// write; best-effort clear it before surfacing the read error.
		b.forceUnlock()
		return 0, err
	}

	n := uint64(len(data))
	if !hdr.CanFit(n) {
		b.forceUnlock()
		return 0, ErrNoSpace
	}

	writeAddr := hdr.WritePtr()
	if err := b.source.Write(writeAddr, data); err != nil {
		b.forceUnlock()
		return 0, err
	}

	hdr.Offset += n
	hdr.align()
	hdr.unlock()
	if err := b.source.Write(b.headerAddr, hdr.Encode()); err != nil {
		b.forceUnlock()
		return 0, err
	}

	return writeAddr, nil
}

// acquireHeaderLock spins, reading the header until it observes Unlocked,
// then writes it back as Locked. The spin-wait is unbounded unless
// SetLockTimeout configured a bound, in which case ErrLockContention is
// returned once the deadline passes.
func (b *Buffer) acquireHeaderLock() error {
	var deadline time.Time
	if b.lockTimeout > 0 {
		deadline = time.Now().Add(b.lockTimeout)
	}

	for {
		hdr, err := b.Header()
		if err != nil {
			return err
		}
		if !hdr.Locked() {
			hdr.lock()
			if err := b.source.Write(b.headerAddr, hdr.Encode()); err != nil {
				return err
			}
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrLockContention
		}
		time.Sleep(spinInterval)
	}
}

// forceUnlock re-reads the header and clears the lock flag, swallowing any
// read/write error: it only runs on an already-failing path and must never
// mask the original error by panicking, but a failure here means the lock
// flag may remain set — acceptable only because the protocol is advisory
// between cooperating modules, as documented in the distilled spec's
// concurrency section.
func (b *Buffer) forceUnlock() {
	hdr, err := b.Header()
	if err != nil {
		return
	}
	hdr.unlock()
	_ = b.source.Write(b.headerAddr, hdr.Encode())
}

// FromAddress attempts to reconstruct a Buffer handle for a region that
// may already exist at addr. It returns (nil, false) — never an error —
// because probing arbitrary addresses during discovery is expected to
// legitimately hit unreadable memory; distinguishing "unreadable" from
// "readable but not a buffer" is left as an Open Question the distilled
// spec explicitly permits either answer to.
func FromAddress(source MemorySource, addr uint64) (*Buffer, bool) {
	raw, ok := source.SafeRead(addr, MagicSize)
	if !ok {
		return nil, false
	}
	var got BufferMagic
	copy(got[:], raw)
	if !got.Equals(Magic()) {
		return nil, false
	}
	return &Buffer{source: source, address: addr, headerAddr: addr + MagicSize}, true
}

// IsBuffer reports whether addr carries this process's magic tag,
// discarding the reconstructed handle FromAddress would otherwise return.
func IsBuffer(source MemorySource, addr uint64) bool {
	_, ok := FromAddress(source, addr)
	return ok
}
