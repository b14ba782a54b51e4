package membuf

import "fmt"

// fakeMemory is a pure-Go, in-test MemorySource backed by ordinary byte
// slices instead of real OS memory. It lets the placement/buffer/discovery
// property tests run without requiring actual commit permissions, matching
// this repository's documented testing approach: a synthetic fake
// PageEnumerator/MemorySource pair is a test-only seam, never a production
// code path.
type fakeMemory struct {
	regions []fakeRegion
}

type fakeRegion struct {
	base uint64
	data []byte
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{}
}

func (f *fakeMemory) find(addr uint64, length int) (*fakeRegion, int, bool) {
	for i := range f.regions {
		r := &f.regions[i]
		if addr >= r.base && addr+uint64(length) <= r.base+uint64(len(r.data)) {
			return r, int(addr - r.base), true
		}
	}
	return nil, 0, false
}

func (f *fakeMemory) Read(addr uint64, length int) ([]byte, error) {
	r, off, ok := f.find(addr, length)
	if !ok {
		return nil, ErrUnreadable
	}
	out := make([]byte, length)
	copy(out, r.data[off:off+length])
	return out, nil
}

func (f *fakeMemory) SafeRead(addr uint64, length int) ([]byte, bool) {
	buf, err := f.Read(addr, length)
	if err != nil {
		return nil, false
	}
	return buf, true
}

func (f *fakeMemory) Write(addr uint64, buf []byte) error {
	r, off, ok := f.find(addr, len(buf))
	if !ok {
		return ErrUnwritable
	}
	copy(r.data[off:off+len(buf)], buf)
	return nil
}

func (f *fakeMemory) Commit(addr uint64, length uint64) error {
	for _, r := range f.regions {
		existing := AddressRange{Start: r.base, End: r.base + uint64(len(r.data))}
		if existing.Overlaps(AddressRange{Start: addr, End: addr + length}) {
			return fmt.Errorf("%w: region already committed", ErrCommitFailed)
		}
	}
	f.regions = append(f.regions, fakeRegion{base: addr, data: make([]byte, length)})
	return nil
}

var _ MemorySource = (*fakeMemory)(nil)
