package membuf

import "testing"

// committedEnumeratorFor builds a PageEnumerator reporting each of the
// given buffer base addresses as a Committed region, the way a real
// syspage implementation would after CreateBuffer commits memory there.
func committedEnumeratorFor(bases ...uint64) func() PageEnumerator {
	return func() PageEnumerator {
		recs := make([]PageRecord, len(bases))
		for i, b := range bases {
			recs[i] = PageRecord{Base: b, Size: 4096, State: Committed}
		}
		return NewSliceEnumerator(recs)
	}
}

func TestDiscoveryFindsCreatedBuffers(t *testing.T) {
	mem := newFakeMemory()
	const a1 = 0x10000000
	const a2 = 0x20000000
	if _, err := CreateBuffer(mem, a1, 4096, false); err != nil {
		t.Fatalf("CreateBuffer a1: %v", err)
	}
	if _, err := CreateBuffer(mem, a2, 4096, false); err != nil {
		t.Fatalf("CreateBuffer a2: %v", err)
	}

	d := NewDiscovery(mem)
	found := d.Scan(committedEnumeratorFor(a1, a2)())

	if len(found) != 2 {
		t.Fatalf("found %d buffers, want 2", len(found))
	}
	seen := map[uint64]bool{}
	for _, b := range found {
		hdr, err := b.Header()
		if err != nil {
			t.Fatalf("Header: %v", err)
		}
		if hdr.DataPtr != b.Address()+BufferOverhead {
			t.Errorf("DataPtr = %#x, want %#x", hdr.DataPtr, b.Address()+BufferOverhead)
		}
		seen[b.Address()] = true
	}
	if !seen[a1] || !seen[a2] {
		t.Fatalf("expected to find both %#x and %#x, saw %v", a1, a2, seen)
	}
}

func TestDiscoveryIsIdempotentAcrossScans(t *testing.T) {
	mem := newFakeMemory()
	const a1 = 0x10000000
	if _, err := CreateBuffer(mem, a1, 4096, false); err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	d := NewDiscovery(mem)
	first := d.Scan(committedEnumeratorFor(a1)())
	second := d.Scan(committedEnumeratorFor(a1)())

	if len(first) != len(second) {
		t.Fatalf("scan counts differ: %d vs %d", len(first), len(second))
	}
	if first[0].Address() != second[0].Address() {
		t.Fatalf("scan results differ: %#x vs %#x", first[0].Address(), second[0].Address())
	}
}

func TestGetBuffersInRangeFiltersByWindow(t *testing.T) {
	mem := newFakeMemory()
	const a1 = 0x10000000
	const a2 = 0x30000000
	if _, err := CreateBuffer(mem, a1, 4096, false); err != nil {
		t.Fatalf("CreateBuffer a1: %v", err)
	}
	if _, err := CreateBuffer(mem, a2, 4096, false); err != nil {
		t.Fatalf("CreateBuffer a2: %v", err)
	}

	d := NewDiscovery(mem)
	newPages := committedEnumeratorFor(a1, a2)
	window := NewAddressRange(0x20000000, 0x40000000)

	found, err := d.GetBuffersInRange(newPages, 1, window, false)
	if err != nil {
		t.Fatalf("GetBuffersInRange: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d buffers, want 1", len(found))
	}
	if found[0].Address() != a2 {
		t.Fatalf("found buffer at %#x, want %#x", found[0].Address(), a2)
	}
}

func TestGetBuffersFiltersByMinFree(t *testing.T) {
	mem := newFakeMemory()
	const a1 = 0x10000000
	buf, err := CreateBuffer(mem, a1, BufferOverhead+64, false)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if _, err := buf.Append(make([]byte, 60)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	d := NewDiscovery(mem)
	newPages := committedEnumeratorFor(a1)

	found, err := d.GetBuffers(newPages, 32, false)
	if err != nil {
		t.Fatalf("GetBuffers: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no buffers with >=32 bytes free, got %d", len(found))
	}

	found, err = d.GetBuffers(newPages, 1, false)
	if err != nil {
		t.Fatalf("GetBuffers: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 buffer with >=1 byte free, got %d", len(found))
	}
}

func TestDiscoveryUsesCacheWhenRequested(t *testing.T) {
	mem := newFakeMemory()
	const a1 = 0x10000000
	if _, err := CreateBuffer(mem, a1, 4096, false); err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	d := NewDiscovery(mem)
	calls := 0
	newPages := func() PageEnumerator {
		calls++
		return committedEnumeratorFor(a1)()
	}

	if _, err := d.GetBuffers(newPages, 0, true); err != nil {
		t.Fatalf("GetBuffers: %v", err)
	}
	if _, err := d.GetBuffers(newPages, 0, true); err != nil {
		t.Fatalf("GetBuffers: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 scan with useCache=true, got %d", calls)
	}

	if _, err := d.GetBuffers(newPages, 0, false); err != nil {
		t.Fatalf("GetBuffers: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a fresh scan with useCache=false, got %d total calls", calls)
	}
}
