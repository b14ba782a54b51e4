package membuf

import "testing"

func TestRoundUpDown(t *testing.T) {
	cases := []struct {
		n, m       uint64
		up, down   uint64
	}{
		{0, 16, 0, 0},
		{1, 16, 16, 0},
		{16, 16, 16, 16},
		{17, 16, 32, 16},
		{0x10000, 0x10000, 0x10000, 0x10000},
		{0x10001, 0x10000, 0x20000, 0x10000},
	}
	for _, c := range cases {
		if got := roundUp(c.n, c.m); got != c.up {
			t.Errorf("roundUp(%d, %d) = %d, want %d", c.n, c.m, got, c.up)
		}
		if got := roundDown(c.n, c.m); got != c.down {
			t.Errorf("roundDown(%d, %d) = %d, want %d", c.n, c.m, got, c.down)
		}
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := BufferHeader{
		DataPtr:   0x7ffe0000,
		Size:      4096,
		Offset:    128,
		State:     Locked,
		Alignment: 8,
	}
	decoded, err := DecodeHeader(h.Encode())
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if decoded != h {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", decoded, h)
	}
}

func TestHeaderRemainingAndCanFit(t *testing.T) {
	h := BufferHeader{Size: 100, Offset: 40}
	if got := h.Remaining(); got != 60 {
		t.Errorf("Remaining() = %d, want 60", got)
	}
	if !h.CanFit(60) {
		t.Error("CanFit(60) = false, want true")
	}
	if h.CanFit(61) {
		t.Error("CanFit(61) = true, want false")
	}
}

func TestHeaderAlign(t *testing.T) {
	h := BufferHeader{Size: 100, Offset: 1, Alignment: 4}
	h.align()
	if h.Offset != 4 {
		t.Errorf("Offset after align = %d, want 4", h.Offset)
	}

	h2 := BufferHeader{Size: 10, Offset: 9, Alignment: 4}
	h2.align()
	if h2.Offset != 10 {
		t.Errorf("align must cap at Size: Offset = %d, want 10", h2.Offset)
	}
}

func TestHeaderLockUnlock(t *testing.T) {
	h := BufferHeader{State: Unlocked}
	h.lock()
	if !h.Locked() {
		t.Fatal("expected Locked after lock()")
	}
	h.unlock()
	if h.Locked() {
		t.Fatal("expected Unlocked after unlock()")
	}
}

func TestDecodeHeaderShortBuffer(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("expected error decoding a short buffer")
	}
}
