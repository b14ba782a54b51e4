package membuf

import "testing"

const testGranularity = 0x10000 // 64 KiB, matching the Windows constant

func TestPlacementBasicFit(t *testing.T) {
	p := NewPlacement(4096, testGranularity)
	pages := NewSliceEnumerator([]PageRecord{
		{Base: 0x10000000, Size: 0x100000, State: Free},
	})

	result, err := p.Place(pages, 256, FullRange)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if result.Address%testGranularity != 0 {
		t.Errorf("address %#x not granularity-aligned", result.Address)
	}
	if result.TotalSize%p.PageSize != 0 {
		t.Errorf("total size %#x not a multiple of page size", result.TotalSize)
	}
	if result.TotalSize < 256+BufferOverhead {
		t.Errorf("total size %d too small for payload", result.TotalSize)
	}
	region := AddressRange{Start: result.Address, End: result.Address + result.TotalSize}
	page := AddressRange{Start: 0x10000000, End: 0x10000000 + 0x100000}
	if !page.Contains(region) {
		t.Errorf("placed region %v escapes the only free page %v", region, page)
	}
}

func TestPlacementWindowConstraint(t *testing.T) {
	p := NewPlacement(4096, testGranularity)
	window := NewAddressRange(0x10000000, 0x20000000)
	pages := NewSliceEnumerator([]PageRecord{
		{Base: 0, Size: 0x7fffffffffff, State: Free},
	})

	result, err := p.Place(pages, 256, window)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	region := AddressRange{Start: result.Address, End: result.Address + result.TotalSize}
	if !window.Contains(region) {
		t.Fatalf("placed region %v escapes window %v", region, window)
	}
	if result.Address%testGranularity != 0 {
		t.Errorf("address %#x not granularity-aligned", result.Address)
	}
}

func TestPlacementInfeasibleWindow(t *testing.T) {
	p := NewPlacement(4096, testGranularity)
	window := NewAddressRange(0x1234, 0x1234) // zero-length, unaligned
	pages := NewSliceEnumerator([]PageRecord{
		{Base: 0, Size: 0x7fffffffffff, State: Free},
	})

	_, err := p.Place(pages, 256, window)
	if err != ErrNoSuitableRegion {
		t.Fatalf("Place error = %v, want ErrNoSuitableRegion", err)
	}
}

func TestPlacementSkipsNonFreePages(t *testing.T) {
	p := NewPlacement(4096, testGranularity)
	pages := NewSliceEnumerator([]PageRecord{
		{Base: 0x10000000, Size: 0x100000, State: Committed},
		{Base: 0x20000000, Size: 0x100000, State: Reserved},
		{Base: 0x30000000, Size: 0x100000, State: Free},
	})

	result, err := p.Place(pages, 256, FullRange)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if result.Address < 0x30000000 || result.Address >= 0x30100000 {
		t.Fatalf("expected placement in the only free page, got %#x", result.Address)
	}
}

func TestPlacementSkipsPagesOutsideWindow(t *testing.T) {
	p := NewPlacement(4096, testGranularity)
	window := NewAddressRange(0x50000000, 0x60000000)
	pages := NewSliceEnumerator([]PageRecord{
		{Base: 0x10000000, Size: 0x100000, State: Free},
		{Base: 0x55000000, Size: 0x100000, State: Free},
	})

	result, err := p.Place(pages, 256, window)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if result.Address < 0x55000000 {
		t.Fatalf("placement %#x should have come from the in-window page", result.Address)
	}
}

func TestPlacementPageLargerThanWindowIntersection(t *testing.T) {
	// Page fully contains the window: window ⊂ page. Only anchors 3/4
	// (window-relative) can possibly satisfy page containment too.
	p := NewPlacement(4096, testGranularity)
	window := NewAddressRange(0x10010000, 0x10020000)
	pages := NewSliceEnumerator([]PageRecord{
		{Base: 0x10000000, Size: 0x1000000, State: Free},
	})

	result, err := p.Place(pages, 256, window)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	region := AddressRange{Start: result.Address, End: result.Address + result.TotalSize}
	if !window.Contains(region) {
		t.Fatalf("region %v escapes window %v", region, window)
	}
}

func TestPlacementNoFreePages(t *testing.T) {
	p := NewPlacement(4096, testGranularity)
	pages := NewSliceEnumerator(nil)

	_, err := p.Place(pages, 256, FullRange)
	if err != ErrNoSuitableRegion {
		t.Fatalf("Place error = %v, want ErrNoSuitableRegion", err)
	}
}

func TestNewPlacementEffectivePageSize(t *testing.T) {
	// System page size smaller than DefaultPageSize: effective page size
	// is DefaultPageSize per the spec's max() rule.
	p := NewPlacement(1024, testGranularity)
	if p.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", p.PageSize, DefaultPageSize)
	}

	// System page size larger than DefaultPageSize is used as-is.
	p2 := NewPlacement(16*1024, testGranularity)
	if p2.PageSize != 16*1024 {
		t.Errorf("PageSize = %d, want %d", p2.PageSize, 16*1024)
	}
}
