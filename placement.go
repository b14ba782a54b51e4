package membuf

// DefaultPageSize is the minimum effective page size Placement rounds
// total buffer sizes up to when the system page size is smaller (it never
// is in practice, but the distilled spec specifies the max() defensively).
const DefaultPageSize uint64 = 4 * 1024

// Placement holds the system geometry Placement.Place computes against:
// the real page size and allocation granularity of the target, queried
// once by the caller (normally via sysmem.SystemInfo) and threaded through
// explicitly so the algorithm itself never touches the OS.
type Placement struct {
	PageSize    uint64
	Granularity uint64
}

// NewPlacement builds a Placement from raw system geometry, applying the
// distilled spec's Step 1 effective-page-size adjustment: the effective
// page size is the larger of DefaultPageSize and the system's actual page
// size, rounded so it remains a multiple of the system page size.
func NewPlacement(systemPageSize, allocationGranularity uint64) Placement {
	p := systemPageSize
	if p < DefaultPageSize {
		p = DefaultPageSize
	}
	if systemPageSize > 0 && p%systemPageSize != 0 {
		p = roundUp(p, systemPageSize)
	}
	return Placement{PageSize: p, Granularity: allocationGranularity}
}

// PlacementResult is what Place returns on success: a start address and a
// total size, both already rounded and validated against the window.
type PlacementResult struct {
	Address   uint64
	TotalSize uint64
}

// Place runs the four-candidate placement algorithm described in the
// specification's Placement component: it computes the total committable
// size for a payload of size s, then scans every Free PageRecord produced
// by pages, in order, looking for a granularity-aligned start address
// whose [address, address+total) lies entirely inside both the page and
// the caller's window.
//
// It returns ErrNoSuitableRegion if no page yields an acceptable
// candidate.
func (p Placement) Place(pages PageEnumerator, size uint64, window AddressRange) (PlacementResult, error) {
	total := roundUp(size+BufferOverhead, p.PageSize)

	for {
		rec, ok := pages.Next()
		if !ok {
			break
		}
		if rec.State != Free {
			continue
		}
		page := rec.Range()
		if !page.Overlaps(window) {
			continue
		}
		if addr, ok := p.candidateFor(page, window, total); ok {
			return PlacementResult{Address: addr, TotalSize: total}, nil
		}
	}

	return PlacementResult{}, ErrNoSuitableRegion
}

// candidateFor tries the four anchors in the order the spec lists them and
// returns the first whose [c, c+total) is contained in both page and
// window.
func (p Placement) candidateFor(page, window AddressRange, total uint64) (uint64, bool) {
	candidates := p.candidates(page, window, total)
	for _, c := range candidates {
		candRange := AddressRange{Start: c, End: c + total}
		if page.Contains(candRange) && window.Contains(candRange) {
			return c, true
		}
	}
	return 0, false
}

// candidates computes the four anchor addresses in the specified order.
// round_down(page.end-total, G) and round_down(max-total, G) are computed
// with saturating subtraction so an oversized total never wraps a uint64
// around to a huge bogus address — it instead produces an anchor of 0,
// which the subsequent containment check correctly rejects.
func (p Placement) candidates(page, window AddressRange, total uint64) [4]uint64 {
	g := p.Granularity
	return [4]uint64{
		roundDown(satSub(page.End, total), g), // 1: highest, anchored to page end
		roundUp(page.Start, g),                // 2: lowest, anchored to page start
		roundDown(satSub(window.End, total), g), // 3: highest, anchored to window end
		roundUp(window.Start, g),              // 4: lowest, anchored to window start
	}
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
