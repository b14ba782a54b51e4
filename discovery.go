package membuf

import "sync"

// Discovery walks a PageEnumerator, probes every committed region for the
// magic tag, and caches the resulting list of Buffer handles under a
// monotonic generation counter so repeated lookups can reuse the last scan
// instead of re-walking the page map.
type Discovery struct {
	source MemorySource

	mu         sync.Mutex
	cached     []*Buffer
	generation uint64
	scanned    bool
}

// NewDiscovery builds a Discovery bound to the given MemorySource. The
// PageEnumerator is supplied per-scan (via Scan) rather than once here,
// since enumerators are single-pass and a fresh one is needed every time a
// non-cached scan is requested.
func NewDiscovery(source MemorySource) *Discovery {
	return &Discovery{source: source}
}

// Scan walks pages once, attempting FromAddress at the base of every
// Committed record — buffers always start at a granularity-aligned
// address, which is also a region base, so committed-region bases are the
// only addresses worth probing. The resulting list replaces the cache and
// the generation counter is incremented.
func (d *Discovery) Scan(pages PageEnumerator) []*Buffer {
	var found []*Buffer
	for {
		rec, ok := pages.Next()
		if !ok {
			break
		}
		if rec.State != Committed {
			continue
		}
		if buf, ok := FromAddress(d.source, rec.Base); ok {
			found = append(found, buf)
		}
	}

	d.mu.Lock()
	d.cached = found
	d.generation++
	d.scanned = true
	d.mu.Unlock()

	return found
}

// Generation returns the monotonic counter incremented by every completed
// Scan, letting callers detect whether the cache changed since they last
// looked.
func (d *Discovery) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// buffers returns the cached list, scanning first if nothing has been
// cached yet or useCache is false. newEnumerator is only called when a
// fresh scan is actually needed.
func (d *Discovery) buffers(newEnumerator func() PageEnumerator, useCache bool) []*Buffer {
	d.mu.Lock()
	needsScan := !useCache || !d.scanned
	cached := d.cached
	d.mu.Unlock()

	if !needsScan {
		return cached
	}
	return d.Scan(newEnumerator())
}

// GetBuffers returns every discovered buffer with at least minFreeBytes of
// remaining capacity. useCache true reuses the last scan; false forces a
// fresh one via newEnumerator.
func (d *Discovery) GetBuffers(newEnumerator func() PageEnumerator, minFreeBytes uint64, useCache bool) ([]*Buffer, error) {
	var out []*Buffer
	for _, b := range d.buffers(newEnumerator, useCache) {
		hdr, err := b.Header()
		if err != nil {
			continue
		}
		if hdr.Remaining() >= minFreeBytes {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBuffersInRange is GetBuffers further filtered to buffers whose entire
// payload [DataPtr, DataPtr+Size) is contained in [minAddr, maxAddr).
func (d *Discovery) GetBuffersInRange(newEnumerator func() PageEnumerator, minFreeBytes uint64, window AddressRange, useCache bool) ([]*Buffer, error) {
	var out []*Buffer
	for _, b := range d.buffers(newEnumerator, useCache) {
		hdr, err := b.Header()
		if err != nil {
			continue
		}
		payload := AddressRange{Start: hdr.DataPtr, End: hdr.DataPtr + hdr.Size}
		if hdr.Remaining() >= minFreeBytes && window.Contains(payload) {
			out = append(out, b)
		}
	}
	return out, nil
}
