package membuf

import (
	"fmt"
	"sync"
)

// DefaultRetries is how many times Helper.CreateBuffer re-runs Placement
// and the commit attempt before surfacing the last error, absorbing the
// race window between a Placement scan and the commit call during which
// another allocator (in this process or another) may grab the region.
const DefaultRetries = 3

// Helper composes Placement, Buffer, and Discovery behind the single
// entry point the distilled spec's API surface describes: find an
// existing buffer meeting a constraint, or create one.
type Helper struct {
	Source   MemorySource
	NewPages func() PageEnumerator
	Geometry Placement

	mu        sync.Mutex
	discovery *Discovery
}

// NewHelper builds a Helper. newPages must return a fresh, single-pass
// PageEnumerator each time it is called, since PageEnumerators are not
// restartable.
func NewHelper(source MemorySource, newPages func() PageEnumerator, geometry Placement) *Helper {
	return &Helper{
		Source:   source,
		NewPages: newPages,
		Geometry: geometry,
	}
}

func (h *Helper) disc() *Discovery {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.discovery == nil {
		h.discovery = NewDiscovery(h.Source)
	}
	return h.discovery
}

// FindBufferLocation runs Placement only, without committing anything.
func (h *Helper) FindBufferLocation(size uint64, window AddressRange) (PlacementResult, error) {
	return h.Geometry.Place(h.NewPages(), size, window)
}

// CreateBuffer finds a placement and commits a buffer there, retrying up
// to retries times (DefaultRetries if retries <= 0) if either the
// placement scan or the commit fails — both are treated as the same kind
// of race-on-commit failure per the distilled spec's retry-loop semantics,
// and only the last error is surfaced once retries are exhausted.
//
// The whole retry loop runs under the Helper's mutex so that two
// goroutines in this process driving the same Helper do not independently
// race for the same placement.
func (h *Helper) CreateBuffer(size uint64, window AddressRange, retries int) (*Buffer, error) {
	return h.CreateBufferAligned(size, window, retries, DefaultAlignment)
}

// CreateBufferAligned is CreateBuffer with an explicit initial alignment
// for the new buffer's header, passed through to CreateBufferAligned on
// each placement attempt.
func (h *Helper) CreateBufferAligned(size uint64, window AddressRange, retries int, alignment uint32) (*Buffer, error) {
	if retries <= 0 {
		retries = DefaultRetries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		placed, err := h.Geometry.Place(h.NewPages(), size, window)
		if err != nil {
			lastErr = err
			continue
		}
		buf, err := CreateBufferAligned(h.Source, placed.Address, placed.TotalSize, false, alignment)
		if err != nil {
			lastErr = err
			continue
		}
		return buf, nil
	}

	return nil, fmt.Errorf("membuf: create buffer after %d attempts: %w", retries, lastErr)
}

// GetBuffers returns discovered buffers with at least minFreeBytes
// remaining, using the Helper's shared Discovery cache.
func (h *Helper) GetBuffers(minFreeBytes uint64, useCache bool) ([]*Buffer, error) {
	return h.disc().GetBuffers(h.NewPages, minFreeBytes, useCache)
}

// GetBuffersInRange returns discovered buffers fully contained in window
// with at least minFreeBytes remaining, using the Helper's shared
// Discovery cache.
func (h *Helper) GetBuffersInRange(minFreeBytes uint64, window AddressRange, useCache bool) ([]*Buffer, error) {
	return h.disc().GetBuffersInRange(h.NewPages, minFreeBytes, window, useCache)
}

// FullRange is the window ([0, max uint64)) to pass to CreateBuffer or
// GetBuffersInRange when a caller does not want a window constraint.
var FullRange = AddressRange{Start: 0, End: ^uint64(0)}
