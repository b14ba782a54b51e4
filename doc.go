// Package membuf places and manages range-constrained virtual memory
// buffers inside a running process — the current one, or another process
// on the same host.
//
// Given a desired payload size and an absolute address window [min, max],
// Placement locates a committable region whose entire extent lies within
// that window, aligned to the platform's allocation granularity and
// resident inside a single free page region. Buffer then exposes that
// region as a small bump-allocator tagged with a magic marker so that any
// other cooperating module in the same process — even one loaded from a
// separately built binary sharing no language-level runtime state — can
// rediscover it later via Discovery.
//
// The motivating use case is code-cave allocation for runtime code
// patching and hooking: jump trampolines, detour thunks, and small data
// blobs frequently need to live within a bounded displacement of a target
// instruction so that relative addressing fits in a fixed-width field.
// General-purpose allocators give no such placement guarantee.
//
// This package defines the placement algorithm, the buffer layout and
// append protocol, and the discovery protocol in terms of two small
// capability interfaces, MemorySource and PageEnumerator. Concrete,
// OS-backed implementations of both live in internal/sysmem and
// internal/syspage; callers wire one of those (or a custom implementation)
// into a Helper to get a working allocator.
//
// membuf does not implement deallocation, defragmentation, growth or
// relocation of an existing buffer, freelisting within a buffer, guard
// pages, or protection changes after commit. Its locking protocol assumes
// cooperating participants that honor the magic tag and the header's lock
// flag; it is not a defense against hostile writers sharing the same
// address space.
package membuf
