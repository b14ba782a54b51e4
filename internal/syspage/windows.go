//go:build windows

package syspage

import (
	"github.com/elyor0529/membuf"
	"golang.org/x/sys/windows"
)

type windowsEnumerator struct {
	handle      windows.Handle
	closeHandle bool
	next        uintptr
	max         uintptr
	done        bool
}

func newEnumerator(pid int) membuf.PageEnumerator {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)

	e := &windowsEnumerator{
		next: si.MinimumApplicationAddress,
		max:  si.MaximumApplicationAddress,
	}

	if pid == 0 {
		e.handle = windows.CurrentProcess()
		return e
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, uint32(pid))
	if err != nil {
		e.done = true
		return e
	}
	e.handle = h
	e.closeHandle = true
	return e
}

// Next implements membuf.PageEnumerator via repeated VirtualQueryEx calls,
// each advancing by the previous region's size. A failed query — or
// running past the process's maximum application address — ends the
// sequence, matching the distilled spec's "failures terminate the
// sequence, no partial panic" requirement.
func (e *windowsEnumerator) Next() (membuf.PageRecord, bool) {
	if e.done || e.next > e.max {
		e.closeIfNeeded()
		return membuf.PageRecord{}, false
	}

	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQueryEx(e.handle, e.next, &mbi); err != nil {
		e.done = true
		e.closeIfNeeded()
		return membuf.PageRecord{}, false
	}

	rec := membuf.PageRecord{
		Base:       uint64(mbi.BaseAddress),
		Size:       uint64(mbi.RegionSize),
		State:      stateFrom(mbi.State),
		Protection: mbi.Protect,
	}

	if mbi.RegionSize == 0 {
		// Defend against a pathological zero-size region wedging the
		// walk in an infinite loop; treat it as end of sequence.
		e.done = true
		e.closeIfNeeded()
		return membuf.PageRecord{}, false
	}
	e.next = mbi.BaseAddress + mbi.RegionSize

	return rec, true
}

func (e *windowsEnumerator) closeIfNeeded() {
	if e.closeHandle {
		windows.CloseHandle(e.handle)
		e.closeHandle = false
	}
}

func stateFrom(winState uint32) membuf.PageState {
	switch winState {
	case windows.MEM_FREE:
		return membuf.Free
	case windows.MEM_RESERVE:
		return membuf.Reserved
	case windows.MEM_COMMIT:
		return membuf.Committed
	default:
		return membuf.Free
	}
}
