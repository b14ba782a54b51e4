package cmd

import (
	"fmt"

	"github.com/elyor0529/membuf"
	"github.com/elyor0529/membuf/internal/sysmem"
	"github.com/elyor0529/membuf/internal/syspage"
)

// resolveTarget builds the MemorySource and PageEnumerator factory for the
// process named by the --pid flag. PID zero means the current process.
func resolveTarget() (membuf.MemorySource, func() membuf.PageEnumerator) {
	if PID == 0 {
		return sysmem.NewLocal(), syspage.NewFunc(0)
	}
	return sysmem.NewRemote(PID), syspage.NewFunc(PID)
}

// buildWindow validates the --min/--max flag pair before constructing an
// AddressRange, since NewAddressRange panics on an inverted range and min/max
// come directly from user input.
func buildWindow(min, max uint64) (membuf.AddressRange, error) {
	if min > max {
		return membuf.AddressRange{}, fmt.Errorf("--min (%#x) must not exceed --max (%#x)", min, max)
	}
	return membuf.NewAddressRange(min, max), nil
}

func resolveGeometry() (membuf.Placement, error) {
	pageSize, granularity, err := sysmem.SystemInfo()
	if err != nil {
		return membuf.Placement{}, err
	}
	return membuf.NewPlacement(pageSize, granularity), nil
}
