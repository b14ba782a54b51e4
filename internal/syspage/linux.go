//go:build linux

package syspage

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/elyor0529/membuf"
)

// linuxAddressCeiling is the canonical top of user-space on x86-64 Linux
// (47-bit virtual addresses, the common configuration). /proc/<pid>/maps
// only lists committed VMAs; everything else up to this ceiling is free,
// and the distilled spec's PageEnumerator contract requires every address
// to be covered by exactly one record, so the gaps must be synthesized.
const linuxAddressCeiling = 0x00007ffffffff000

func newEnumerator(pid int) membuf.PageEnumerator {
	records, err := readMaps(pid)
	if err != nil {
		// A failed /proc read terminates the sequence immediately rather
		// than panicking, per the distilled spec's enumeration contract.
		return membuf.NewSliceEnumerator(nil)
	}
	return membuf.NewSliceEnumerator(fillGaps(records))
}

func mapsPath(pid int) string {
	if pid == 0 {
		return "/proc/self/maps"
	}
	return fmt.Sprintf("/proc/%d/maps", pid)
}

// readMaps parses the committed VMAs out of /proc/<pid>/maps. Adjacent
// VMAs that are contiguous and share committed state are left as separate
// records; membuf.Placement only needs Free records to be maximal, so
// committed-record granularity has no effect on correctness.
func readMaps(pid int) ([]membuf.PageRecord, error) {
	f, err := os.Open(mapsPath(pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []membuf.PageRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rec, ok := parseMapsLine(scanner.Text())
		if ok {
			out = append(out, rec)
		}
	}
	return out, scanner.Err()
}

func parseMapsLine(line string) (membuf.PageRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return membuf.PageRecord{}, false
	}
	bounds := strings.SplitN(fields[0], "-", 2)
	if len(bounds) != 2 {
		return membuf.PageRecord{}, false
	}
	start, err := strconv.ParseUint(bounds[0], 16, 64)
	if err != nil {
		return membuf.PageRecord{}, false
	}
	end, err := strconv.ParseUint(bounds[1], 16, 64)
	if err != nil || end < start {
		return membuf.PageRecord{}, false
	}
	return membuf.PageRecord{
		Base:       start,
		Size:       end - start,
		State:      membuf.Committed,
		Protection: fields[1],
	}, true
}

// fillGaps inserts a Free record for every span between committed.vmas,
// before the first, and after the last up to linuxAddressCeiling, so the
// returned slice has no gaps and covers [0, linuxAddressCeiling).
func fillGaps(committed []membuf.PageRecord) []membuf.PageRecord {
	out := make([]membuf.PageRecord, 0, len(committed)*2+1)
	cursor := uint64(0)

	for _, rec := range committed {
		if rec.Base > cursor {
			out = append(out, membuf.PageRecord{Base: cursor, Size: rec.Base - cursor, State: membuf.Free})
		}
		out = append(out, rec)
		end := rec.Base + rec.Size
		if end > cursor {
			cursor = end
		}
	}

	if cursor < linuxAddressCeiling {
		out = append(out, membuf.PageRecord{Base: cursor, Size: linuxAddressCeiling - cursor, State: membuf.Free})
	}

	return out
}
