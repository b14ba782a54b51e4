package membuf

import "fmt"

// AddressRange is a half-open interval [Start, End) over the 64-bit address
// space. It carries no behavior beyond containment and overlap tests; every
// other component treats it as a plain value.
type AddressRange struct {
	Start uint64
	End   uint64
}

// NewAddressRange builds an AddressRange, panicking if start > end since
// that would violate the type's only invariant.
func NewAddressRange(start, end uint64) AddressRange {
	if start > end {
		panic(fmt.Sprintf("membuf: invalid range [%#x, %#x)", start, end))
	}
	return AddressRange{Start: start, End: end}
}

// Len returns the number of addresses covered by the range.
func (r AddressRange) Len() uint64 {
	return r.End - r.Start
}

// Contains reports whether inner lies entirely within r.
func (r AddressRange) Contains(inner AddressRange) bool {
	return inner.Start >= r.Start && inner.End <= r.End
}

// ContainsAddr reports whether a single address lies within r.
func (r AddressRange) ContainsAddr(addr uint64) bool {
	return addr >= r.Start && addr < r.End
}

// Overlaps reports whether r and other share at least one address.
func (r AddressRange) Overlaps(other AddressRange) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r AddressRange) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Start, r.End)
}
