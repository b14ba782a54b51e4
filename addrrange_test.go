package membuf

import "testing"

func TestAddressRangeContains(t *testing.T) {
	outer := NewAddressRange(0x1000, 0x2000)

	cases := []struct {
		name  string
		inner AddressRange
		want  bool
	}{
		{"exact match", outer, true},
		{"strict subset", NewAddressRange(0x1100, 0x1200), true},
		{"touches start", NewAddressRange(0x1000, 0x1100), true},
		{"touches end", NewAddressRange(0x1f00, 0x2000), true},
		{"extends past end", NewAddressRange(0x1f00, 0x2100), false},
		{"starts before", NewAddressRange(0xf00, 0x1100), false},
		{"disjoint after", NewAddressRange(0x3000, 0x4000), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := outer.Contains(c.inner); got != c.want {
				t.Errorf("Contains(%v) = %v, want %v", c.inner, got, c.want)
			}
		})
	}
}

func TestAddressRangeOverlaps(t *testing.T) {
	a := NewAddressRange(0x1000, 0x2000)

	cases := []struct {
		name string
		b    AddressRange
		want bool
	}{
		{"identical", a, true},
		{"partial overlap left", NewAddressRange(0x800, 0x1500), true},
		{"partial overlap right", NewAddressRange(0x1800, 0x2800), true},
		{"adjacent before", NewAddressRange(0x0, 0x1000), false},
		{"adjacent after", NewAddressRange(0x2000, 0x3000), false},
		{"fully disjoint", NewAddressRange(0x5000, 0x6000), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := a.Overlaps(c.b); got != c.want {
				t.Errorf("Overlaps(%v) = %v, want %v", c.b, got, c.want)
			}
			if got := c.b.Overlaps(a); got != c.want {
				t.Errorf("Overlaps is not symmetric for %v", c.b)
			}
		})
	}
}

func TestNewAddressRangePanicsOnInverted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for start > end")
		}
	}()
	NewAddressRange(10, 5)
}
