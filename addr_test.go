package blescan

import (
	"testing"
)

func TestAddrString(t *testing.T) {
	a := Addr{0x7a, 0x86, 0x9d, 0x82, 0x3a, 0x2d}
	if s := a.String(); s != "2D:3A:82:9D:86:7A" {
		t.Fatalf("expected 2D:3A:82:9D:86:7A, got %s", s)
	}
}

func TestParseAddr(t *testing.T) {
	a, err := ParseAddr("2d:3a:82:9d:86:7a")
	if err != nil {
		t.Fatal(err)
	}
	if a != (Addr{0x7a, 0x86, 0x9d, 0x82, 0x3a, 0x2d}) {
		t.Fatalf("unexpected bytes % x", a[:])
	}
	if a.String() != "2D:3A:82:9D:86:7A" {
		t.Fatalf("round trip mismatch: %s", a)
	}

	for _, bad := range []string{"", "zz:00:00:00:00:00", "01:02:03", "01:02:03:04:05:06:07"} {
		if _, err := ParseAddr(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
