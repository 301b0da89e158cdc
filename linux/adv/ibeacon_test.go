package adv

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseIBeacon(t *testing.T) {
	u := uuid.MustParse("f7826da6-4fa2-4e98-8024-bc5b71e0893e")
	ib, err := ParseIBeacon(IBeaconData(u, 0xbeef, 0x0102, -62))
	if err != nil {
		t.Fatal(err)
	}
	if ib.UUID != u || ib.Major != 0xbeef || ib.Minor != 0x0102 || ib.MeasuredPower != -62 {
		t.Fatalf("got %+v", ib)
	}
}

func TestParseIBeaconRejects(t *testing.T) {
	p := testPdu{}
	p.add(types.flags, []byte{0x06})
	p.add(types.mfgdata, []byte{0x59, 0x00, 0x02, 0x15, 0x01})

	short := testPdu{}
	short.add(types.mfgdata, []byte{0x4c, 0x00, 0x02, 0x15, 0x01, 0x02})

	tests := [][]byte{
		nil,
		{0x02, 0x01, 0x06},
		p.bytes(),
		short.bytes(),
		{0x1a, 0xff, 0x4c, 0x00},
	}
	for _, b := range tests {
		if _, err := ParseIBeacon(b); err == nil {
			t.Errorf("%x: expected error", b)
		}
	}
}
