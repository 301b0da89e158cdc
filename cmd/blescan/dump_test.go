package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rigado/blescan"
	"github.com/rigado/blescan/linux/adv"
)

const testDump = `HCI sniffer - Bluetooth packet analyzer ver 5.50
device: hci0 snap_len: 1500 filter: 0xffffffffffffffff
< 01 0C 20 02 01 00
> 04 0E 04 01 0C 20 00
> 04 3E 14 02 01 00 00 66 55 44 33 22 11 08 AA BB CC 01 02 03 
  04 C5 C4
043e0202 00
`

func TestReadDump(t *testing.T) {
	var got [][]byte
	err := readDump(strings.NewReader(testDump), func(b []byte) {
		got = append(got, b)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{0x04, 0x0e, 0x04, 0x01, 0x0c, 0x20, 0x00},
		{0x04, 0x3e, 0x14, 0x02, 0x01, 0x00, 0x00, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11,
			0x08, 0xaa, 0xbb, 0xcc, 0x01, 0x02, 0x03, 0x04, 0xc5, 0xc4},
		{0x04, 0x3e, 0x02, 0x02, 0x00},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got [% x]", got)
	}

	var beacons []blescan.Beacon
	for _, b := range got {
		adv.Beacons(b, func(bc blescan.Beacon) { beacons = append(beacons, bc) })
	}
	if len(beacons) != 1 {
		t.Fatalf("got %d beacons", len(beacons))
	}
	bc := beacons[0]
	if bc.Major != 0x0102 || bc.Minor != 0x0304 || bc.TxPower != -59 || bc.RSSI != -60 {
		t.Fatalf("beacon %+v", bc)
	}
}

func TestVerifyEvent(t *testing.T) {
	b, err := adv.Encode([]adv.Report{
		{Addr: blescan.Addr{1, 2, 3, 4, 5, 6}, Data: []byte{0x02, 0x01, 0x06, 0x01, 0x02}, RSSI: -40},
		{Addr: blescan.Addr{6, 5, 4, 3, 2, 1}, Data: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, RSSI: -80},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := verifyEvent(b); err != nil {
		t.Fatal(err)
	}

	// trailing bytes past the declared length are ignored
	if err := verifyEvent(append(b, 0xff)); err != nil {
		t.Fatal(err)
	}

	bad := append([]byte(nil), b...)
	bad[13] = 0xf0
	if err := verifyEvent(bad); err == nil {
		t.Fatal("expected error")
	}

	if err := verifyEvent([]byte{0x04, 0x0e, 0x04, 0x01, 0x0c, 0x20, 0x00}); !foreignEvent(err) {
		t.Fatalf("got %v", err)
	}
}
