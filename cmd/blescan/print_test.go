package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/rigado/blescan"
)

var testBeacon = blescan.Beacon{
	Addr:    blescan.Addr{0x66, 0x55, 0x44, 0x33, 0x22, 0x11},
	UUID:    []byte{0xe2, 0xc5, 0x6d},
	Major:   258,
	Minor:   772,
	TxPower: -59,
	RSSI:    -70,
}

func TestTextPrinter(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(formatText, &buf, true)
	if err != nil {
		t.Fatal(err)
	}

	b := testBeacon
	if err := p.Print(b); err != nil {
		t.Fatal(err)
	}
	want := "UUID: e2 c5 6d\nMAC 11:22:33:44:55:66 :: Major 258 :: Minor 772 :: TX Power -59 :: RSSI -70\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	b.IBeacon = &blescan.IBeacon{UUID: uuid.MustParse("e2c56db5-dffb-48d2-b060-d0f5a71096e0"), Major: 1, Minor: 2, MeasuredPower: -59}
	if err := p.Print(b); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "iBeacon e2c56db5-dffb-48d2-b060-d0f5a71096e0 :: Major 1 :: Minor 2 :: Measured Power -59\n") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestJSONPrinter(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(formatJSON, &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Print(testBeacon); err != nil {
		t.Fatal(err)
	}
	if err := p.Print(testBeacon); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}

	var m map[string]interface{}
	if err := jsoniter.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatal(err)
	}
	if m["mac"] != "11:22:33:44:55:66" || m["uuid"] != "e2c56d" || m["major"] != float64(258) || m["rssi"] != float64(-70) {
		t.Fatalf("got %v", m)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := newPrinter("xml", &bytes.Buffer{}, false); err == nil {
		t.Fatal("expected error")
	}
}
