package blescan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BeaconHandler handles a decoded beacon.
type BeaconHandler func(b Beacon)

// BeaconFilter returns true if the beacon matches specified condition.
type BeaconFilter func(b Beacon) bool

// Beacon is the record projected out of one advertising report.
//
// UUID, Major, Minor and TxPower are read at fixed offsets from the end of the
// report and are only meaningful for iBeacon-shaped payloads. IBeacon holds the
// typed parse of the same payload when it is one.
type Beacon struct {
	Addr    Addr
	UUID    []byte
	Major   uint16
	Minor   uint16
	TxPower int8
	RSSI    int8

	IBeacon *IBeacon
}

// IBeacon is a proximity beacon carried in Apple manufacturer data.
type IBeacon struct {
	UUID          uuid.UUID
	Major         uint16
	Minor         uint16
	MeasuredPower int8
}

var BeaconMapKeys = struct {
	MAC           string
	UUID          string
	Major         string
	Minor         string
	TxPower       string
	RSSI          string
	IBeacon       string
	MeasuredPower string
}{
	MAC:           "mac",
	UUID:          "uuid",
	Major:         "major",
	Minor:         "minor",
	TxPower:       "txPower",
	RSSI:          "rssi",
	IBeacon:       "ibeacon",
	MeasuredPower: "measuredPower",
}

// UUIDString renders the UUID window as space separated hex bytes.
func (b Beacon) UUIDString() string {
	ss := make([]string, 0, len(b.UUID))
	for _, v := range b.UUID {
		ss = append(ss, fmt.Sprintf("%02x", v))
	}
	return strings.Join(ss, " ")
}

// String renders the two console lines for the beacon.
func (b Beacon) String() string {
	return fmt.Sprintf("UUID: %s\nMAC %s :: Major %d :: Minor %d :: TX Power %d :: RSSI %d",
		b.UUIDString(), b.Addr, b.Major, b.Minor, b.TxPower, b.RSSI)
}

func (i IBeacon) String() string {
	return fmt.Sprintf("iBeacon %s :: Major %d :: Minor %d :: Measured Power %d",
		i.UUID, i.Major, i.Minor, i.MeasuredPower)
}

func (b Beacon) ToMap() map[string]interface{} {
	keys := BeaconMapKeys
	m := map[string]interface{}{
		keys.MAC:     b.Addr.String(),
		keys.UUID:    fmt.Sprintf("%x", b.UUID),
		keys.Major:   b.Major,
		keys.Minor:   b.Minor,
		keys.TxPower: b.TxPower,
		keys.RSSI:    b.RSSI,
	}

	if b.IBeacon != nil {
		m[keys.IBeacon] = map[string]interface{}{
			keys.UUID:          b.IBeacon.UUID.String(),
			keys.Major:         b.IBeacon.Major,
			keys.Minor:         b.IBeacon.Minor,
			keys.MeasuredPower: b.IBeacon.MeasuredPower,
		}
	}

	return m
}

// AddrFilter matches beacons sent from a.
func AddrFilter(a Addr) BeaconFilter {
	return func(b Beacon) bool {
		return b.Addr == a
	}
}
