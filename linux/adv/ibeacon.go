package adv

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rigado/blescan"
)

// ErrNotIBeacon is returned by ParseIBeacon when the data carries no
// iBeacon manufacturer data.
var ErrNotIBeacon = errors.New("not an ibeacon")

// Apple company id (little endian), iBeacon type and length.
var iBeaconPrefix = []byte{0x4c, 0x00, 0x02, 0x15}

// prefix, proximity uuid, major, minor, measured power
const iBeaconMfgLen = 4 + 16 + 2 + 2 + 1

// ParseIBeacon decodes the iBeacon manufacturer data of an advertising data
// segment.
func ParseIBeacon(data []byte) (*blescan.IBeacon, error) {
	f, err := ParseFields(data)
	if err != nil {
		return nil, errors.Wrap(err, "ibeacon")
	}
	md, ok := f.Bytes(KeyMfgData)
	if !ok || len(md) < iBeaconMfgLen || !bytes.HasPrefix(md, iBeaconPrefix) {
		return nil, ErrNotIBeacon
	}

	u, err := uuid.FromBytes(md[4:20])
	if err != nil {
		return nil, errors.Wrap(err, "ibeacon uuid")
	}
	return &blescan.IBeacon{
		UUID:          u,
		Major:         binary.BigEndian.Uint16(md[20:]),
		Minor:         binary.BigEndian.Uint16(md[22:]),
		MeasuredPower: int8(md[24]),
	}, nil
}

// IBeaconData builds the advertising data of an iBeacon: flags followed by
// the manufacturer data structure.
func IBeaconData(u uuid.UUID, major, minor uint16, pwr int8) []byte {
	md := make([]byte, 0, iBeaconMfgLen)
	md = append(md, iBeaconPrefix...)
	md = append(md, u[:]...)
	md = append(md, byte(major>>8), byte(major), byte(minor>>8), byte(minor), byte(pwr))

	b := []byte{0x02, types.flags, 0x06, byte(len(md) + 1), types.mfgdata}
	return append(b, md...)
}
