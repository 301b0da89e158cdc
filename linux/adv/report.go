// Package adv decodes LE advertising report events into beacon records.
package adv

import (
	"github.com/pkg/errors"
	"github.com/rigado/blescan"
	"github.com/rigado/blescan/linux/hci/evt"
	"github.com/rigado/blescan/sliceops"
)

const (
	// MaxEventSize is the largest HCI event packet a controller sends.
	MaxEventSize = 260

	// EventHeaderSize covers packet type, event code and parameter length.
	EventHeaderSize = evt.HeaderSize

	// offsets within the event packet
	subeventOffset = 3
	countOffset    = 4
	firstReport    = 5

	// event type, address type, address, data length
	reportHeaderSize = 9
	rssiSize         = 1

	uuidWindowSize  = 16
	uuidWindowFloor = 4
)

var (
	ErrShortEvent           = errors.New("event shorter than header")
	ErrNotLEMeta            = errors.New("not an le meta event")
	ErrNotAdvertisingReport = errors.New("not an advertising report")
	ErrMalformedReport      = errors.New("malformed advertising report")
)

// Report is one advertising report of an LE advertising report event.
// Its slices alias the event buffer it was decoded from.
type Report struct {
	EventType   uint8
	AddressType uint8
	Addr        blescan.Addr
	Data        []byte
	RSSI        int8

	// PayloadLength is the buffer index of the RSSI byte minus two. For an
	// event carrying one report it equals the event parameter length.
	PayloadLength int

	// Positional beacon fields, read relative to PayloadLength. UUID never
	// starts before the report for any report but the first.
	UUID    []byte
	Major   uint16
	Minor   uint16
	TxPower int8
}

// Beacon projects the report into a beacon record. IBeacon is set when the
// data carries iBeacon manufacturer data.
func (r Report) Beacon() blescan.Beacon {
	b := blescan.Beacon{
		Addr:    r.Addr,
		UUID:    r.UUID,
		Major:   r.Major,
		Minor:   r.Minor,
		TxPower: r.TxPower,
		RSSI:    r.RSSI,
	}
	if ib, err := ParseIBeacon(r.Data); err == nil {
		b.IBeacon = ib
	}
	return b
}

// Reports iterates the reports of one event. It is lazy and cannot be
// restarted.
type Reports struct {
	b      []byte
	count  int
	seen   int
	cursor int
	cur    Report
	err    error
}

// Decode validates the header of an LE advertising report event and returns
// an iterator over its reports. Nothing past the header is read until Next.
func Decode(b []byte) (*Reports, error) {
	if len(b) < EventHeaderSize {
		return nil, ErrShortEvent
	}
	if b[0] != evt.PktTypeEvent || b[1] != evt.LEMetaCode {
		return nil, ErrNotLEMeta
	}

	plen := int(b[2])
	if len(b) < EventHeaderSize+plen {
		return nil, errors.Wrapf(ErrMalformedReport, "event declares %d parameter bytes, have %d", plen, len(b)-EventHeaderSize)
	}
	b = b[:EventHeaderSize+plen]

	if len(b) <= subeventOffset {
		return nil, ErrShortEvent
	}
	if b[subeventOffset] != evt.LEAdvertisingReportSubCode {
		return nil, ErrNotAdvertisingReport
	}
	if len(b) <= countOffset {
		return nil, errors.Wrap(ErrMalformedReport, "missing report count")
	}

	return &Reports{
		b:      b,
		count:  int(b[countOffset]),
		cursor: firstReport,
	}, nil
}

// Count returns the number of reports the event declares.
func (r *Reports) Count() int { return r.count }

// Consumed returns the number of payload bytes read so far, starting at the
// report count.
func (r *Reports) Consumed() int { return r.cursor - countOffset }

// Report returns the report decoded by the last successful Next.
func (r *Reports) Report() Report { return r.cur }

// Err returns the error that stopped the iteration, if any.
func (r *Reports) Err() error { return r.err }

// Next decodes the report at the cursor. It returns false once all declared
// reports are read or a report would run past the end of the event.
func (r *Reports) Next() bool {
	if r.err != nil || r.seen >= r.count {
		return false
	}

	b := r.b
	start := r.cursor
	if start+reportHeaderSize > len(b) {
		r.err = errors.Wrapf(ErrMalformedReport, "report %d: header at %d overruns %d byte event", r.seen, start, len(b))
		return false
	}

	length := int(b[start+8])
	dataStart := start + reportHeaderSize
	end := dataStart + length
	if end+rssiSize > len(b) {
		r.err = errors.Wrapf(ErrMalformedReport, "report %d: data length %d overruns %d byte event", r.seen, length, len(b))
		return false
	}

	rep := Report{
		EventType:   b[start],
		AddressType: b[start+1],
		Data:        b[dataStart:end:end],
		RSSI:        int8(b[end]),
		TxPower:     int8(b[end-1]),
	}
	copy(rep.Addr[:], b[start+2:start+8])

	// end >= 14, so every index below is inside the report
	p := end - 2
	rep.PayloadLength = p
	rep.Major = uint16(b[p-3])<<8 | uint16(b[p-2])
	rep.Minor = uint16(b[p-1])<<8 | uint16(b[p])
	rep.UUID = uuidWindow(b, start, p)

	r.cur = rep
	r.cursor = end + rssiSize
	r.seen++
	return true
}

// uuidWindow places the window as if the report at start were the first of
// its event, then clamps it to the report.
func uuidWindow(b []byte, start, p int) []byte {
	base := start - firstReport
	end := p - base - 3
	lo := uuidWindowFloor
	if end >= uuidWindowSize {
		lo = end - uuidWindowSize
	}
	lo, end = lo+base, end+base
	if base > 0 && lo < start {
		lo = start
	}
	return sliceops.Window(b, lo, end)
}

// Encode builds an LE advertising report event carrying reports. Only
// EventType, AddressType, Addr, Data and RSSI are used; the positional
// fields are derived from Data on decode.
func Encode(reports []Report) ([]byte, error) {
	if len(reports) > 0xff {
		return nil, errors.Errorf("too many reports: %d", len(reports))
	}

	b := make([]byte, firstReport, MaxEventSize)
	b[0] = evt.PktTypeEvent
	b[1] = evt.LEMetaCode
	b[subeventOffset] = evt.LEAdvertisingReportSubCode
	b[countOffset] = byte(len(reports))

	for i, r := range reports {
		if len(r.Data) > 0xff {
			return nil, errors.Errorf("report %d: data too long: %d", i, len(r.Data))
		}
		b = append(b, r.EventType, r.AddressType)
		b = append(b, r.Addr[:]...)
		b = append(b, byte(len(r.Data)))
		b = append(b, r.Data...)
		b = append(b, byte(r.RSSI))
	}

	plen := len(b) - EventHeaderSize
	if plen > 0xff {
		return nil, errors.Errorf("event too long: %d parameter bytes", plen)
	}
	b[2] = byte(plen)
	return b, nil
}

// Beacons decodes event b and passes the beacon of every report to fn.
// Reports decoded before a malformed one are still delivered.
func Beacons(b []byte, fn blescan.BeaconHandler) error {
	rs, err := Decode(b)
	if err != nil {
		return err
	}
	for rs.Next() {
		fn(rs.Report().Beacon())
	}
	return rs.Err()
}
