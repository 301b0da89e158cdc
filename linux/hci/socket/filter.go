package socket

import (
	"encoding/binary"
)

const (
	filterSize      = 16 // struct hci_ufilter, including tail padding
	filterTypeBits  = 31
	filterEventBits = 63

	pktTypeVendor = 0xff

	evtCommandComplete = 0x0e
	evtCommandStatus   = 0x0f
)

// Filter mirrors the kernel's HCI socket filter: a packet type mask, an event
// mask and an optional command opcode for Command Complete/Status events.
type Filter struct {
	TypeMask  uint32
	EventMask [2]uint32
	Opcode    uint16
}

// SetPacketType lets packets of type t through.
func (f *Filter) SetPacketType(t uint8) {
	if t == pktTypeVendor {
		t = 0
	}
	f.TypeMask |= 1 << (t & filterTypeBits)
}

// SetEvent lets events with code e through.
func (f *Filter) SetEvent(e uint8) {
	bit := e & filterEventBits
	f.EventMask[bit>>5] |= 1 << (bit & 31)
}

// SetOpcode restricts Command Complete/Status events to the given opcode.
func (f *Filter) SetOpcode(op uint16) {
	f.Opcode = op
}

// Marshal returns the filter in the layout expected by setsockopt(SOL_HCI, HCI_FILTER).
func (f Filter) Marshal() []byte {
	b := make([]byte, filterSize)
	binary.LittleEndian.PutUint32(b[0:], f.TypeMask)
	binary.LittleEndian.PutUint32(b[4:], f.EventMask[0])
	binary.LittleEndian.PutUint32(b[8:], f.EventMask[1])
	binary.LittleEndian.PutUint16(b[12:], f.Opcode)
	return b
}

// Match reports whether the kernel would deliver packet b through f.
// Transports without a kernel filter use it to drop packets in user space.
func (f Filter) Match(b []byte) bool {
	if len(b) == 0 {
		return false
	}

	t := b[0]
	if t == pktTypeVendor {
		t = 0
	}
	if f.TypeMask&(1<<(t&filterTypeBits)) == 0 {
		return false
	}
	if b[0] != 0x04 {
		return true
	}

	if len(b) < 2 {
		return false
	}
	e := b[1] & filterEventBits
	if f.EventMask[e>>5]&(1<<(e&31)) == 0 {
		return false
	}
	if f.Opcode == 0 {
		return true
	}

	// opcode offset within the packet: type, code, plen, then event params
	var off int
	switch b[1] {
	case evtCommandComplete:
		off = 4
	case evtCommandStatus:
		off = 5
	default:
		return true
	}
	if len(b) < off+2 {
		return false
	}
	return binary.LittleEndian.Uint16(b[off:]) == f.Opcode
}
