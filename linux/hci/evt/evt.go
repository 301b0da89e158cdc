// Package evt decodes the HCI events the scanner waits on.
package evt

import (
	"encoding/binary"
	"fmt"
)

// HCI packet type of an event.
const PktTypeEvent = 0x04

// Event codes [Vol 2, Part E, 7.7]
const (
	CommandCompleteCode = 0x0E
	CommandStatusCode   = 0x0F
	LEMetaCode          = 0x3E
)

// LE meta subevent codes [Vol 2, Part E, 7.7.65]
const (
	LEAdvertisingReportSubCode = 0x02
)

// HeaderSize is the size of packet type, event code and parameter length.
const HeaderSize = 3

// Split validates the header of an HCI event packet and returns its event
// code and parameters.
func Split(b []byte) (byte, []byte, error) {
	if len(b) < HeaderSize {
		return 0, nil, fmt.Errorf("short event: %d bytes", len(b))
	}
	if b[0] != PktTypeEvent {
		return 0, nil, fmt.Errorf("not an event packet: type 0x%02x", b[0])
	}
	plen := int(b[2])
	if len(b) < HeaderSize+plen {
		return 0, nil, fmt.Errorf("truncated event 0x%02x: want %d bytes, have %d", b[1], HeaderSize+plen, len(b))
	}
	return b[1], b[HeaderSize : HeaderSize+plen], nil
}

// CommandComplete is the parameters of a Command Complete event [Vol 2, Part E, 7.7.14]
type CommandComplete []byte

func (e CommandComplete) NumHCICommandPacketsWErr() (uint8, error) {
	return getByte(e, 0, 0)
}

func (e CommandComplete) CommandOpcodeWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}

func (e CommandComplete) ReturnParametersWErr() ([]byte, error) {
	if len(e) == 3 {
		return []byte{}, nil
	}
	return getBytes(e, 3, -1)
}

// CommandStatus is the parameters of a Command Status event [Vol 2, Part E, 7.7.15]
type CommandStatus []byte

func (e CommandStatus) StatusWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}

func (e CommandStatus) NumHCICommandPacketsWErr() (uint8, error) {
	return getByte(e, 1, 0)
}

func (e CommandStatus) CommandOpcodeWErr() (uint16, error) {
	return getUint16LE(e, 2, 0xffff)
}

//get or default
func getByte(b []byte, i int, def byte) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return def, err
	}
	return bb[0], nil
}

//get or default
func getUint16LE(b []byte, i int, def uint16) (uint16, error) {
	bb, err := getBytes(b, i, 2)
	if err != nil {
		return def, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func getBytes(bytes []byte, start int, count int) ([]byte, error) {
	if bytes == nil || start >= len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	if count < 0 {
		return bytes[start:], nil
	}

	end := start + count
	//end is non-inclusive
	if end > len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	return bytes[start:end], nil
}
