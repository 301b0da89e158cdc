package hci

import "time"

// HCI Packet types
const (
	PktTypeCommand uint8 = 0x01
)

const (
	// command packet header: type, opcode, parameter length
	cmdHeaderSize = 4

	DefaultCommandTimeout = 1000 * time.Millisecond
	DefaultResetWait      = time.Second
)
