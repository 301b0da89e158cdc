// Package cmd holds the HCI commands the scanner sends to the controller.
package cmd

import (
	"encoding/binary"
	"fmt"
)

const ogfLECtl = 0x08

func opCode(ogf, ocf int) int { return ogf<<10 | ocf }

func checkLen(b []byte, n int) error {
	if len(b) < n {
		return fmt.Errorf("buffer too small: want %d, have %d", n, len(b))
	}
	return nil
}

// LESetEventMask implements LE Set Event Mask (0x08|0x0001) [Vol 2, Part E, 7.8.1]
type LESetEventMask struct {
	LEEventMask uint64
}

func (c *LESetEventMask) String() string { return "LE Set Event Mask (0x08|0x0001)" }

// OpCode returns the opcode of the command.
func (c *LESetEventMask) OpCode() int { return opCode(ogfLECtl, 0x0001) }

// Len returns the length of the command.
func (c *LESetEventMask) Len() int { return 8 }

// Marshal serializes the command parameters into binary form.
func (c *LESetEventMask) Marshal(b []byte) error {
	if err := checkLen(b, c.Len()); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, c.LEEventMask)
	return nil
}

// LESetScanParameters implements LE Set Scan Parameters (0x08|0x000B) [Vol 2, Part E, 7.8.10]
type LESetScanParameters struct {
	LEScanType           uint8
	LEScanInterval       uint16
	LEScanWindow         uint16
	OwnAddressType       uint8
	ScanningFilterPolicy uint8
}

func (c *LESetScanParameters) String() string { return "LE Set Scan Parameters (0x08|0x000B)" }

// OpCode returns the opcode of the command.
func (c *LESetScanParameters) OpCode() int { return opCode(ogfLECtl, 0x000B) }

// Len returns the length of the command.
func (c *LESetScanParameters) Len() int { return 7 }

// Marshal serializes the command parameters into binary form.
func (c *LESetScanParameters) Marshal(b []byte) error {
	if err := checkLen(b, c.Len()); err != nil {
		return err
	}
	b[0] = c.LEScanType
	binary.LittleEndian.PutUint16(b[1:], c.LEScanInterval)
	binary.LittleEndian.PutUint16(b[3:], c.LEScanWindow)
	b[5] = c.OwnAddressType
	b[6] = c.ScanningFilterPolicy
	return nil
}

// LESetScanEnable implements LE Set Scan Enable (0x08|0x000C) [Vol 2, Part E, 7.8.11]
type LESetScanEnable struct {
	LEScanEnable     uint8
	FilterDuplicates uint8
}

func (c *LESetScanEnable) String() string { return "LE Set Scan Enable (0x08|0x000C)" }

// OpCode returns the opcode of the command.
func (c *LESetScanEnable) OpCode() int { return opCode(ogfLECtl, 0x000C) }

// Len returns the length of the command.
func (c *LESetScanEnable) Len() int { return 2 }

// Marshal serializes the command parameters into binary form.
func (c *LESetScanEnable) Marshal(b []byte) error {
	if err := checkLen(b, c.Len()); err != nil {
		return err
	}
	b[0] = c.LEScanEnable
	b[1] = c.FilterDuplicates
	return nil
}

// StatusRP is the return parameter of commands that only report a status.
type StatusRP struct {
	Status uint8
}

// Unmarshal de-serializes the binary data and stores the result.
func (c *StatusRP) Unmarshal(b []byte) error {
	if err := checkLen(b, 1); err != nil {
		return err
	}
	c.Status = b[0]
	return nil
}
