package hci

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAdapterUnavailable = errors.New("no hci adapter available")
	ErrAdapterReset       = errors.New("hci adapter reset failed")
	ErrCommandTimeout     = errors.New("hci command timed out")
	ErrResetUnsupported   = errors.New("adapter reset disabled")
	ErrClosed             = errors.New("controller closed")
)

// ErrCommand is an HCI command error status [Vol 2, Part D, 1.3].
type ErrCommand uint8

// HCI error codes
const (
	ErrUnknownCommand       ErrCommand = 0x01
	ErrConnID               ErrCommand = 0x02
	ErrHardware             ErrCommand = 0x03
	ErrPageTimeout          ErrCommand = 0x04
	ErrAuth                 ErrCommand = 0x05
	ErrPINMissing           ErrCommand = 0x06
	ErrMemory               ErrCommand = 0x07
	ErrConnTimeout          ErrCommand = 0x08
	ErrConnLimit            ErrCommand = 0x09
	ErrCommandDisallowed    ErrCommand = 0x0C
	ErrRejectedResources    ErrCommand = 0x0D
	ErrUnsupportedParameter ErrCommand = 0x11
	ErrInvalidParameters    ErrCommand = 0x12
	ErrUnsupportedRemote    ErrCommand = 0x1A
	ErrUnspecified          ErrCommand = 0x1F
	ErrControllerBusy       ErrCommand = 0x3A
)

var errCommandDesc = map[ErrCommand]string{
	ErrUnknownCommand:       "Unknown HCI Command",
	ErrConnID:               "Unknown Connection Identifier",
	ErrHardware:             "Hardware Failure",
	ErrPageTimeout:          "Page Timeout",
	ErrAuth:                 "Authentication Failure",
	ErrPINMissing:           "PIN or Key Missing",
	ErrMemory:               "Memory Capacity Exceeded",
	ErrConnTimeout:          "Connection Timeout",
	ErrConnLimit:            "Connection Limit Exceeded",
	ErrCommandDisallowed:    "Command Disallowed",
	ErrRejectedResources:    "Connection Rejected due to Limited Resources",
	ErrUnsupportedParameter: "Unsupported Feature or Parameter Value",
	ErrInvalidParameters:    "Invalid HCI Command Parameters",
	ErrUnsupportedRemote:    "Unsupported Remote Feature",
	ErrUnspecified:          "Unspecified Error",
	ErrControllerBusy:       "Controller Busy",
}

func (e ErrCommand) Error() string {
	if s, ok := errCommandDesc[e]; ok {
		return fmt.Sprintf("hci: %s (0x%02X)", s, uint8(e))
	}
	return fmt.Sprintf("hci: error status 0x%02X", uint8(e))
}
