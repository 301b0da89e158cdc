package blescan

import (
	"time"

	"github.com/rigado/blescan/linux/hci/cmd"
)

// ControllerOption is an interface which the controller should implement to allow using configuration options
type ControllerOption interface {
	SetCommandTimeout(time.Duration) error
	SetReadTimeout(time.Duration) error
	SetScanParams(cmd.LESetScanParameters) error
	SetResetMethod(string) error
	SetLogger(Logger) error

	SetTransportHCISocket(id int) error
	SetTransportH4Socket(addr string, timeout time.Duration) error
	SetTransportH4Uart(path string, baud uint) error
}

// An Option is a configuration function, which configures the controller.
type Option func(ControllerOption) error

// OptDeviceID selects the hci socket transport on adapter hci<id>.
// An id of -1 picks the first adapter that is up.
func OptDeviceID(id int) Option {
	return OptTransportHCISocket(id)
}

// OptCommandTimeout sets how long a command waits for its completion event.
func OptCommandTimeout(d time.Duration) Option {
	return func(opt ControllerOption) error {
		return opt.SetCommandTimeout(d)
	}
}

// OptReadTimeout bounds each blocking read of the scan loop.
func OptReadTimeout(d time.Duration) Option {
	return func(opt ControllerOption) error {
		return opt.SetReadTimeout(d)
	}
}

// OptScanParams overrides default scanning parameters.
func OptScanParams(param cmd.LESetScanParameters) Option {
	return func(opt ControllerOption) error {
		return opt.SetScanParams(param)
	}
}

// OptResetMethod selects how the adapter is reset when the first open fails:
// "hciconfig", "ioctl" or "none".
func OptResetMethod(m string) Option {
	return func(opt ControllerOption) error {
		return opt.SetResetMethod(m)
	}
}

// OptLogger sets the logger used by the controller.
func OptLogger(l Logger) Option {
	return func(opt ControllerOption) error {
		return opt.SetLogger(l)
	}
}

// OptTransportHCISocket set hci socket transport
func OptTransportHCISocket(id int) Option {
	return func(opt ControllerOption) error {
		return opt.SetTransportHCISocket(id)
	}
}

// OptTransportH4Uart set h4 uart transport
func OptTransportH4Uart(path string, baud uint) Option {
	return func(opt ControllerOption) error {
		return opt.SetTransportH4Uart(path, baud)
	}
}

// OptTransportH4Socket set h4 socket transport
func OptTransportH4Socket(addr string, timeout time.Duration) Option {
	return func(opt ControllerOption) error {
		return opt.SetTransportH4Socket(addr, timeout)
	}
}
