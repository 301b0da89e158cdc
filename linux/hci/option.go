package hci

import (
	"fmt"
	"time"

	"github.com/rigado/blescan"
	"github.com/rigado/blescan/linux/hci/cmd"
)

// SetCommandTimeout sets how long Send waits for a command to complete.
func (h *Controller) SetCommandTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("invalid command timeout %v", d)
	}
	h.cmdTimeout = d
	return nil
}

// SetReadTimeout bounds each read of the scan loop.
func (h *Controller) SetReadTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("invalid read timeout %v", d)
	}
	h.readTimeout = d
	return nil
}

// SetScanParams overrides default scanning parameters.
func (h *Controller) SetScanParams(param cmd.LESetScanParameters) error {
	if err := ValidateScanParams(param); err != nil {
		return err
	}
	h.params.scanParams = param
	return nil
}

// SetResetMethod selects how the adapter is power cycled when open fails.
func (h *Controller) SetResetMethod(m string) error {
	r, err := NewResetter(m, DefaultResetWait, h.logger)
	if err != nil {
		return err
	}
	h.resetter = r
	return nil
}

// SetLogger ...
func (h *Controller) SetLogger(l blescan.Logger) error {
	h.logger = l
	if cr, ok := h.resetter.(*cycleResetter); ok {
		cr.log = l
	}
	return nil
}

// SetTransportHCISocket sets HCI device for hci socket
func (h *Controller) SetTransportHCISocket(id int) error {
	h.transport = transport{
		hci: &transportHci{id},
	}
	return nil
}

// SetTransportH4Socket sets h4 socket server
func (h *Controller) SetTransportH4Socket(addr string, timeout time.Duration) error {
	h.transport = transport{
		h4socket: &transportH4Socket{addr, timeout},
	}
	return nil
}

// SetTransportH4Uart sets h4 uart path
func (h *Controller) SetTransportH4Uart(path string, baud uint) error {
	h.transport = transport{
		h4uart: &transportH4Uart{path, baud},
	}
	return nil
}
