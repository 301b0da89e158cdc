package hci

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/blescan"
	"github.com/rigado/blescan/linux/hci/socket"
)

// Reset methods accepted by NewResetter.
const (
	ResetHciconfig = "hciconfig"
	ResetIoctl     = "ioctl"
	ResetNone      = "none"
)

// Resetter power cycles adapter hci<id>.
type Resetter interface {
	Reset(id int) error
}

// NewResetter returns the resetter for method, waiting wait after each step.
func NewResetter(method string, wait time.Duration, l blescan.Logger) (Resetter, error) {
	switch method {
	case ResetHciconfig, "":
		return &cycleResetter{
			down: func(id int) error { return hciconfig(id, "down") },
			up:   func(id int) error { return hciconfig(id, "up") },
			wait: wait,
			log:  l,
		}, nil
	case ResetIoctl:
		return &cycleResetter{down: socket.Down, up: socket.Up, wait: wait, log: l}, nil
	case ResetNone:
		return noResetter{}, nil
	default:
		return nil, fmt.Errorf("unknown reset method %q", method)
	}
}

type cycleResetter struct {
	down func(id int) error
	up   func(id int) error
	wait time.Duration
	log  blescan.Logger
}

func (r *cycleResetter) Reset(id int) error {
	r.log.Infof("Bringing HCI Device hci%d Down...", id)
	if err := r.down(id); err != nil {
		return err
	}
	time.Sleep(r.wait)

	r.log.Infof("Bringing HCI Device hci%d Up...", id)
	if err := r.up(id); err != nil {
		return err
	}
	time.Sleep(r.wait)
	return nil
}

type noResetter struct{}

func (noResetter) Reset(id int) error { return ErrResetUnsupported }

func hciconfig(id int, state string) error {
	dev := fmt.Sprintf("hci%d", id)
	out, err := exec.Command("hciconfig", dev, state).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "hciconfig %s %s: %s", dev, state, strings.TrimSpace(string(out)))
	}
	return nil
}
