// Package hci drives a local Bluetooth controller as a passive LE scanner.
package hci

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/blescan"
	"github.com/rigado/blescan/linux/adv"
	"github.com/rigado/blescan/linux/hci/cmd"
	"github.com/rigado/blescan/linux/hci/evt"
	"github.com/rigado/blescan/linux/hci/socket"
)

// Command ...
type Command interface {
	fmt.Stringer
	OpCode() int
	Len() int
	Marshal([]byte) error
}

// CommandRP ...
type CommandRP interface {
	Unmarshal(b []byte) error
}

// Controller owns one transport to an adapter and runs the scan loop on it.
type Controller struct {
	params params

	transport   transport
	skt         Transport
	cmdTimeout  time.Duration
	readTimeout time.Duration

	resetter Resetter
	logger   blescan.Logger

	// overridden in tests
	open   func() (Transport, error)
	locate func() (int, error)

	state state
	cmu   sync.Mutex
}

// NewController returns a controller configured by opts. Nothing is opened
// until Open.
func NewController(opts ...blescan.Option) (*Controller, error) {
	h := &Controller{
		transport:   transport{hci: &transportHci{-1}},
		cmdTimeout:  DefaultCommandTimeout,
		readTimeout: socket.DefaultReadTimeout,
		logger:      blescan.GetLogger().ChildLogger(map[string]interface{}{"pkg": "hci"}),
	}
	h.params.init()
	if err := h.SetResetMethod(ResetHciconfig); err != nil {
		return nil, err
	}

	if err := h.Option(opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	if err := h.params.validate(); err != nil {
		return nil, err
	}

	h.open = func() (Transport, error) { return getTransport(h.transport) }
	h.locate = func() (int, error) { return locateAdapter(h.transport) }
	return h, nil
}

// Option sets the options specified.
func (h *Controller) Option(opts ...blescan.Option) error {
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return err
		}
	}
	return nil
}

// State returns the current lifecycle stage.
func (h *Controller) State() State {
	return h.state.load()
}

// Open opens the transport. If that fails and an adapter can be located, the
// adapter is reset once and the open retried.
func (h *Controller) Open() error {
	if s := h.state.load(); s != StateIdle {
		return errors.Errorf("can't open controller in state %v", s)
	}

	skt, err := h.open()
	if err != nil {
		h.logger.Warnf("can't open %v: %v", h.transport, err)

		id, lerr := h.locate()
		if lerr != nil {
			return errors.Wrap(ErrAdapterUnavailable, lerr.Error())
		}
		if rerr := h.resetter.Reset(id); rerr != nil {
			return errors.Wrapf(ErrAdapterReset, "hci%d: %v", id, rerr)
		}
		if skt, err = h.open(); err != nil {
			return errors.Wrapf(ErrAdapterReset, "reopen hci%d: %v", id, err)
		}
	}

	h.cmu.Lock()
	h.skt = skt
	h.cmu.Unlock()
	h.state.store(StateOpen)
	h.logger.Debugf("opened %v", h.transport)
	return nil
}

// ConfigureScan sets scan parameters, unmasks every LE meta event and enables
// scanning, in that order. Any failure closes the controller.
func (h *Controller) ConfigureScan() error {
	p := &h.params
	steps := []Command{&p.scanParams, &p.eventMask, &p.scanEnable}
	for _, c := range steps {
		if err := h.Send(c, nil); err != nil {
			h.Close()
			return err
		}
	}
	return nil
}

// InstallFilter restricts the transport to LE meta events.
func (h *Controller) InstallFilter() error {
	skt, err := h.socket()
	if err != nil {
		return err
	}

	var f socket.Filter
	f.SetPacketType(evt.PktTypeEvent)
	f.SetEvent(evt.LEMetaCode)
	if err := skt.SetFilter(f); err != nil {
		h.Close()
		return err
	}
	return nil
}

// DisableScan turns scanning off.
func (h *Controller) DisableScan() error {
	return h.Send(&h.params.scanDisable, nil)
}

// Close releases the transport. It is safe to call more than once.
func (h *Controller) Close() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()

	h.state.store(StateClosed)
	if h.skt == nil {
		return nil
	}
	err := h.skt.Close()
	h.skt = nil
	return err
}

func (h *Controller) socket() (Transport, error) {
	h.cmu.Lock()
	defer h.cmu.Unlock()
	if h.skt == nil {
		return nil, ErrClosed
	}
	return h.skt, nil
}

// Send issues c and waits for its Command Complete. A non-zero status in
// the completion or in a Command Status is returned as ErrCommand. If r is
// not nil the return parameters are unmarshalled into it.
func (h *Controller) Send(c Command, r CommandRP) error {
	b, err := h.send(c)
	if err != nil {
		return errors.Wrap(err, c.String())
	}
	var st cmd.StatusRP
	if err := st.Unmarshal(b); err == nil && st.Status != 0x00 {
		return errors.Wrap(ErrCommand(st.Status), c.String())
	}
	if r != nil {
		return errors.Wrap(r.Unmarshal(b), c.String())
	}
	return nil
}

func (h *Controller) send(c Command) ([]byte, error) {
	skt, err := h.socket()
	if err != nil {
		return nil, err
	}

	op := uint16(c.OpCode())
	var f socket.Filter
	f.SetPacketType(evt.PktTypeEvent)
	f.SetEvent(evt.CommandCompleteCode)
	f.SetEvent(evt.CommandStatusCode)
	f.SetOpcode(op)
	if err := skt.SetFilter(f); err != nil {
		return nil, err
	}

	//HCI header
	b := make([]byte, cmdHeaderSize+c.Len())
	b[0] = PktTypeCommand
	b[1] = byte(op)
	b[2] = byte(op >> 8)
	b[3] = byte(c.Len())
	if err := c.Marshal(b[cmdHeaderSize:]); err != nil {
		return nil, errors.Wrap(err, "can't marshal command")
	}

	h.logger.Debugf("cmd: % X", b)
	if n, err := skt.Write(b); err != nil {
		return nil, errors.Wrap(err, "can't write command")
	} else if n != len(b) {
		return nil, fmt.Errorf("short command write: %d of %d bytes", n, len(b))
	}

	deadline := time.Now().Add(h.cmdTimeout)
	defer skt.SetReadTimeout(h.readTimeout)

	rb := make([]byte, adv.MaxEventSize)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrCommandTimeout
		}
		skt.SetReadTimeout(remaining)

		n, err := skt.Read(rb)
		if err != nil {
			return nil, errors.Wrap(err, "can't read command response")
		}
		if n == 0 {
			continue
		}
		h.logger.Debugf("evt: % X", rb[:n])

		code, ep, err := evt.Split(rb[:n])
		if err != nil {
			h.logger.Debugf("ignoring packet: %v", err)
			continue
		}

		switch code {
		case evt.CommandStatusCode:
			e := evt.CommandStatus(ep)
			if opc, err := e.CommandOpcodeWErr(); err != nil || opc != op {
				continue
			}
			status, _ := e.StatusWErr()
			if status != 0 {
				return nil, ErrCommand(status)
			}
			// pending, completion follows

		case evt.CommandCompleteCode:
			e := evt.CommandComplete(ep)
			if opc, err := e.CommandOpcodeWErr(); err != nil || opc != op {
				continue
			}
			rp, err := e.ReturnParametersWErr()
			if err != nil {
				return nil, err
			}
			return append([]byte(nil), rp...), nil
		}
	}
}

// Scan reads advertising report events until ctx is done or the transport
// fails, passing every beacon accepted by f (all of them if f is nil) to fn.
// Scanning is disabled and the controller closed before Scan returns.
func (h *Controller) Scan(ctx context.Context, fn blescan.BeaconHandler, f blescan.BeaconFilter) error {
	if !h.state.transition(StateOpen, StateScanning) {
		return errors.Errorf("can't scan in state %v", h.state.load())
	}
	defer h.stop()

	skt, err := h.socket()
	if err != nil {
		return err
	}
	skt.SetReadTimeout(h.readTimeout)

	b := make([]byte, adv.MaxEventSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := skt.Read(b)
		switch {
		case n == 0 && err == nil:
			// read timeout
			continue
		case err == io.EOF:
			return err
		case err != nil:
			return errors.Wrap(err, "can't read event")
		}

		// one immutable buffer per event
		p := make([]byte, n)
		copy(p, b)
		h.handleEvent(p, fn, f)
	}
}

func (h *Controller) handleEvent(b []byte, fn blescan.BeaconHandler, f blescan.BeaconFilter) {
	err := adv.Beacons(b, func(bc blescan.Beacon) {
		if f != nil && !f(bc) {
			return
		}
		fn(bc)
	})
	if err != nil {
		h.logger.Debugf("skipping event % X: %v", b, err)
	}
}

func (h *Controller) stop() {
	h.state.store(StateStopping)
	if err := h.DisableScan(); err != nil {
		h.logger.Warnf("can't disable scan: %v", err)
	}
	if err := h.Close(); err != nil {
		h.logger.Warnf("can't close %v: %v", h.transport, err)
	}
}
