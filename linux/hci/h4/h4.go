// Package h4 carries HCI over a UART or TCP stream using H4 framing.
package h4

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"

	"github.com/rigado/blescan/linux/hci/socket"
)

const (
	rxQueueSize = 64

	DefaultBaudRate    = 1000000
	DefaultReadTimeout = time.Second
)

type h4 struct {
	sp  io.ReadWriteCloser
	rmu sync.Mutex
	wmu sync.Mutex

	filter      *socket.Filter
	fmu         sync.Mutex
	readTimeout time.Duration

	rxQueue chan []byte

	done chan int
	cmu  sync.Mutex
}

// DefaultSerialOptions returns 8N1 options for an HCI UART at the default rate.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		BaudRate:        DefaultBaudRate,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 0,
		// deciseconds granularity on linux
		InterCharacterTimeout: 100,
	}
}

// NewSerial opens an H4 transport on a serial port.
func NewSerial(opts serial.OpenOptions) (*Transport, error) {
	// force these
	opts.MinimumReadSize = 0
	if opts.InterCharacterTimeout == 0 {
		opts.InterCharacterTimeout = 100
	}

	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", opts.PortName)
	}
	return newTransport(sp), nil
}

// NewSocket opens an H4 transport over TCP, e.g. to a controller exposed by an emulator.
func NewSocket(addr string, timeout time.Duration) (*Transport, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "can't dial %s", addr)
	}
	return newTransport(&connWithTimeout{c: c, timeout: timeout}), nil
}

// Transport is an H4 link. Reads return whole event packets.
type Transport struct {
	*h4
}

func newTransport(sp io.ReadWriteCloser) *Transport {
	h := &h4{
		sp:          sp,
		readTimeout: DefaultReadTimeout,
		done:        make(chan int),
		rxQueue:     make(chan []byte, rxQueueSize),
	}

	go h.rxLoop()

	return &Transport{h}
}

// SetFilter drops packets that f would not let through.
func (h *h4) SetFilter(f socket.Filter) error {
	h.fmu.Lock()
	defer h.fmu.Unlock()
	h.filter = &f
	return nil
}

// SetReadTimeout bounds how long Read waits for a packet.
func (h *h4) SetReadTimeout(d time.Duration) {
	h.readTimeout = d
}

func (h *h4) match(b []byte) bool {
	h.fmu.Lock()
	defer h.fmu.Unlock()
	return h.filter == nil || h.filter.Match(b)
}

// Read returns (0, nil) if no packet arrived within the read timeout.
func (h *h4) Read(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.rmu.Lock()
	defer h.rmu.Unlock()

	deadline := time.After(h.readTimeout)
	for {
		select {
		case t := <-h.rxQueue:
			if !h.match(t) {
				continue
			}
			if len(p) < len(t) {
				return 0, io.ErrShortBuffer
			}
			return copy(p, t), nil

		case <-deadline:
			return 0, nil

		case <-h.done:
			return 0, io.EOF
		}
	}
}

func (h *h4) Write(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	n, err := h.sp.Write(p)
	return n, errors.Wrap(err, "can't write h4")
}

func (h *h4) Close() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()

	select {
	case <-h.done:
		return nil

	default:
		close(h.done)
		return errors.Wrap(h.sp.Close(), "can't close h4")
	}
}

func (h *h4) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *h4) rxLoop() {
	f := newFrame(h.rxQueue, h.done)
	tmp := make([]byte, 512)
	for {
		select {
		case <-h.done:
			return
		default:
		}

		n, err := h.sp.Read(tmp)
		if n > 0 {
			f.Assemble(tmp[:n])
		}

		switch {
		case err == nil:
		case err == io.EOF:
			// serial read timeout
		case isTimeout(err):
		default:
			// link is gone, wake up readers
			h.Close()
			return
		}
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
