package hci

import (
	"fmt"
	"io"
	"time"

	"github.com/rigado/blescan/linux/hci/h4"
	"github.com/rigado/blescan/linux/hci/socket"
)

// Transport carries HCI packets to and from a controller. Read returns one
// packet per call, or (0, nil) when nothing arrived within the read timeout.
type Transport interface {
	io.ReadWriteCloser
	SetFilter(f socket.Filter) error
	SetReadTimeout(d time.Duration)
}

type transportHci struct {
	id int
}

type transportH4Socket struct {
	addr    string
	timeout time.Duration
}

type transportH4Uart struct {
	path string
	baud uint
}

type transport struct {
	hci      *transportHci
	h4uart   *transportH4Uart
	h4socket *transportH4Socket
}

func (t transport) String() string {
	switch {
	case t.hci != nil && t.hci.id == -1:
		return "hci (first available)"
	case t.hci != nil:
		return fmt.Sprintf("hci%d", t.hci.id)
	case t.h4socket != nil:
		return "h4 tcp " + t.h4socket.addr
	case t.h4uart != nil:
		return "h4 uart " + t.h4uart.path
	default:
		return "none"
	}
}

func getTransport(t transport) (Transport, error) {
	switch {
	case t.hci != nil:
		return socket.NewSocket(t.hci.id)

	case t.h4socket != nil:
		return h4.NewSocket(t.h4socket.addr, t.h4socket.timeout)

	case t.h4uart != nil:
		so := h4.DefaultSerialOptions()
		so.PortName = t.h4uart.path
		if t.h4uart.baud != 0 {
			so.BaudRate = t.h4uart.baud
		}
		return h4.NewSerial(so)

	default:
		return nil, fmt.Errorf("no valid transport found")
	}
}

// locateAdapter resolves the adapter a reset should act on. Only the hci
// socket transport has one.
func locateAdapter(t transport) (int, error) {
	if t.hci == nil {
		return -1, fmt.Errorf("%v has no adapter to reset", t)
	}
	if t.hci.id == -1 {
		return socket.Route()
	}
	return socket.Locate(t.hci.id)
}
