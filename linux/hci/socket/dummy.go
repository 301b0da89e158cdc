// +build !linux

package socket

import (
	"fmt"
	"io"
	"time"
)

// DefaultReadTimeout matches the linux socket.
const DefaultReadTimeout = time.Second

// ErrNoRoute is returned when no adapter is up.
var ErrNoRoute = fmt.Errorf("no hci device is up")

// Socket is unavailable on non-Linux platforms.
type Socket struct {
	io.ReadWriteCloser
}

// NewSocket is a dummy function for non-Linux platform.
func NewSocket(id int) (*Socket, error) {
	return nil, fmt.Errorf("only available on linux")
}

// Route is a dummy function for non-Linux platform.
func Route() (int, error) { return -1, fmt.Errorf("only available on linux") }

// Locate is a dummy function for non-Linux platform.
func Locate(id int) (int, error) { return -1, fmt.Errorf("only available on linux") }

// Up is a dummy function for non-Linux platform.
func Up(id int) error { return fmt.Errorf("only available on linux") }

// Down is a dummy function for non-Linux platform.
func Down(id int) error { return fmt.Errorf("only available on linux") }

func (s *Socket) SetFilter(f Filter) error { return fmt.Errorf("only available on linux") }

func (s *Socket) SetReadTimeout(d time.Duration) {}
