package h4

import (
	"io"
	"net"
	"time"
)

// connWithTimeout turns a blocking net.Conn into one whose reads wake up
// periodically, so the rx loop can notice Close.
type connWithTimeout struct {
	c       net.Conn
	timeout time.Duration
}

func (cwt *connWithTimeout) Read(b []byte) (int, error) {
	cwt.c.SetReadDeadline(time.Now().Add(cwt.timeout))
	n, err := cwt.c.Read(b)
	if err == io.EOF {
		// peer closed; io.EOF alone means a serial read timeout to the rx loop
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func (cwt *connWithTimeout) Write(b []byte) (int, error) {
	cwt.c.SetWriteDeadline(time.Now().Add(cwt.timeout))
	return cwt.c.Write(b)
}

func (cwt *connWithTimeout) Close() error {
	return cwt.c.Close()
}
