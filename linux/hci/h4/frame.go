package h4

import (
	"fmt"
	"time"
)

const (
	eventPacket = 0x04

	headerOffsetDataLength = 2
	headerLength           = 3

	frameTimeout = 500 * time.Millisecond
)

// frame reassembles H4 event packets out of an unframed byte stream.
// Complete packets are sent on out; bytes before a packet indicator are dropped.
type frame struct {
	b       []byte
	timeout time.Time
	out     chan []byte
	done    <-chan int
}

func newFrame(c chan []byte, done <-chan int) *frame {
	return &frame{
		b:    make([]byte, 0, 256),
		out:  c,
		done: done,
	}
}

func (f *frame) Assemble(b []byte) {
	switch {
	case len(b) == 0:
		// nothing to look at
		return

	case !f.timeout.IsZero() && time.Now().After(f.timeout):
		// stale partial packet
		f.reset()

	default:
		// ok
	}

	if len(f.b) == 0 {
		if err := f.waitStart(b); err != nil {
			return
		}
	} else {
		f.b = append(f.b, b...)
	}

	for {
		rf, err := f.frame()
		if err != nil {
			return
		}
		out := make([]byte, len(rf))
		copy(out, rf)
		select {
		case f.out <- out:
		case <-f.done:
			return
		}

		rem := f.b[len(rf):]
		f.reset()
		if len(rem) == 0 {
			return
		}
		if err := f.waitStart(rem); err != nil {
			return
		}
	}
}

func (f *frame) reset() {
	f.b = make([]byte, 0, 256)
	f.timeout = time.Time{}
}

func (f *frame) waitStart(b []byte) error {
	for i, v := range b {
		if v != eventPacket {
			continue
		}
		f.timeout = time.Now().Add(frameTimeout)
		f.b = append(f.b, b[i:]...)
		return nil
	}
	return fmt.Errorf("couldnt find start byte")
}

func (f *frame) frame() ([]byte, error) {
	if len(f.b) < headerLength {
		return nil, fmt.Errorf("not enough bytes")
	}

	tl := int(f.b[headerOffsetDataLength]) + headerLength
	if len(f.b) < tl {
		return nil, fmt.Errorf("not enough bytes")
	}
	return f.b[:tl], nil
}
