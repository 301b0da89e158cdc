// +build linux

package socket

import (
	"io"
	"sync"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func ioR(t, nr, size uintptr) uintptr {
	return (2 << 30) | (t << 8) | nr | (size << 16)
}

func ioW(t, nr, size uintptr) uintptr {
	return (1 << 30) | (t << 8) | nr | (size << 16)
}

func ioctl(fd, op, arg uintptr) error {
	if _, _, ep := unix.Syscall(unix.SYS_IOCTL, fd, op, arg); ep != 0 {
		return ep
	}
	return nil
}

const (
	ioctlSize      = 4
	hciMaxDevices  = 16
	typHCI         = 72 // 'H'
	solHCI         = 0
	hciFilterOpt   = 2
	hciUpFlag      = 1 << 0
	unixPollErrors = int16(unix.POLLHUP | unix.POLLNVAL | unix.POLLERR)
	unixPollDataIn = int16(unix.POLLIN)

	DefaultReadTimeout = time.Second
)

var (
	hciUpDevice      = ioW(typHCI, 201, ioctlSize) // HCIDEVUP
	hciDownDevice    = ioW(typHCI, 202, ioctlSize) // HCIDEVDOWN
	hciGetDeviceList = ioR(typHCI, 210, ioctlSize) // HCIGETDEVLIST
)

// ErrNoRoute is returned when no adapter is up.
var ErrNoRoute = errors.New("no hci device is up")

type devRequest struct {
	id  uint16
	opt uint32
}

type devListRequest struct {
	devNum     uint16
	devRequest [hciMaxDevices]devRequest
}

// Socket is a raw HCI socket bound to one adapter.
type Socket struct {
	fd          int
	readTimeout time.Duration
	rmu         sync.Mutex
	wmu         sync.Mutex
	done        chan int
	cmu         sync.Mutex
}

func ctlSocket() (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	return fd, errors.Wrap(err, "can't create socket")
}

func devices(fd int) ([]devRequest, error) {
	req := devListRequest{devNum: hciMaxDevices}
	if err := ioctl(uintptr(fd), hciGetDeviceList, uintptr(unsafe.Pointer(&req))); err != nil {
		return nil, errors.Wrap(err, "can't get device list")
	}
	n := int(req.devNum)
	if n > hciMaxDevices {
		n = hciMaxDevices
	}
	return req.devRequest[:n], nil
}

// Route returns the id of the first adapter that is up.
func Route() (int, error) {
	fd, err := ctlSocket()
	if err != nil {
		return -1, err
	}
	defer unix.Close(fd)

	dd, err := devices(fd)
	if err != nil {
		return -1, err
	}
	for _, d := range dd {
		if d.opt&hciUpFlag != 0 {
			return int(d.id), nil
		}
	}
	return -1, ErrNoRoute
}

// Locate returns id if adapter hci<id> is known to the kernel, up or not.
// If id is -1 it returns the first known adapter.
func Locate(id int) (int, error) {
	fd, err := ctlSocket()
	if err != nil {
		return -1, err
	}
	defer unix.Close(fd)

	dd, err := devices(fd)
	if err != nil {
		return -1, err
	}
	for _, d := range dd {
		if id == -1 || int(d.id) == id {
			return int(d.id), nil
		}
	}
	if id == -1 {
		return -1, errors.New("no hci device found")
	}
	return -1, errors.Errorf("hci%d not found", id)
}

// Up brings adapter hci<id> up.
func Up(id int) error {
	return devCtl(id, hciUpDevice, "up")
}

// Down brings adapter hci<id> down.
func Down(id int) error {
	return devCtl(id, hciDownDevice, "down")
}

func devCtl(id int, op uintptr, name string) error {
	fd, err := ctlSocket()
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	err = ioctl(uintptr(fd), op, uintptr(id))
	if err == unix.EALREADY {
		return nil
	}
	return errors.Wrapf(err, "can't bring hci%d %s", id, name)
}

// NewSocket opens a raw HCI socket on adapter hci<id>.
// If id is -1, the first adapter that is up is used.
func NewSocket(id int) (*Socket, error) {
	var err error
	if id == -1 {
		if id, err = Route(); err != nil {
			return nil, err
		}
	}

	fd, err := ctlSocket()
	if err != nil {
		return nil, err
	}

	s, err := open(fd, id)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return s, nil
}

func open(fd, id int) (*Socket, error) {
	dd, err := devices(fd)
	if err != nil {
		return nil, err
	}
	up := false
	for _, d := range dd {
		if int(d.id) == id {
			up = d.opt&hciUpFlag != 0
		}
	}
	if !up {
		return nil, errors.Errorf("hci%d is not up", id)
	}

	sa := unix.SockaddrHCI{Dev: uint16(id), Channel: unix.HCI_CHANNEL_RAW}
	if err := unix.Bind(fd, &sa); err != nil {
		return nil, errors.Wrapf(err, "can't bind socket to hci%d", id)
	}

	return &Socket{fd: fd, readTimeout: DefaultReadTimeout, done: make(chan int)}, nil
}

// SetFilter installs f on the socket.
func (s *Socket) SetFilter(f Filter) error {
	err := unix.SetsockoptString(s.fd, solHCI, hciFilterOpt, string(f.Marshal()))
	return errors.Wrap(err, "can't set hci filter")
}

// SetReadTimeout bounds how long Read waits for data.
func (s *Socket) SetReadTimeout(d time.Duration) {
	s.readTimeout = d
}

// Read returns (0, nil) if no packet arrived within the read timeout.
func (s *Socket) Read(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	var err error
	n := 0
	s.rmu.Lock()
	defer s.rmu.Unlock()
	// dont need to add unixPollErrors, they are always returned
	pfds := []unix.PollFd{{Fd: int32(s.fd), Events: unixPollDataIn}}
	if _, err := unix.Poll(pfds, int(s.readTimeout/time.Millisecond)); err != nil && err != unix.EINTR {
		return 0, errors.Wrap(err, "can't poll hci socket")
	}
	evts := pfds[0].Revents

	switch {
	case evts&unixPollErrors != 0:
		return 0, io.EOF

	case evts&unixPollDataIn != 0:
		n, err = unix.Read(s.fd, p)

	default:
		// no data, read timeout
		return 0, nil
	}

	// check if we are still open since the read takes a while
	if !s.isOpen() {
		return 0, io.EOF
	}
	return n, errors.Wrap(err, "can't read hci socket")
}

func (s *Socket) Write(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	return n, errors.Wrap(err, "can't write hci socket")
}

func (s *Socket) Close() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	select {
	case <-s.done:
		return nil

	default:
		close(s.done)
		s.rmu.Lock()
		err := unix.Close(s.fd)
		s.rmu.Unlock()

		return errors.Wrap(err, "can't close hci socket")
	}
}

func (s *Socket) isOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}
