package blescan

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/blescan/sliceops"
)

// Addr is a 6-byte Bluetooth device address in over-the-air order,
// least significant byte first.
type Addr [6]byte

// ParseAddr parses a colon separated MAC such as "AA:BB:CC:DD:EE:FF".
func ParseAddr(s string) (Addr, error) {
	var a Addr
	hexStr := strings.Replace(s, ":", "", -1)
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return a, errors.Wrapf(err, "invalid address %q", s)
	}
	if len(b) != len(a) {
		return a, errors.Errorf("invalid address %q: want %d bytes, have %d", s, len(a), len(b))
	}
	copy(a[:], sliceops.SwapBuf(b))
	return a, nil
}

// String renders the address most significant byte first, uppercase.
func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[5], a[4], a[3], a[2], a[1], a[0])
}
