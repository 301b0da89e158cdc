package adv

import (
	"fmt"

	"github.com/pkg/errors"
)

// https://www.bluetooth.org/en-us/specification/assigned-numbers/generic-access-profile
var types = struct {
	flags       byte
	uuid16inc   byte
	uuid16comp  byte
	uuid32inc   byte
	uuid32comp  byte
	uuid128inc  byte
	uuid128comp byte
	sol16       byte
	sol128      byte
	svc16       byte
	nameshort   byte
	namecomp    byte
	txpwr       byte
	mfgdata     byte
}{
	flags:       0x01,
	uuid16inc:   0x02,
	uuid16comp:  0x03,
	uuid32inc:   0x04,
	uuid32comp:  0x05,
	uuid128inc:  0x06,
	uuid128comp: 0x07,
	sol16:       0x14,
	sol128:      0x15,
	svc16:       0x16,
	nameshort:   0x08,
	namecomp:    0x09,
	txpwr:       0x0a,
	mfgdata:     0xff,
}

// Keys of the map returned by ParseFields.
const (
	KeyFlags   = "flags"
	KeyUUID16  = "uuid16"
	KeyUUID32  = "uuid32"
	KeyUUID128 = "uuid128"
	KeySol16   = "sol16"
	KeySol128  = "sol128"
	KeySvc16   = "svc16"
	KeyName    = "name"
	KeyTxPower = "txpwr"
	KeyMfgData = "mfg"
)

type fieldRecord struct {
	arrayElementSz int
	minSz          int
	key            string
}

var fieldDecodeMap = map[byte]fieldRecord{
	types.uuid16inc:   {2, 2, KeyUUID16},
	types.uuid16comp:  {2, 2, KeyUUID16},
	types.uuid32inc:   {4, 4, KeyUUID32},
	types.uuid32comp:  {4, 4, KeyUUID32},
	types.uuid128inc:  {16, 16, KeyUUID128},
	types.uuid128comp: {16, 16, KeyUUID128},
	types.sol16:       {2, 2, KeySol16},
	types.sol128:      {16, 16, KeySol128},
	types.svc16:       {0, 2, KeySvc16},
	types.namecomp:    {0, 1, KeyName},
	types.nameshort:   {0, 1, KeyName},
	types.txpwr:       {0, 1, KeyTxPower},
	types.mfgdata:     {0, 1, KeyMfgData},
	types.flags:       {0, 1, KeyFlags},
}

// Fields holds the decoded AD structures of an advertising data segment.
// Array types (uuid lists) map to [][]byte, everything else to []byte.
type Fields map[string]interface{}

// Bytes returns the raw value stored under key, if it is a scalar field.
func (f Fields) Bytes(key string) ([]byte, bool) {
	v, ok := f[key].([]byte)
	return v, ok
}

func getArray(size int, bytes []byte) ([][]byte, error) {
	//valid size?
	if size <= 0 {
		return nil, fmt.Errorf("invalid size")
	}

	//bytes empty/nil?
	if len(bytes) == 0 {
		return nil, fmt.Errorf("nil/empty bytes")
	}

	//any remainder?
	count := len(bytes) / size
	rem := len(bytes) % size
	if rem != 0 || count == 0 {
		return nil, fmt.Errorf("incorrect size")
	}

	arr := make([][]byte, 0, count)
	for j := 0; j < len(bytes); j += size {
		arr = append(arr, bytes[j:(j+size)])
	}

	return arr, nil
}

// ParseFields walks the length/type/value structures of an advertising data
// segment. A zero length byte terminates the walk early. Unknown types are
// skipped.
func ParseFields(pdu []byte) (Fields, error) {
	if pdu == nil {
		return nil, fmt.Errorf("nil pdu")
	}

	m := make(Fields)
	for i := 0; i < len(pdu); {
		//length @ offset 0
		//type @ offset 1
		//data @ 2 - length
		length := int(pdu[i])
		if length == 0 {
			break
		}

		//do we have all the bytes for the payload?
		if (i + length) >= len(pdu) {
			return nil, fmt.Errorf("buffer overflow: want %v, have %v", (i + length), len(pdu))
		}

		typ := pdu[i+1]
		start := i + 2
		end := start + length - 1
		bytes := pdu[start:end]

		if dec, ok := fieldDecodeMap[typ]; ok {
			//have min length?
			if dec.minSz > len(bytes) {
				return nil, fmt.Errorf("adv type %v: min length %v, have %v", typ, dec.minSz, len(bytes))
			}

			//expecting array?
			if dec.arrayElementSz > 0 {
				arr, err := getArray(dec.arrayElementSz, bytes)
				if err != nil {
					return nil, errors.Wrap(err, fmt.Sprintf("adv type %v", typ))
				}
				m[dec.key] = arr
			} else {
				m[dec.key] = bytes
			}
		}

		i += (length + 1)
	}

	return m, nil
}
