package evt

import (
	"bytes"
	"testing"
)

func TestSplit(t *testing.T) {
	code, params, err := Split([]byte{0x04, 0x0e, 0x04, 0x01, 0x0b, 0x20, 0x00, 0xaa})
	if err != nil {
		t.Fatal(err)
	}
	if code != CommandCompleteCode {
		t.Fatalf("expected code 0x0e, got 0x%02x", code)
	}
	if !bytes.Equal(params, []byte{0x01, 0x0b, 0x20, 0x00}) {
		t.Fatalf("unexpected params [% x]", params)
	}

	bad := [][]byte{
		nil,
		{0x04, 0x0e},
		{0x02, 0x0e, 0x00},
		{0x04, 0x0e, 0x04, 0x01},
	}
	for _, b := range bad {
		if _, _, err := Split(b); err == nil {
			t.Errorf("[% x]: expected error", b)
		}
	}
}

func TestCommandComplete(t *testing.T) {
	e := CommandComplete{0x01, 0x0c, 0x20, 0x00}

	n, err := e.NumHCICommandPacketsWErr()
	if err != nil || n != 1 {
		t.Fatalf("num packets: %v %v", n, err)
	}
	op, err := e.CommandOpcodeWErr()
	if err != nil || op != 0x200c {
		t.Fatalf("opcode: 0x%04x %v", op, err)
	}
	rp, err := e.ReturnParametersWErr()
	if err != nil || !bytes.Equal(rp, []byte{0x00}) {
		t.Fatalf("return parameters: [% x] %v", rp, err)
	}

	short := CommandComplete{0x01, 0x0c}
	if _, err := short.CommandOpcodeWErr(); err == nil {
		t.Fatal("expected index error")
	}

	empty := CommandComplete{0x01, 0x03, 0x0c}
	rp, err = empty.ReturnParametersWErr()
	if err != nil || len(rp) != 0 {
		t.Fatalf("expected empty return parameters, got [% x] %v", rp, err)
	}
}

func TestCommandStatus(t *testing.T) {
	e := CommandStatus{0x0c, 0x01, 0x0b, 0x20}

	s, err := e.StatusWErr()
	if err != nil || s != 0x0c {
		t.Fatalf("status: 0x%02x %v", s, err)
	}
	op, err := e.CommandOpcodeWErr()
	if err != nil || op != 0x200b {
		t.Fatalf("opcode: 0x%04x %v", op, err)
	}

	if _, err := (CommandStatus{}).StatusWErr(); err == nil {
		t.Fatal("expected index error")
	}
}
