package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/rigado/blescan/linux/adv"
)

// readDump reads packets in the format of `hcidump --raw`: a packet starts
// on a line prefixed with '>' (controller to host) or '<' (host to
// controller) and continues on indented lines. Lines holding only hex are
// taken as whole packets. Anything else is ignored. Only controller to host
// packets are passed to fn.
func readDump(r io.Reader, fn func(b []byte)) error {
	var cur []byte
	incoming := false

	flush := func() {
		if incoming && len(cur) > 0 {
			fn(cur)
		}
		cur = nil
		incoming = false
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case trimmed[0] == '>' || trimmed[0] == '<':
			flush()
			b, err := parseHex(trimmed[1:])
			if err != nil {
				continue
			}
			cur, incoming = b, trimmed[0] == '>'

		case line[0] == ' ' || line[0] == '\t':
			if cur == nil {
				continue
			}
			b, err := parseHex(trimmed)
			if err != nil {
				flush()
				continue
			}
			cur = append(cur, b...)

		default:
			flush()
			if b, err := parseHex(trimmed); err == nil {
				fn(b)
			}
		}
	}
	flush()

	return errors.Wrap(sc.Err(), "can't read dump")
}

func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, errors.New("empty line")
	}
	return hex.DecodeString(s)
}

// verifyEvent re-encodes the reports of event b and compares the result
// with b's declared length.
func verifyEvent(b []byte) error {
	rs, err := adv.Decode(b)
	if err != nil {
		return err
	}
	var reports []adv.Report
	for rs.Next() {
		reports = append(reports, rs.Report())
	}
	if err := rs.Err(); err != nil {
		return err
	}

	enc, err := adv.Encode(reports)
	if err != nil {
		return err
	}
	want := b[:adv.EventHeaderSize+int(b[2])]
	if !bytes.Equal(enc, want) {
		return errors.Errorf("re-encoded event differs: [% X]", enc)
	}
	return nil
}
