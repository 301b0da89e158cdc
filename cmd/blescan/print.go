package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/rigado/blescan"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type printer interface {
	Print(b blescan.Beacon) error
}

func newPrinter(format string, w io.Writer, ibeacon bool) (printer, error) {
	switch format {
	case formatText, "":
		return &textPrinter{w: w, ibeacon: ibeacon}, nil
	case formatJSON:
		return &jsonPrinter{enc: jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)}, nil
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}
}

type textPrinter struct {
	w       io.Writer
	ibeacon bool
}

func (p *textPrinter) Print(b blescan.Beacon) error {
	if _, err := fmt.Fprintln(p.w, b.String()); err != nil {
		return err
	}
	if p.ibeacon && b.IBeacon != nil {
		_, err := fmt.Fprintln(p.w, b.IBeacon.String())
		return err
	}
	return nil
}

// jsonPrinter writes one object per line.
type jsonPrinter struct {
	enc *jsoniter.Encoder
}

func (p *jsonPrinter) Print(b blescan.Beacon) error {
	return p.enc.Encode(b.ToMap())
}
