package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/rigado/blescan"
	"github.com/rigado/blescan/linux/adv"
	"github.com/rigado/blescan/linux/hci"
	"github.com/rigado/blescan/linux/hci/cmd"
)

var stdout io.Writer = os.Stdout

func main() {
	app := cli.NewApp()

	app.Name = "blescan"
	app.Usage = "Passive BLE beacon scanner"
	app.Version = "0.1.0"
	app.Action = scan
	app.Flags = scanFlags

	app.Commands = []cli.Command{
		{
			Name:    "scan",
			Aliases: []string{"s"},
			Usage:   "Scan for beacons on an hci adapter",
			Action:  scan,
			Flags:   scanFlags,
		},
		{
			Name:    "decode",
			Aliases: []string{"d"},
			Usage:   "Decode advertising reports from `hcidump --raw` output on stdin",
			Action:  decode,
			Flags:   decodeFlags,
		},
	}

	// errors are reported, the exit status stays 0
	if err := app.Run(os.Args); err != nil {
		blescan.GetLogger().Error(err)
	}
}

func setup(c *cli.Context) (printer, blescan.BeaconFilter, error) {
	if c.Bool("debug") {
		blescan.SetLogLevelDebug()
	}

	p, err := newPrinter(c.String("format"), stdout, c.Bool("ibeacon"))
	if err != nil {
		return nil, nil, err
	}

	var f blescan.BeaconFilter
	if s := c.String("addr"); s != "" {
		a, err := blescan.ParseAddr(s)
		if err != nil {
			return nil, nil, err
		}
		f = blescan.AddrFilter(a)
	}
	return p, f, nil
}

func transportOption(c *cli.Context) blescan.Option {
	switch {
	case c.String("uart") != "":
		return blescan.OptTransportH4Uart(c.String("uart"), c.Uint("baud"))
	case c.String("h4s") != "":
		return blescan.OptTransportH4Socket(c.String("h4s"), h4SocketTimeout)
	default:
		return blescan.OptDeviceID(c.Int("device"))
	}
}

func scanParams(interval, window uint) (cmd.LESetScanParameters, error) {
	p := hci.DefaultScanParams()
	if interval > 0xffff || window > 0xffff {
		return p, errors.Errorf("scan interval 0x%x and window 0x%x must fit in 16 bits", interval, window)
	}
	p.LEScanInterval = uint16(interval)
	p.LEScanWindow = uint16(window)
	return p, nil
}

func scan(c *cli.Context) error {
	p, f, err := setup(c)
	if err != nil {
		return err
	}

	sp, err := scanParams(c.Uint("interval"), c.Uint("window"))
	if err != nil {
		return err
	}

	h, err := hci.NewController(
		transportOption(c),
		blescan.OptScanParams(sp),
		blescan.OptCommandTimeout(c.Duration("timeout")),
		blescan.OptResetMethod(c.String("reset")),
	)
	if err != nil {
		return errors.Wrap(err, "can't create controller")
	}

	if err := h.Open(); err != nil {
		return errors.Wrap(err, "can't open adapter")
	}
	if err := h.ConfigureScan(); err != nil {
		return errors.Wrap(err, "can't configure scan")
	}
	if err := h.InstallFilter(); err != nil {
		return errors.Wrap(err, "can't install event filter")
	}

	fmt.Fprintln(stdout, "Scanning....")

	var ctx context.Context
	var cancel context.CancelFunc
	if d := c.Duration("duration"); d > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), d)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()
	ctx = blescan.WithSigHandler(ctx, cancel)

	return chkErr(h.Scan(ctx, printHandler(p), f))
}

func decode(c *cli.Context) error {
	p, f, err := setup(c)
	if err != nil {
		return err
	}
	verify := c.Bool("verify")
	l := blescan.GetLogger()

	return readDump(os.Stdin, func(b []byte) {
		if verify {
			if err := verifyEvent(b); err != nil && !foreignEvent(err) {
				l.Warnf("event [% X]: %v", b, err)
			}
		}

		h := printHandler(p)
		err := adv.Beacons(b, func(bc blescan.Beacon) {
			if f == nil || f(bc) {
				h(bc)
			}
		})
		if err != nil {
			l.Debugf("skipping event [% X]: %v", b, err)
		}
	})
}

// foreignEvent reports whether err means b is not an advertising report
// event at all.
func foreignEvent(err error) bool {
	switch errors.Cause(err) {
	case adv.ErrShortEvent, adv.ErrNotLEMeta, adv.ErrNotAdvertisingReport:
		return true
	}
	return false
}

func printHandler(p printer) blescan.BeaconHandler {
	return func(b blescan.Beacon) {
		if err := p.Print(b); err != nil {
			blescan.GetLogger().Warnf("can't print beacon: %v", err)
		}
	}
}

func chkErr(err error) error {
	switch errors.Cause(err) {
	case context.DeadlineExceeded:
		// Specified duration passed, which is the expected case.
		return nil
	case context.Canceled:
		fmt.Fprintf(stdout, "\n(Canceled)\n")
		return nil
	}
	return err
}
