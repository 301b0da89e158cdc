package main

import (
	"time"

	"github.com/urfave/cli"

	"github.com/rigado/blescan/linux/hci"
	"github.com/rigado/blescan/linux/hci/h4"
)

var (
	flgDevice   = cli.IntFlag{Name: "device, i", Value: -1, Usage: "hci adapter index, -1 for the first one that is up"}
	flgUart     = cli.StringFlag{Name: "uart", Usage: "serial port of an H4 controller, instead of an hci adapter"}
	flgBaud     = cli.UintFlag{Name: "baud", Value: h4.DefaultBaudRate, Usage: "baud rate of the H4 serial port"}
	flgH4Socket = cli.StringFlag{Name: "h4s", Usage: "host:port of an H4 controller over TCP"}
	flgInterval = cli.UintFlag{Name: "interval", Value: hci.DefaultScanInterval, Usage: "scan interval in 0.625ms units"}
	flgWindow   = cli.UintFlag{Name: "window", Value: hci.DefaultScanWindow, Usage: "scan window in 0.625ms units"}
	flgTimeout  = cli.DurationFlag{Name: "timeout, t", Value: hci.DefaultCommandTimeout, Usage: "timeout of each hci command"}
	flgDuration = cli.DurationFlag{Name: "duration, d", Usage: "scanning duration, 0 for indefinitely"}
	flgReset    = cli.StringFlag{Name: "reset", Value: hci.ResetHciconfig, Usage: "adapter reset method (hciconfig / ioctl / none)"}
	flgFormat   = cli.StringFlag{Name: "format, f", Value: formatText, Usage: "output format (text / json)"}
	flgAddr     = cli.StringFlag{Name: "addr, a", Usage: "only print beacons from this address"}
	flgIBeacon  = cli.BoolFlag{Name: "ibeacon", Usage: "also print the parsed iBeacon fields"}
	flgVerify   = cli.BoolFlag{Name: "verify", Usage: "re-encode every decoded event and report mismatches"}
	flgDebug    = cli.BoolFlag{Name: "debug", Usage: "log hci packets"}

	h4SocketTimeout = 2 * time.Second
)

var printFlags = []cli.Flag{flgFormat, flgAddr, flgIBeacon, flgDebug}

var scanFlags = append([]cli.Flag{
	flgDevice,
	flgUart,
	flgBaud,
	flgH4Socket,
	flgInterval,
	flgWindow,
	flgTimeout,
	flgDuration,
	flgReset,
}, printFlags...)

var decodeFlags = append([]cli.Flag{flgVerify}, printFlags...)
