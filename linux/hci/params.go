package hci

import (
	"fmt"

	"github.com/rigado/blescan/linux/hci/cmd"
)

const (
	AddressTypePublic           = 0
	AddressTypeRandom           = 1
	FilterPolicyAcceptAll       = 0
	FilterPolicyAcceptWhitelist = 1
	LEScanTypePassive           = 0
	LEScanTypeActive            = 1

	LEScanIntervalMin = 0x0004
	LEScanIntervalMax = 0x4000
	LEScanWindowMin   = 0x0004
	LEScanWindowMax   = 0x4000

	DefaultScanInterval = 0x0010
	DefaultScanWindow   = 0x0010

	// every LE meta event
	leEventMaskAll = 0xFFFFFFFFFFFFFFFF
)

type params struct {
	scanParams  cmd.LESetScanParameters
	eventMask   cmd.LESetEventMask
	scanEnable  cmd.LESetScanEnable
	scanDisable cmd.LESetScanEnable
}

func (p *params) init() {
	p.scanParams = DefaultScanParams()
	p.eventMask = cmd.LESetEventMask{LEEventMask: leEventMaskAll}
	p.scanEnable = cmd.LESetScanEnable{
		LEScanEnable:     1,
		FilterDuplicates: 0, // report every advertisement
	}
	p.scanDisable = cmd.LESetScanEnable{}
}

// DefaultScanParams returns passive scanning at 10ms interval and window
// from the public address, accepting all advertisers.
func DefaultScanParams() cmd.LESetScanParameters {
	return cmd.LESetScanParameters{
		LEScanType:           LEScanTypePassive,
		LEScanInterval:       DefaultScanInterval, // 0x0004 - 0x4000; N * 0.625msec
		LEScanWindow:         DefaultScanWindow,   // 0x0004 - 0x4000; N * 0.625msec
		OwnAddressType:       AddressTypePublic,
		ScanningFilterPolicy: FilterPolicyAcceptAll,
	}
}

func (p *params) validate() error {
	if p == nil {
		return fmt.Errorf("params nil")
	}
	return ValidateScanParams(p.scanParams)
}

func ValidateScanParams(p cmd.LESetScanParameters) error {
	switch {
	case p.LEScanType != LEScanTypeActive && p.LEScanType != LEScanTypePassive:
		return fmt.Errorf("invalid LEScanType %v", p.LEScanType)

	case p.LEScanInterval < LEScanIntervalMin || p.LEScanInterval > LEScanIntervalMax:
		return fmt.Errorf("invalid LEScanInterval %v", p.LEScanInterval)

	case p.LEScanWindow < LEScanWindowMin || p.LEScanWindow > LEScanWindowMax:
		return fmt.Errorf("invalid LEScanWindow %v", p.LEScanWindow)

	case p.LEScanWindow > p.LEScanInterval:
		return fmt.Errorf("LEScanWindow %v > LEScanInterval %v", p.LEScanWindow, p.LEScanInterval)

	case p.OwnAddressType != AddressTypePublic && p.OwnAddressType != AddressTypeRandom:
		return fmt.Errorf("invalid OwnAddressType %v", p.OwnAddressType)

	case p.ScanningFilterPolicy != FilterPolicyAcceptAll && p.ScanningFilterPolicy != FilterPolicyAcceptWhitelist:
		return fmt.Errorf("invalid ScanningFilterPolicy %v", p.ScanningFilterPolicy)
	}

	return nil
}
