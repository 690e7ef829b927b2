// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

// Clock and reset register offsets from the CAR base.
const (
	RstSource = 0x000

	RstDevicesL = 0x004
	RstDevicesH = 0x008
	RstDevicesU = 0x00c
	ClkOutEnbL  = 0x010
	ClkOutEnbH  = 0x014
	ClkOutEnbU  = 0x018

	PtoCtrl   = 0x060
	PtoStatus = 0x064

	ClkOutEnbX      = 0x280
	ClkOutEnbSetX   = 0x284
	ClkOutEnbClrX   = 0x288
	RstDevicesX     = 0x28c
	RstDevicesSetX  = 0x290
	RstDevicesClrX  = 0x294
	ClkOutEnbY      = 0x298
	ClkOutEnbSetY   = 0x29c
	ClkOutEnbClrY   = 0x2a0
	RstDevicesY     = 0x2a4
	RstDevicesSetY  = 0x2a8
	RstDevicesClrY  = 0x2ac
	RstDevicesSetL  = 0x300
	RstDevicesClrL  = 0x304
	RstDevicesSetH  = 0x308
	RstDevicesClrH  = 0x30c
	RstDevicesSetU  = 0x310
	RstDevicesClrU  = 0x314
	ClkOutEnbSetL   = 0x320
	ClkOutEnbClrL   = 0x324
	ClkOutEnbSetH   = 0x328
	ClkOutEnbClrH   = 0x32c
	ClkOutEnbSetU   = 0x330
	ClkOutEnbClrU   = 0x334
	RstDevicesV     = 0x358
	RstDevicesW     = 0x35c
	ClkOutEnbV      = 0x360
	ClkOutEnbW      = 0x364
	SuperCclkgDiv   = 0x36c
	RstDevicesSetV  = 0x430
	RstDevicesClrV  = 0x434
	RstDevicesSetW  = 0x438
	RstDevicesClrW  = 0x43c
	ClkOutEnbSetV   = 0x440
	ClkOutEnbClrV   = 0x444
	ClkOutEnbSetW   = 0x448
	ClkOutEnbClrW   = 0x44c
	lastCarRegister = ClkOutEnbClrW

	// RegionSize is the minimum mapping of the CAR block.
	RegionSize = 0x1000
)

// Offsets within the APB misc block.
const (
	HidRev = 0x804

	MiscRegionSize = 0x1000
)

// Fail the build if a register falls outside its region.
const (
	_ = uint(RegionSize - (lastCarRegister + 4))
	_ = uint(MiscRegionSize - (HidRev + 4))
)

// PllpOutCPU gates the PLLP output to the CPU complex in bank Y.
const PllpOutCPU = 1 << 31

// A Bank groups 32 peripheral bits that share six control registers. The set
// and clear registers are write-one strobes.
type Bank struct {
	Enable      uint32
	EnableSet   uint32
	EnableClear uint32
	Reset       uint32
	ResetSet    uint32
	ResetClear  uint32
}

// Banks in bit order; bank i covers ids [32*i, 32*i+31].
var Banks = [...]Bank{
	{ClkOutEnbL, ClkOutEnbSetL, ClkOutEnbClrL,
		RstDevicesL, RstDevicesSetL, RstDevicesClrL},
	{ClkOutEnbH, ClkOutEnbSetH, ClkOutEnbClrH,
		RstDevicesH, RstDevicesSetH, RstDevicesClrH},
	{ClkOutEnbU, ClkOutEnbSetU, ClkOutEnbClrU,
		RstDevicesU, RstDevicesSetU, RstDevicesClrU},
	{ClkOutEnbV, ClkOutEnbSetV, ClkOutEnbClrV,
		RstDevicesV, RstDevicesSetV, RstDevicesClrV},
	{ClkOutEnbW, ClkOutEnbSetW, ClkOutEnbClrW,
		RstDevicesW, RstDevicesSetW, RstDevicesClrW},
	{ClkOutEnbX, ClkOutEnbSetX, ClkOutEnbClrX,
		RstDevicesX, RstDevicesSetX, RstDevicesClrX},
	{ClkOutEnbY, ClkOutEnbSetY, ClkOutEnbClrY,
		RstDevicesY, RstDevicesSetY, RstDevicesClrY},
}

// BankOf returns the bank and bit mask of a banked id.
func BankOf(id uint32) (bank int, mask uint32) {
	return int(id / 32), 1 << (id % 32)
}
