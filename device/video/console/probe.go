package console

import (
	"vgaos/device"
	"vgaos/multiboot"
)

var (
	getFramebufferInfoFn = multiboot.GetFramebufferInfo
	getBootCmdLineFn     = multiboot.GetBootCmdLine
	mapFramebufferFn     = MapFramebuffer
)

// probeForVgaTextConsole checks whether the bootloader left the display in
// 80x25 EGA text mode and returns a console driver for it.
func probeForVgaTextConsole() device.Driver {
	fbInfo := getFramebufferInfoFn()
	if fbInfo == nil || fbInfo.Type != multiboot.FramebufferTypeEGA {
		return nil
	}

	if fbInfo.Width != Columns || fbInfo.Height != Rows {
		return nil
	}

	fb := mapFramebufferFn(uintptr(fbInfo.PhysAddr), Cells)
	return NewVgaTextConsole(fb, HardwarePorts, ConfigFromCmdLine(getBootCmdLineFn()))
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForVgaTextConsole,
	})
}
