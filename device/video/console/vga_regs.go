package console

import "vgaos/kernel/cpu"

// VGA controller ports.
const (
	portAttrIndex   uint16 = 0x3c0
	portAttrRead    uint16 = 0x3c1
	portDACWrite    uint16 = 0x3c8
	portDACData     uint16 = 0x3c9
	portCRTCIndex   uint16 = 0x3d4
	portCRTCData    uint16 = 0x3d5
	portInputStatus uint16 = 0x3da
)

const (
	// crtcCursorStart is the CRTC register holding the cursor start
	// scanline. Bit 5 disables the cursor.
	crtcCursorStart    uint8 = 0x0a
	crtcCursorDisabled uint8 = 0x20

	// attrModeControl selects the attribute mode control register. Bit 5
	// (palette address source) is kept set so the display stays enabled
	// while the register is accessed.
	attrModeControl uint8 = 0x30

	// attrBlinkBit selects whether attribute bit 7 means blinking text or
	// a bright background color.
	attrBlinkBit uint8 = 0x08
)

// PortBus provides byte-wide access to the I/O ports of the display
// controller.
type PortBus interface {
	// In8 reads a byte from port.
	In8(port uint16) uint8

	// Out8 writes val to port.
	Out8(port uint16, val uint8)
}

// HardwarePorts is a PortBus that accesses the display controller using the
// IN and OUT CPU instructions.
var HardwarePorts PortBus = cpuPorts{}

type cpuPorts struct{}

func (cpuPorts) In8(port uint16) uint8       { return cpu.PortReadByte(port) }
func (cpuPorts) Out8(port uint16, val uint8) { cpu.PortWriteByte(port, val) }

// disableCursor hides the hardware text cursor.
func disableCursor(bus PortBus) {
	bus.Out8(portCRTCIndex, crtcCursorStart)
	bus.Out8(portCRTCData, crtcCursorDisabled)
}

// updateAttrMode runs the attribute controller access sequence: reading the
// input status register resets the index/data flip-flop, the index write
// selects the mode control register, the value is read back and fn's result
// is written as the new register value.
func updateAttrMode(bus PortBus, fn func(uint8) uint8) {
	_ = bus.In8(portInputStatus)
	bus.Out8(portAttrIndex, attrModeControl)
	mode := bus.In8(portAttrRead)
	bus.Out8(portAttrIndex, fn(mode))
}

// toggleBlink flips the meaning of attribute bit 7 between blinking text and
// bright backgrounds.
func toggleBlink(bus PortBus) {
	updateAttrMode(bus, func(mode uint8) uint8 {
		return mode ^ attrBlinkBit
	})
}

// setBlink enables or disables blinking text.
func setBlink(bus PortBus, enabled bool) {
	updateAttrMode(bus, func(mode uint8) uint8 {
		if enabled {
			return mode | attrBlinkBit
		}
		return mode &^ attrBlinkBit
	})
}

// loadDACEntry programs a DAC palette entry. The DAC uses 6 bits per color
// component so the 8-bit RGB values are scaled to the 0-63 range.
func loadDACEntry(bus PortBus, index, r, g, b uint8) {
	bus.Out8(portDACWrite, index)
	bus.Out8(portDACData, r>>2)
	bus.Out8(portDACData, g>>2)
	bus.Out8(portDACData, b>>2)
}
