// Package vgasim emulates the parts of a VGA adapter that are driven by the
// text console: the 80x25 text framebuffer, the CRT controller, the attribute
// controller and the DAC. It allows the console driver to run in a hosted
// process for tests and tooling.
package vgasim

import (
	"image/color"
	"io"
	"log"
)

// Text mode geometry.
const (
	Columns = 80
	Rows    = 25
)

const (
	portAttrIndex   uint16 = 0x3c0
	portAttrRead    uint16 = 0x3c1
	portDACRead     uint16 = 0x3c7
	portDACWrite    uint16 = 0x3c8
	portDACData     uint16 = 0x3c9
	portCRTCIndex   uint16 = 0x3d4
	portCRTCData    uint16 = 0x3d5
	portInputStatus uint16 = 0x3da

	crtcCursorStart    = 0x0a
	crtcCursorDisabled = 0x20

	attrModeControl = 0x10
	attrBlinkBit    = 0x08
)

// PortAccess records a single I/O port access.
type PortAccess struct {
	Port  uint16
	Value uint8
	Write bool
}

// Machine is an emulated VGA adapter in 80x25 text mode.
type Machine struct {
	// FB holds the text framebuffer. Each word stores a character in the
	// low byte and its attribute in the high byte.
	FB []uint16

	// Trace records every port access when tracing is enabled.
	Trace   []PortAccess
	tracing bool

	logger *log.Logger

	crtcIndex uint8
	crtc      [0x19]uint8

	// The attribute controller shares a single port for index and data
	// writes; attrData tracks which one the next write targets.
	attrIndex uint8
	attrData  bool
	attr      [0x15]uint8

	dacReadIndex, dacWriteIndex uint8
	dacReadComp, dacWriteComp   int
	dac                         [256][3]uint8
}

// egaDAC contains the power-on DAC values for the 16 text colors using 6
// bits per component.
var egaDAC = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0x00, 0x00, 0x2a}, {0x00, 0x2a, 0x00}, {0x00, 0x2a, 0x2a},
	{0x2a, 0x00, 0x00}, {0x2a, 0x00, 0x2a}, {0x2a, 0x15, 0x00}, {0x2a, 0x2a, 0x2a},
	{0x15, 0x15, 0x15}, {0x15, 0x15, 0x3f}, {0x15, 0x3f, 0x15}, {0x15, 0x3f, 0x3f},
	{0x3f, 0x15, 0x15}, {0x3f, 0x15, 0x3f}, {0x3f, 0x3f, 0x15}, {0x3f, 0x3f, 0x3f},
}

// New returns a Machine in its power-on state: a zeroed framebuffer, a
// visible cursor, blinking text and the standard EGA palette. Accesses to
// ports the machine does not emulate are reported to logger; a nil logger
// discards them.
func New(logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	m := &Machine{
		FB:     make([]uint16, Columns*Rows),
		logger: logger,
	}

	m.crtc[crtcCursorStart] = 0x0d
	m.attr[attrModeControl] = 0x0c
	for i, rgb := range egaDAC {
		m.dac[i] = rgb
	}

	return m
}

// EnableTrace starts recording port accesses into Trace.
func (m *Machine) EnableTrace() {
	m.tracing = true
	m.Trace = m.Trace[:0]
}

// In8 emulates a byte read from port.
func (m *Machine) In8(port uint16) uint8 {
	var val uint8

	switch port {
	case portInputStatus:
		m.attrData = false
	case portAttrRead:
		if int(m.attrIndex) < len(m.attr) {
			val = m.attr[m.attrIndex]
		}
	case portCRTCIndex:
		val = m.crtcIndex
	case portCRTCData:
		if int(m.crtcIndex) < len(m.crtc) {
			val = m.crtc[m.crtcIndex]
		}
	case portDACData:
		val = m.dac[m.dacReadIndex][m.dacReadComp]
		if m.dacReadComp++; m.dacReadComp == 3 {
			m.dacReadComp = 0
			m.dacReadIndex++
		}
	default:
		m.logger.Printf("vgasim: unhandled read from port 0x%x", port)
	}

	m.trace(port, val, false)
	return val
}

// Out8 emulates a byte write to port.
func (m *Machine) Out8(port uint16, val uint8) {
	m.trace(port, val, true)

	switch port {
	case portAttrIndex:
		if m.attrData {
			if int(m.attrIndex) < len(m.attr) {
				m.attr[m.attrIndex] = val
			}
		} else {
			m.attrIndex = val & 0x1f
		}
		m.attrData = !m.attrData
	case portCRTCIndex:
		m.crtcIndex = val
	case portCRTCData:
		if int(m.crtcIndex) < len(m.crtc) {
			m.crtc[m.crtcIndex] = val
		}
	case portDACRead:
		m.dacReadIndex, m.dacReadComp = val, 0
	case portDACWrite:
		m.dacWriteIndex, m.dacWriteComp = val, 0
	case portDACData:
		m.dac[m.dacWriteIndex][m.dacWriteComp] = val & 0x3f
		if m.dacWriteComp++; m.dacWriteComp == 3 {
			m.dacWriteComp = 0
			m.dacWriteIndex++
		}
	default:
		m.logger.Printf("vgasim: unhandled write of 0x%02x to port 0x%x", val, port)
	}
}

func (m *Machine) trace(port uint16, val uint8, write bool) {
	if m.tracing {
		m.Trace = append(m.Trace, PortAccess{Port: port, Value: val, Write: write})
	}
}

// CursorDisabled returns true if the text cursor has been turned off.
func (m *Machine) CursorDisabled() bool {
	return m.crtc[crtcCursorStart]&crtcCursorDisabled != 0
}

// BlinkEnabled returns true if attribute bit 7 selects blinking text rather
// than a bright background.
func (m *Machine) BlinkEnabled() bool {
	return m.attr[attrModeControl]&attrBlinkBit != 0
}

// Cell returns the character and attribute stored at the 0-based column and
// row.
func (m *Machine) Cell(column, row int) (ch byte, attr uint8) {
	word := m.FB[row*Columns+column]
	return byte(word), uint8(word >> 8)
}

// Row returns the characters in the specified row. NUL characters are
// reported as spaces.
func (m *Machine) Row(row int) string {
	var line [Columns]byte
	for col := range line {
		if line[col], _ = m.Cell(col, row); line[col] == 0 {
			line[col] = ' '
		}
	}

	return string(line[:])
}

// PaletteRGBA returns the color programmed into the DAC entry at index,
// scaled to 8 bits per component.
func (m *Machine) PaletteRGBA(index uint8) color.RGBA {
	scale := func(v uint8) uint8 { return v<<2 | v>>4 }
	rgb := m.dac[index]
	return color.RGBA{R: scale(rgb[0]), G: scale(rgb[1]), B: scale(rgb[2]), A: 0xff}
}
