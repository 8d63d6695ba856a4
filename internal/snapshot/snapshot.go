// Package snapshot renders the contents of an emulated VGA text screen to an
// image.
package snapshot

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"vgaos/internal/vgasim"
)

// Size of a rendered character cell in pixels. This matches the 9x16
// character box of the VGA 80x25 text mode.
const (
	CellWidth  = 9
	CellHeight = 16
)

// Render draws the screen of m using the colors currently programmed into its
// DAC. When blinking is enabled, attribute bit 7 is treated as the blink flag
// and backgrounds are limited to the first 8 colors; blinking characters are
// always drawn in their visible phase.
func Render(m *vgasim.Machine) image.Image {
	dc := gg.NewContext(vgasim.Columns*CellWidth, vgasim.Rows*CellHeight)
	blink := m.BlinkEnabled()

	for row := 0; row < vgasim.Rows; row++ {
		for col := 0; col < vgasim.Columns; col++ {
			ch, attr := m.Cell(col, row)
			fg, bg := attr&0x0f, attr>>4
			if blink {
				bg &= 0x07
			}

			x, y := float64(col*CellWidth), float64(row*CellHeight)
			dc.SetColor(m.PaletteRGBA(bg))
			dc.DrawRectangle(x, y, CellWidth, CellHeight)
			dc.Fill()

			// Only printable ASCII has a glyph in the default face.
			if ch <= ' ' || ch >= 0x7f {
				continue
			}

			dc.SetColor(m.PaletteRGBA(fg))
			dc.DrawStringAnchored(string(rune(ch)), x+CellWidth/2.0, y+CellHeight/2.0, 0.5, 0.5)
		}
	}

	return dc.Image()
}

// SavePNG renders the screen of m and writes it to path as a PNG image.
func SavePNG(m *vgasim.Machine, path string) error {
	if err := gg.SavePNG(path, Render(m)); err != nil {
		return fmt.Errorf("snapshot: saving %s: %w", path, err)
	}

	return nil
}
