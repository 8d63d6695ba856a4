package console

import (
	"image/color"
	"io"
	"vgaos/kernel"
)

// Dimensions of the text grid.
const (
	Columns = 80
	Rows    = 25

	// Cells is the number of character positions on the screen.
	Cells = Columns * Rows
)

// The Device interface is implemented by objects that can function as system
// consoles.
//
// Output operations stage their changes; nothing becomes visible until
// Commit is called. Write is the exception: it stages its input using the
// current foreground color and commits it.
type Device interface {
	io.Writer

	// PutChar stages ch at the cursor position using the fg color and the
	// current background color, advancing the cursor and scrolling as
	// needed. A '\n' moves the cursor to the start of the next row.
	PutChar(ch byte, fg Color)

	// PutString calls PutChar for each byte of s.
	PutString(s string, fg Color)

	// PutCharAt stages ch at the specified 0-based column and row without
	// moving the cursor.
	PutCharAt(ch byte, fg Color, column, row uint32) *kernel.Error

	// Scroll moves the screen contents up by one row and clears the
	// bottom row.
	Scroll()

	// Commit makes all staged changes visible.
	Commit()

	// Clear stages a blank screen and moves the cursor to the top-left
	// corner.
	Clear()

	// SetBackground changes the background color of all cells on the
	// screen and of all subsequent writes.
	SetBackground(Color)

	// SetForeground changes the color used by Write. Cells already on
	// the screen keep their color.
	SetForeground(Color)

	// Colors returns the current foreground and background colors.
	Colors() (fg, bg Color)

	// DisableCursor hides the hardware text cursor.
	DisableCursor()

	// ToggleBlink switches attribute bit 7 between blinking text and
	// bright backgrounds.
	ToggleBlink()

	// Palette returns the active color palette for this console.
	Palette() color.Palette

	// SetPaletteColor updates the color definition for the specified
	// palette index. Passing a color index greater than the number of
	// supported colors should be a no-op.
	SetPaletteColor(uint8, color.RGBA)
}
