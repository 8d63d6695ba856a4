package console

import (
	"image/color"
	"io"
	"vgaos/kernel"
	"vgaos/kernel/kfmt"
	"vgaos/kernel/sync"
)

const (
	// lastRowStart is the offset of the first cell in the bottom row.
	lastRowStart = Cells - Columns

	// clearFg is the foreground color of the blank row revealed by a scroll.
	clearFg = White
)

var (
	// ErrOutOfBounds is returned when a position outside the text grid is
	// requested.
	ErrOutOfBounds = &kernel.Error{Module: "vga_text_console", Message: "coordinates outside the 80x25 text grid"}

	errFramebufferTooSmall = &kernel.Error{Module: "vga_text_console", Message: "framebuffer cannot hold 80x25 cells"}
)

// stagedCell is a back buffer slot. Slots that are not staged are left
// untouched by Commit.
type stagedCell struct {
	cell   Cell
	staged bool
}

// Stats contains counters describing the work performed by the console.
type Stats struct {
	Scrolls uint64
	Commits uint64
}

// VgaTextConsole implements an 80x25 double-buffered text console on top of
// the VGA text mode framebuffer.
//
// Output operations stage cells in a back buffer. Commit copies the staged
// cells to the framebuffer and to a front mirror that tracks what is on
// screen; cells that were not staged are never rewritten. Scrolling folds the
// front mirror into the back buffer before shifting so that content which
// was not touched since the last commit scrolls along with everything else.
//
// The console state is guarded by a single spinlock; every exported method
// acquires it exactly once.
type VgaTextConsole struct {
	lock sync.Spinlock

	fb    *Framebuffer
	ports PortBus
	cfg   Config

	palette color.Palette

	// cursor is the offset of the next write. A value of Cells means
	// that the next write must scroll first.
	cursor uint32
	fg, bg Color

	front [Cells]Cell
	back  [Cells]stagedCell

	// The range of back buffer offsets that may contain staged cells. The
	// range is empty when dirtyLo > dirtyHi.
	dirtyLo, dirtyHi uint32

	stats Stats
}

// NewVgaTextConsole creates a console that renders to fb and programs the
// display controller through ports. The settings in cfg take effect when the
// driver is initialized; until then the console uses the default colors.
func NewVgaTextConsole(fb *Framebuffer, ports PortBus, cfg Config) *VgaTextConsole {
	def := DefaultConfig()
	cons := &VgaTextConsole{
		fb:      fb,
		ports:   ports,
		cfg:     cfg,
		fg:      def.Foreground,
		bg:      def.Background,
		dirtyLo: Cells,
		palette: color.Palette{
			color.RGBA{R: 0, G: 0, B: 0},       /* black */
			color.RGBA{R: 0, G: 0, B: 170},     /* blue */
			color.RGBA{R: 0, G: 170, B: 0},     /* green */
			color.RGBA{R: 0, G: 170, B: 170},   /* cyan */
			color.RGBA{R: 170, G: 0, B: 0},     /* red */
			color.RGBA{R: 170, G: 0, B: 170},   /* magenta */
			color.RGBA{R: 170, G: 85, B: 0},    /* brown */
			color.RGBA{R: 170, G: 170, B: 170}, /* light gray */
			color.RGBA{R: 85, G: 85, B: 85},    /* dark gray */
			color.RGBA{R: 85, G: 85, B: 255},   /* light blue */
			color.RGBA{R: 85, G: 255, B: 85},   /* light green */
			color.RGBA{R: 85, G: 255, B: 255},  /* light cyan */
			color.RGBA{R: 255, G: 85, B: 85},   /* light red */
			color.RGBA{R: 255, G: 85, B: 255},  /* pink */
			color.RGBA{R: 255, G: 255, B: 85},  /* yellow */
			color.RGBA{R: 255, G: 255, B: 255}, /* white */
		},
	}

	blank := Cell{Char: blankChar, Attr: PackAttr(def.Background, def.Foreground)}
	for i := range cons.front {
		cons.front[i] = blank
	}

	return cons
}

// PutChar stages ch at the cursor position using fg and the current
// background color. If the cursor sits past the last cell the screen is
// scrolled first. A '\n' advances the cursor to the next row without
// staging anything.
func (cons *VgaTextConsole) PutChar(ch byte, fg Color) {
	cons.lock.Acquire()
	cons.putChar(ch, fg)
	cons.lock.Release()
}

// PutString stages each byte of s via PutChar.
func (cons *VgaTextConsole) PutString(s string, fg Color) {
	cons.lock.Acquire()
	for i := 0; i < len(s); i++ {
		cons.putChar(s[i], fg)
	}
	cons.lock.Release()
}

// PutCharAt stages ch at the 0-based column and row without moving the
// cursor. It returns ErrOutOfBounds and stages nothing if the position is
// outside the text grid.
func (cons *VgaTextConsole) PutCharAt(ch byte, fg Color, column, row uint32) *kernel.Error {
	if column >= Columns || row >= Rows {
		return ErrOutOfBounds
	}

	cons.lock.Acquire()
	cons.stage(row*Columns+column, Cell{Char: ch, Attr: PackAttr(cons.bg, fg)})
	cons.lock.Release()
	return nil
}

// Write implements io.Writer. The bytes in p are staged using the current
// foreground color and committed to the screen.
func (cons *VgaTextConsole) Write(p []byte) (int, error) {
	cons.lock.Acquire()
	for _, b := range p {
		cons.putChar(b, cons.fg)
	}
	cons.commit()
	cons.lock.Release()

	return len(p), nil
}

// Scroll moves the screen contents up by one row, clears the bottom row and
// moves the cursor to the start of the bottom row.
func (cons *VgaTextConsole) Scroll() {
	cons.lock.Acquire()
	cons.scroll()
	cons.lock.Release()
}

// Commit copies all staged cells to the framebuffer and the front mirror and
// resets the back buffer.
func (cons *VgaTextConsole) Commit() {
	cons.lock.Acquire()
	cons.commit()
	cons.lock.Release()
}

// Clear stages blank cells using the current colors for the entire screen
// and moves the cursor to the top-left corner.
func (cons *VgaTextConsole) Clear() {
	cons.lock.Acquire()
	cons.clear()
	cons.lock.Release()
}

// SetBackground sets the background color for subsequent writes and restages
// every cell with its background replaced by bg. Characters and foreground
// colors are preserved.
func (cons *VgaTextConsole) SetBackground(bg Color) {
	cons.lock.Acquire()
	cons.bg = bg
	for off := uint32(0); off < Cells; off++ {
		cell := cons.visibleCell(off)
		cell.Attr = cell.Attr.WithBackground(bg)
		cons.back[off] = stagedCell{cell: cell, staged: true}
	}
	cons.markAllDirty()
	cons.lock.Release()
}

// SetForeground sets the color used by Write. Unlike SetBackground it does
// not repaint cells that are already on the screen.
func (cons *VgaTextConsole) SetForeground(fg Color) {
	cons.lock.Acquire()
	cons.fg = fg
	cons.lock.Release()
}

// UseDangerColor switches the foreground color to DangerColor. It is invoked
// by kfmt.Panic before reporting an unrecoverable error.
func (cons *VgaTextConsole) UseDangerColor() {
	cons.SetForeground(DangerColor)
}

// Colors returns the current foreground and background colors.
func (cons *VgaTextConsole) Colors() (fg, bg Color) {
	cons.lock.Acquire()
	fg, bg = cons.fg, cons.bg
	cons.lock.Release()
	return fg, bg
}

// Cursor returns the 0-based column and row of the next write. A row equal to
// Rows indicates that the next write will scroll the screen first.
func (cons *VgaTextConsole) Cursor() (column, row uint32) {
	cons.lock.Acquire()
	column, row = cons.cursor%Columns, cons.cursor/Columns
	cons.lock.Release()
	return column, row
}

// CellAt returns the cell that will be on screen at the 0-based column and
// row after the next Commit.
func (cons *VgaTextConsole) CellAt(column, row uint32) (Cell, *kernel.Error) {
	if column >= Columns || row >= Rows {
		return Cell{}, ErrOutOfBounds
	}

	cons.lock.Acquire()
	cell := cons.visibleCell(row*Columns + column)
	cons.lock.Release()
	return cell, nil
}

// Stats returns a snapshot of the console counters.
func (cons *VgaTextConsole) Stats() Stats {
	cons.lock.Acquire()
	stats := cons.stats
	cons.lock.Release()
	return stats
}

// DisableCursor hides the hardware text cursor.
func (cons *VgaTextConsole) DisableCursor() {
	cons.lock.Acquire()
	disableCursor(cons.ports)
	cons.lock.Release()
}

// ToggleBlink switches attribute bit 7 between blinking text and bright
// backgrounds.
func (cons *VgaTextConsole) ToggleBlink() {
	cons.lock.Acquire()
	toggleBlink(cons.ports)
	cons.lock.Release()
}

// SetBlink enables or disables blinking text.
func (cons *VgaTextConsole) SetBlink(enabled bool) {
	cons.lock.Acquire()
	setBlink(cons.ports, enabled)
	cons.lock.Release()
}

// Palette returns a copy of the active color palette for this console.
func (cons *VgaTextConsole) Palette() color.Palette {
	cons.lock.Acquire()
	pal := make(color.Palette, len(cons.palette))
	copy(pal, cons.palette)
	cons.lock.Release()

	return pal
}

// SetPaletteColor updates the color definition for the specified
// palette index. Passing a color index greater than the number of
// supported colors is a no-op.
func (cons *VgaTextConsole) SetPaletteColor(index uint8, rgba color.RGBA) {
	if index >= uint8(len(cons.palette)) {
		return
	}

	cons.lock.Acquire()
	cons.palette[index] = rgba
	loadDACEntry(cons.ports, index, rgba.R, rgba.G, rgba.B)
	cons.lock.Release()
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit hides the hardware cursor, selects the configured blink mode
// and colors and clears the screen.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	if cons.fb == nil || cons.fb.Len() < Cells {
		return errFramebufferTooSmall
	}

	cons.lock.Acquire()
	disableCursor(cons.ports)
	setBlink(cons.ports, cons.cfg.Blink)
	cons.fg, cons.bg = cons.cfg.Foreground, cons.cfg.Background
	cons.clear()
	cons.commit()
	cons.lock.Release()

	blink := "off"
	if cons.cfg.Blink {
		blink = "on"
	}
	kfmt.Fprintf(w, "cursor disabled, blink=%s, colors=%s/%s\n", blink, cons.cfg.Foreground.String(), cons.cfg.Background.String())

	return nil
}

// putChar implements PutChar. The lock must be held.
func (cons *VgaTextConsole) putChar(ch byte, fg Color) {
	if cons.cursor >= Cells {
		cons.scroll()
	}

	if ch == '\n' {
		cons.newline()
		return
	}

	cons.stage(cons.cursor, Cell{Char: ch, Attr: PackAttr(cons.bg, fg)})
	cons.advance()
}

// advance moves the cursor to the next cell. The cursor may end up one past
// the last cell; the next putChar call scrolls before writing.
func (cons *VgaTextConsole) advance() {
	cons.cursor++
	if cons.cursor > Cells {
		cons.scroll()
	}
}

// newline moves the cursor to the start of the next row, scrolling if the
// cursor is already in the bottom row.
func (cons *VgaTextConsole) newline() {
	if cons.cursor >= lastRowStart {
		cons.scroll()
		return
	}

	cons.cursor = cons.cursor - cons.cursor%Columns + Columns
}

// scroll implements Scroll. The lock must be held.
func (cons *VgaTextConsole) scroll() {
	// Fold the on-screen contents of unstaged cells into the back buffer
	// so they are shifted along with the staged ones.
	for off := uint32(0); off < Cells; off++ {
		if !cons.back[off].staged {
			cons.back[off] = stagedCell{cell: cons.front[off], staged: true}
		}
	}

	copy(cons.back[:lastRowStart], cons.back[Columns:])

	blank := stagedCell{
		cell:   Cell{Char: blankChar, Attr: PackAttr(cons.bg, clearFg)},
		staged: true,
	}
	for off := uint32(lastRowStart); off < Cells; off++ {
		cons.back[off] = blank
	}

	cons.markAllDirty()
	cons.cursor = lastRowStart
	cons.stats.Scrolls++
}

// commit implements Commit. The lock must be held.
func (cons *VgaTextConsole) commit() {
	for off := cons.dirtyLo; off <= cons.dirtyHi && off < Cells; off++ {
		slot := &cons.back[off]
		if !slot.staged {
			continue
		}

		cons.fb.Store(off, slot.cell)
		cons.front[off] = slot.cell
		slot.staged = false
	}

	cons.dirtyLo, cons.dirtyHi = Cells, 0
	cons.stats.Commits++
}

// clear implements Clear. The lock must be held.
func (cons *VgaTextConsole) clear() {
	blank := stagedCell{
		cell:   Cell{Char: blankChar, Attr: PackAttr(cons.bg, cons.fg)},
		staged: true,
	}
	for off := range cons.back {
		cons.back[off] = blank
	}

	cons.markAllDirty()
	cons.cursor = 0
}

// stage records cell as a pending write at offset.
func (cons *VgaTextConsole) stage(offset uint32, cell Cell) {
	cons.back[offset] = stagedCell{cell: cell, staged: true}
	if offset < cons.dirtyLo {
		cons.dirtyLo = offset
	}
	if offset > cons.dirtyHi {
		cons.dirtyHi = offset
	}
}

func (cons *VgaTextConsole) markAllDirty() {
	cons.dirtyLo, cons.dirtyHi = 0, Cells-1
}

// visibleCell returns the staged cell at offset or, if nothing is staged
// there, the cell currently on screen.
func (cons *VgaTextConsole) visibleCell(offset uint32) Cell {
	if slot := cons.back[offset]; slot.staged {
		return slot.cell
	}

	return cons.front[offset]
}
