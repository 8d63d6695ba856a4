package console

// Cell is the character and attribute pair displayed at one position of the
// text grid.
type Cell struct {
	Char byte
	Attr Attr
}

// blankChar is the character used when clearing cells.
const blankChar = ' '

// word returns the cell in the layout expected by the video memory: the
// character in the low byte followed by the attribute in the high byte.
func (c Cell) word() uint16 {
	return uint16(c.Attr)<<8 | uint16(c.Char)
}

func cellFromWord(w uint16) Cell {
	return Cell{Char: byte(w), Attr: Attr(w >> 8)}
}
