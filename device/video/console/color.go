package console

// Color is one of the 16 colors supported by the VGA text mode.
type Color uint8

// The supported colors. Each value equals its 4-bit hardware code.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

// DangerColor is the text color selected when reporting unrecoverable errors.
const DangerColor = Red

var colorNames = [16]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "lightgray",
	"darkgray", "lightblue", "lightgreen", "lightcyan", "lightred", "pink", "yellow", "white",
}

// Code returns the 4-bit hardware code for c. Bits above the low nibble are
// discarded so the result always fits in one half of an attribute byte.
func (c Color) Code() uint8 {
	return uint8(c) & 0x0f
}

// String returns the lowercase name of the color.
func (c Color) String() string {
	return colorNames[c.Code()]
}

// ParseColor looks up a color by the name returned by its String method.
func ParseColor(name string) (Color, bool) {
	for code, colorName := range colorNames {
		if colorName == name {
			return Color(code), true
		}
	}

	return Black, false
}

// Attr is a packed VGA attribute byte. Bits 0-3 hold the foreground color and
// bits 4-7 hold the background color. When blinking is enabled, bit 7 selects
// blinking text instead of the bright half of the background palette.
type Attr uint8

// PackAttr combines a background and a foreground color into an attribute
// byte. All cell writes encode their colors through PackAttr.
func PackAttr(bg, fg Color) Attr {
	return Attr(bg.Code()<<4 | fg.Code())
}

// Foreground returns the foreground color encoded in the attribute.
func (a Attr) Foreground() Color {
	return Color(a & 0x0f)
}

// Background returns the background color encoded in the attribute.
func (a Attr) Background() Color {
	return Color(a >> 4)
}

// WithBackground returns a copy of the attribute with its background color
// replaced by bg.
func (a Attr) WithBackground(bg Color) Attr {
	return PackAttr(bg, a.Foreground())
}
