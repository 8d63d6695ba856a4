package console

// Kernel command line keys recognized by the console.
const (
	CmdLineForeground = "consoleFg"
	CmdLineBackground = "consoleBg"
	CmdLineBlink      = "consoleBlink"
)

// Config holds the settings applied to the console when its driver is
// initialized.
type Config struct {
	// The colors used for text written via the io.Writer interface and
	// for the initial screen contents.
	Foreground Color
	Background Color

	// Blink selects whether attribute bit 7 blinks the text (true) or
	// selects a bright background color (false).
	Blink bool
}

// DefaultConfig returns the default console settings: white text on a black
// background with blinking disabled.
func DefaultConfig() Config {
	return Config{
		Foreground: White,
		Background: Black,
	}
}

// ConfigFromCmdLine builds a Config from the key/value pairs of the kernel
// command line. Missing or unrecognized values keep their defaults.
func ConfigFromCmdLine(cmdLine map[string]string) Config {
	cfg := DefaultConfig()

	if c, ok := ParseColor(cmdLine[CmdLineForeground]); ok {
		cfg.Foreground = c
	}

	if c, ok := ParseColor(cmdLine[CmdLineBackground]); ok {
		cfg.Background = c
	}

	switch cmdLine[CmdLineBlink] {
	case "on":
		cfg.Blink = true
	case "off":
		cfg.Blink = false
	}

	return cfg
}
