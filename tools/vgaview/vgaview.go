package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jroimartin/gocui"

	"vgaos/device/video/console"
	"vgaos/internal/simboot"
	"vgaos/internal/snapshot"
	"vgaos/internal/vgasim"
	"vgaos/kernel/kmain"
)

const (
	screenView = "screen"
	statusView = "status"
)

// ansiColors maps the low 3 bits of a VGA color code to the matching ANSI
// color offset.
var ansiColors = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[vgaview] error: %s\n", err.Error())
	os.Exit(1)
}

func newLogger(path string) (*log.Logger, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}

	l := log.New(f, "vgaview ", log.Ldate|log.Ltime|log.Lshortfile)
	l.Printf("starting session")
	return l, nil
}

// renderANSI converts the screen of m to text with ANSI color escapes.
// Bright foreground colors are rendered in bold. Escapes are only emitted
// when the attribute changes.
func renderANSI(m *vgasim.Machine) string {
	var sb strings.Builder

	for row := 0; row < vgasim.Rows; row++ {
		lastAttr := -1
		for col := 0; col < vgasim.Columns; col++ {
			ch, attr := m.Cell(col, row)
			if int(attr) != lastAttr {
				fg, bg := attr&0x0f, (attr>>4)&0x07
				if fg&0x08 != 0 {
					fmt.Fprintf(&sb, "\x1b[0;%d;%d;1m", 30+ansiColors[fg&0x07], 40+ansiColors[bg])
				} else {
					fmt.Fprintf(&sb, "\x1b[0;%d;%dm", 30+ansiColors[fg], 40+ansiColors[bg])
				}
				lastAttr = int(attr)
			}

			switch {
			case ch < ' ':
				ch = ' '
			case ch >= 0x7f:
				ch = '?'
			}
			sb.WriteByte(ch)
		}
		sb.WriteString("\x1b[0m\n")
	}

	return sb.String()
}

// viewer connects keyboard input from the screen view to the console driver.
type viewer struct {
	cons   *console.VgaTextConsole
	m      *vgasim.Machine
	logger *log.Logger

	snapshotDir string
	snapshots   int
}

func (vw *viewer) layout(g *gocui.Gui) error {
	if v, err := g.SetView(screenView, 0, 0, vgasim.Columns+1, vgasim.Rows+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "vgaos 80x25"
		v.Editable = true
		v.Editor = gocui.EditorFunc(vw.edit)
		if _, err := g.SetCurrentView(screenView); err != nil {
			return err
		}
		vw.redraw(g)
	}

	if v, err := g.SetView(statusView, 0, vgasim.Rows+2, vgasim.Columns+1, vgasim.Rows+4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "^B blink  ^F fg  ^G bg  ^L scroll  ^S snapshot  ^C quit"
		vw.redraw(g)
	}

	return nil
}

// edit stages typed characters using the current foreground color.
func (vw *viewer) edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	fg, _ := vw.cons.Colors()

	switch {
	case key == gocui.KeyEnter:
		vw.cons.PutChar('\n', fg)
	case key == gocui.KeySpace:
		vw.cons.PutChar(' ', fg)
	case ch != 0 && mod == gocui.ModNone:
		if ch >= 0x80 {
			ch = '?'
		}
		vw.cons.PutChar(byte(ch), fg)
	default:
		return
	}

	vw.cons.Commit()
	vw.drawScreen(v)
}

func (vw *viewer) drawScreen(v *gocui.View) {
	v.Clear()
	fmt.Fprint(v, renderANSI(vw.m))
}

func (vw *viewer) redraw(g *gocui.Gui) {
	if v, err := g.View(screenView); err == nil {
		vw.drawScreen(v)
	}

	if v, err := g.View(statusView); err == nil {
		v.Clear()
		fg, bg := vw.cons.Colors()
		col, row := vw.cons.Cursor()
		stats := vw.cons.Stats()
		blink := "off"
		if vw.m.BlinkEnabled() {
			blink = "on"
		}
		fmt.Fprintf(v, " fg=%s bg=%s blink=%s cursor=%d,%d scrolls=%d commits=%d",
			fg, bg, blink, col, row, stats.Scrolls, stats.Commits)
	}
}

func (vw *viewer) toggleBlink(g *gocui.Gui, _ *gocui.View) error {
	vw.cons.ToggleBlink()
	vw.logger.Printf("blink toggled; enabled=%t", vw.m.BlinkEnabled())
	vw.redraw(g)
	return nil
}

func (vw *viewer) nextForeground(g *gocui.Gui, _ *gocui.View) error {
	fg, _ := vw.cons.Colors()
	vw.cons.SetForeground((fg + 1) & 0x0f)
	vw.redraw(g)
	return nil
}

func (vw *viewer) nextBackground(g *gocui.Gui, _ *gocui.View) error {
	_, bg := vw.cons.Colors()
	vw.cons.SetBackground((bg + 1) & 0x0f)
	vw.cons.Commit()
	vw.logger.Printf("background set to %s", (bg+1)&0x0f)
	vw.redraw(g)
	return nil
}

func (vw *viewer) scroll(g *gocui.Gui, _ *gocui.View) error {
	vw.cons.Scroll()
	vw.cons.Commit()
	vw.redraw(g)
	return nil
}

func (vw *viewer) saveSnapshot(g *gocui.Gui, _ *gocui.View) error {
	vw.snapshots++
	path := filepath.Join(vw.snapshotDir, fmt.Sprintf("vgaview-%03d.png", vw.snapshots))
	if err := snapshot.SavePNG(vw.m, path); err != nil {
		vw.logger.Printf("%v", err)
		return nil
	}

	vw.logger.Printf("saved snapshot to %s", path)
	return nil
}

func quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func main() {
	cmdLine := flag.String("cmdline", "", "kernel command line passed to the console driver")
	logPath := flag.String("log", "vgaview.log", "file that receives the session log")
	snapshotDir := flag.String("snapshot-dir", ".", "folder where screen snapshots are saved")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "vgaview: interact with the vga text console on an emulated adapter\n\n")
		fmt.Fprint(os.Stderr, "Usage: vgaview [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, err := newLogger(*logPath)
	if err != nil {
		exit(err)
	}

	cons, m, err := simboot.Boot(*cmdLine, logger)
	if err != nil {
		exit(err)
	}
	kmain.Banner(cons)

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		exit(fmt.Errorf("creating gui: %w", err))
	}
	defer g.Close()

	// exit skips deferred calls so the terminal must be restored first.
	fail := func(err error) {
		logger.Printf("%v", err)
		g.Close()
		exit(err)
	}

	vw := &viewer{cons: cons, m: m, logger: logger, snapshotDir: *snapshotDir}
	g.SetManagerFunc(vw.layout)

	bindings := []struct {
		key     gocui.Key
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlB, vw.toggleBlink},
		{gocui.KeyCtrlF, vw.nextForeground},
		{gocui.KeyCtrlG, vw.nextBackground},
		{gocui.KeyCtrlL, vw.scroll},
		{gocui.KeyCtrlS, vw.saveSnapshot},
		{gocui.KeyCtrlC, quit},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			fail(err)
		}
	}

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		fail(fmt.Errorf("main loop: %w", err))
	}
}
