package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vgaos/device/video/console"
	"vgaos/internal/vgasim"
)

func TestRenderANSI(t *testing.T) {
	m := vgasim.New(nil)
	m.FB[0] = 0x1e<<8 | 'H'
	m.FB[1] = 0x1e<<8 | 'i'
	m.FB[2] = 0x42<<8 | '!'
	m.FB[3] = 0x42<<8 | 0x01
	m.FB[4] = 0xf4<<8 | 0xb0

	out := renderANSI(m)
	lines := strings.Split(out, "\n")
	if got := len(lines); got != vgasim.Rows+1 {
		t.Fatalf("expected %d lines; got %d", vgasim.Rows+1, got)
	}

	blankRow := "\x1b[0;30;40m" + strings.Repeat(" ", vgasim.Columns) + "\x1b[0m"

	specs := []struct {
		row int
		exp string
	}{
		{
			0,
			"\x1b[0;33;44;1mHi" +
				"\x1b[0;32;41m! " +
				"\x1b[0;31;47m?" +
				"\x1b[0;30;40m" + strings.Repeat(" ", vgasim.Columns-5) +
				"\x1b[0m",
		},
		{1, blankRow},
		{vgasim.Rows - 1, blankRow},
	}

	for specIndex, spec := range specs {
		if got := lines[spec.row]; got != spec.exp {
			t.Errorf("[spec %d] expected row %d to be:\n%q\ngot:\n%q", specIndex, spec.row, spec.exp, got)
		}
	}
}

func TestRenderANSIFromConsole(t *testing.T) {
	m := vgasim.New(nil)
	cons := console.NewVgaTextConsole(console.NewFramebuffer(m.FB), m, console.DefaultConfig())
	cons.PutString("ok", console.LightGreen)
	cons.Commit()

	// Cells that were never committed still hold zeroes
	if exp, got := "\x1b[0;32;40;1mok\x1b[0;30;40m  ", renderANSI(m)[:26]; got != exp {
		t.Fatalf("expected output to start with %q; got %q", exp, got)
	}
}

func TestViewerSnapshot(t *testing.T) {
	m := vgasim.New(nil)
	vw := &viewer{
		cons:        console.NewVgaTextConsole(console.NewFramebuffer(m.FB), m, console.DefaultConfig()),
		m:           m,
		logger:      log.New(io.Discard, "", 0),
		snapshotDir: t.TempDir(),
	}

	for i := 0; i < 2; i++ {
		if err := vw.saveSnapshot(nil, nil); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"vgaview-001.png", "vgaview-002.png"} {
		if _, err := os.Stat(filepath.Join(vw.snapshotDir, name)); err != nil {
			t.Errorf("expected snapshot %s to be saved: %v", name, err)
		}
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgaview.log")
	logger, err := newLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Printf("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, exp := range []string{"starting session", "hello"} {
		if !bytes.Contains(data, []byte(exp)) {
			t.Errorf("expected log file to contain %q; got %q", exp, data)
		}
	}

	if _, err := newLogger(filepath.Join(t.TempDir(), "missing", "vgaview.log")); err == nil {
		t.Error("expected an error when the log folder does not exist")
	}
}
