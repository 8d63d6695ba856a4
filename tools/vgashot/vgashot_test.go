package main

import (
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vgaos/internal/snapshot"
)

func TestRun(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	t.Run("success", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "screen.png")
		if err := run("consoleBg=blue", `hello\nworld`, output, logger); err != nil {
			t.Fatal(err)
		}

		f, err := os.Open(output)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		img, err := png.Decode(f)
		if err != nil {
			t.Fatal(err)
		}

		// The bottom right cell is blank and uses the configured background
		got := color.RGBAModel.Convert(img.At(img.Bounds().Max.X-1, img.Bounds().Max.Y-1))
		if exp := (color.RGBA{B: 170, A: 0xff}); got != exp {
			t.Fatalf("expected background pixel to be %v; got %v", exp, got)
		}

		if exp := (80 * snapshot.CellWidth); img.Bounds().Dx() != exp {
			t.Fatalf("expected image width to be %d; got %d", exp, img.Bounds().Dx())
		}
	})

	t.Run("missing output", func(t *testing.T) {
		if err := run("", "", "", logger); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("unwritable output", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "missing", "screen.png")
		if err := run("", "", output, logger); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestColorList(t *testing.T) {
	list := colorList()
	if !strings.HasPrefix(list, "black, blue") || !strings.HasSuffix(list, "yellow, white") {
		t.Fatalf("unexpected color list %q", list)
	}
}
