package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"vgaos/device/video/console"
	"vgaos/internal/simboot"
	"vgaos/internal/snapshot"
	"vgaos/kernel/kfmt"
	"vgaos/kernel/kmain"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[vgashot] error: %s\n", err.Error())
	os.Exit(1)
}

// run boots a console, prints the boot banner followed by text and saves the
// resulting screen to output.
func run(cmdLine, text, output string, logger *log.Logger) error {
	if output == "" {
		return errors.New("missing output file")
	}

	cons, m, err := simboot.Boot(cmdLine, logger)
	if err != nil {
		return err
	}
	defer kfmt.SetOutputSink(nil)

	kmain.Banner(cons)
	if text != "" {
		// Allow multi-line text to be passed on the command line.
		kfmt.Printf("%s\n", strings.ReplaceAll(text, `\n`, "\n"))
	}

	fg, bg := cons.Colors()
	logger.Printf("rendering screen (fg=%s bg=%s scrolls=%d) to %s", fg, bg, cons.Stats().Scrolls, output)
	return snapshot.SavePNG(m, output)
}

func main() {
	output := flag.String("o", "screen.png", "the PNG file to write")
	cmdLine := flag.String("cmdline", "", "kernel command line passed to the console driver (e.g. consoleBg=blue)")
	text := flag.String("text", "", "extra text printed after the boot banner; \\n starts a new line")
	verbose := flag.Bool("v", false, "log progress to STDERR")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "vgashot: render the boot screen of the vga text console to a PNG image\n\n")
		fmt.Fprint(os.Stderr, "Usage: vgashot [options]\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported colors: %s\n", colorList())
	}
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "[vgashot] ", 0)
	}

	if err := run(*cmdLine, *text, *output, logger); err != nil {
		exit(err)
	}
}

func colorList() string {
	names := make([]string, 0, 16)
	for c := console.Black; c <= console.White; c++ {
		names = append(names, c.String())
	}

	return strings.Join(names, ", ")
}
