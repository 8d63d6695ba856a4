// Package simboot brings up the text console on an emulated VGA adapter the
// same way the kernel does at boot. It is used by the hosted tools.
package simboot

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"vgaos/device/video/console"
	"vgaos/internal/vgasim"
	"vgaos/kernel/kfmt"
	"vgaos/multiboot"
)

// Boot creates an emulated adapter and initializes a console driver on top of
// it using the settings found in cmdLine. The console becomes the kfmt output
// sink. The driver init output and any unhandled port accesses are reported
// to logger, which may be nil.
func Boot(cmdLine string, logger *log.Logger) (*console.VgaTextConsole, *vgasim.Machine, error) {
	m := vgasim.New(logger)
	cfg := console.ConfigFromCmdLine(multiboot.ParseCmdLine(cmdLine))
	cons := console.NewVgaTextConsole(console.NewFramebuffer(m.FB), m, cfg)

	var initLog bytes.Buffer
	if err := cons.DriverInit(&initLog); err != nil {
		return nil, nil, fmt.Errorf("simboot: initializing %s: %w", cons.DriverName(), err)
	}

	if logger != nil {
		logger.Printf("%s: %s", cons.DriverName(), strings.TrimSpace(initLog.String()))
	}

	kfmt.SetOutputSink(cons)
	return cons, m, nil
}
