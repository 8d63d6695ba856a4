package hal

import (
	"io"
	"strings"
	"testing"

	"vgaos/device"
	"vgaos/device/video/console"
	"vgaos/internal/vgasim"
	"vgaos/kernel"
	"vgaos/kernel/kfmt"
)

type failingDriver struct{}

func (failingDriver) DriverName() string                      { return "failing" }
func (failingDriver) DriverVersion() (uint16, uint16, uint16) { return 1, 2, 3 }
func (failingDriver) DriverInit(_ io.Writer) *kernel.Error {
	return &kernel.Error{Module: "test", Message: "no device"}
}

func newSimConsole() (*console.VgaTextConsole, *vgasim.Machine) {
	m := vgasim.New(nil)
	return console.NewVgaTextConsole(console.NewFramebuffer(m.FB), m, console.DefaultConfig()), m
}

func TestProbe(t *testing.T) {
	defer func() {
		devices = managedDevices{}
		kfmt.SetOutputSink(nil)
	}()

	cons1, m1 := newSimConsole()
	cons2, _ := newSimConsole()

	probe(device.DriverInfoList{
		{Order: device.DetectOrderEarly, Probe: func() device.Driver { return cons1 }},
		{Order: device.DetectOrderBeforeACPI, Probe: func() device.Driver { return failingDriver{} }},
		{Order: device.DetectOrderACPI, Probe: func() device.Driver { return nil }},
		{Order: device.DetectOrderLast, Probe: func() device.Driver { return cons2 }},
	})

	if ActiveConsole() != cons1 {
		t.Fatal("expected the first console to become the active console")
	}

	if got := len(ActiveDrivers()); got != 2 {
		t.Fatalf("expected 2 active drivers; got %d", got)
	}

	expRows := []string{
		"[hal] vga_text_console(0.1.0): cursor disabled, blink=off, colors=white/black",
		"[hal] vga_text_console(0.1.0): initialized",
		"[hal] failing(1.2.3): init failed: no device",
		"[hal] vga_text_console(0.1.0): cursor disabled, blink=off, colors=white/black",
		"[hal] vga_text_console(0.1.0): initialized",
		"",
	}

	for row, exp := range expRows {
		if got := strings.TrimRight(m1.Row(row), " "); got != exp {
			t.Errorf("expected row %d to be:\n%q\ngot:\n%q", row, exp, got)
		}
	}

	// Printf output is routed to the active console
	kfmt.Printf("hello")
	if got := strings.TrimRight(m1.Row(5), " "); got != "hello" {
		t.Errorf("expected Printf output on the active console; got %q", got)
	}
}

func TestDetectHardwareWithoutFramebuffer(t *testing.T) {
	defer func() {
		devices = managedDevices{}
		kfmt.SetOutputSink(nil)
	}()

	DetectHardware()

	if cons := ActiveConsole(); cons != nil {
		t.Fatalf("expected no active console without framebuffer info; got %v", cons)
	}
}
