package kmain

import (
	"vgaos/device/video/console"
	"vgaos/kernel"
	"vgaos/kernel/cpu"
	"vgaos/kernel/hal"
	"vgaos/kernel/kfmt"
	"vgaos/multiboot"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// The following functions are mocked by tests.
	detectHardwareFn = hal.DetectHardware
	activeConsoleFn  = hal.ActiveConsole
	randomUint64Fn   = cpu.RandomUint64
	panicFn          = kfmt.Panic
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code
// after setting up the GDT and a minimal g0 struct that allows Go code to use
// the 4K stack allocated by the assembly code.
//
// The rt0 code passes the address of the multiboot info payload provided by
// the bootloader.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)

	detectHardwareFn()

	if cons := activeConsoleFn(); cons != nil {
		Banner(cons)
	}

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating kfmt.Panic as dead-code and eliminating it.
	panicFn(errKmainReturned)
}

// Banner prints the welcome message followed by a status line with the boot
// id obtained from the hardware RNG. The console foreground color is restored
// afterwards.
func Banner(cons console.Device) {
	fg, bg := cons.Colors()

	cons.SetForeground(console.Blue)
	kfmt.Fprintf(cons, "Welcome to vgaos! There isn't much here at the moment but more is on the way.\n")

	cons.SetForeground(console.Green)
	if id, ok := randomUint64Fn(); ok {
		kfmt.Fprintf(cons, "boot id: %16x\n", id)
	} else {
		kfmt.Fprintf(cons, "boot id: unavailable (no rdrand support)\n")
	}
	kfmt.Fprintf(cons, "console: %dx%d text mode, colors=%s/%s\n", console.Columns, console.Rows, fg.String(), bg.String())

	cons.SetForeground(fg)
}
