package kmain

import (
	"strings"
	"testing"

	"vgaos/device/video/console"
	"vgaos/internal/vgasim"
	"vgaos/kernel"
	"vgaos/kernel/cpu"
	"vgaos/kernel/hal"
	"vgaos/kernel/kfmt"
)

func TestBanner(t *testing.T) {
	defer func() {
		randomUint64Fn = cpu.RandomUint64
	}()

	specs := []struct {
		rng        func() (uint64, bool)
		expBootRow string
	}{
		{
			func() (uint64, bool) { return 0xc0ffee, true },
			"boot id: 0000000000c0ffee",
		},
		{
			func() (uint64, bool) { return 0, false },
			"boot id: unavailable (no rdrand support)",
		},
	}

	for specIndex, spec := range specs {
		randomUint64Fn = spec.rng

		m := vgasim.New(nil)
		cons := console.NewVgaTextConsole(console.NewFramebuffer(m.FB), m, console.DefaultConfig())
		cons.SetBackground(console.White)

		Banner(cons)

		if got := strings.TrimRight(m.Row(0), " "); !strings.HasPrefix(got, "Welcome to vgaos!") {
			t.Errorf("[spec %d] expected welcome message on row 0; got %q", specIndex, got)
		}

		if _, attr := m.Cell(0, 0); attr != uint8(console.PackAttr(console.White, console.Blue)) {
			t.Errorf("[spec %d] expected welcome message to be blue on white; got attribute 0x%02x", specIndex, attr)
		}

		if got := strings.TrimRight(m.Row(1), " "); got != spec.expBootRow {
			t.Errorf("[spec %d] expected row 1 to be %q; got %q", specIndex, spec.expBootRow, got)
		}

		if _, attr := m.Cell(0, 1); attr != uint8(console.PackAttr(console.White, console.Green)) {
			t.Errorf("[spec %d] expected status line to be green on white; got attribute 0x%02x", specIndex, attr)
		}

		if exp, got := "console: 80x25 text mode, colors=white/white", strings.TrimRight(m.Row(2), " "); got != exp {
			t.Errorf("[spec %d] expected row 2 to be %q; got %q", specIndex, exp, got)
		}

		if fg, _ := cons.Colors(); fg != console.White {
			t.Errorf("[spec %d] expected Banner to restore the foreground color; got %s", specIndex, fg)
		}
	}
}

func TestKmain(t *testing.T) {
	defer func() {
		detectHardwareFn = hal.DetectHardware
		activeConsoleFn = hal.ActiveConsole
		randomUint64Fn = cpu.RandomUint64
		panicFn = kfmt.Panic
	}()

	m := vgasim.New(nil)
	cons := console.NewVgaTextConsole(console.NewFramebuffer(m.FB), m, console.DefaultConfig())

	var (
		detectCalled bool
		panicErr     interface{}
	)
	detectHardwareFn = func() { detectCalled = true }
	randomUint64Fn = func() (uint64, bool) { return 1, true }
	panicFn = func(e interface{}) { panicErr = e }

	specs := []struct {
		cons      console.Device
		expBanner bool
	}{
		{nil, false},
		{cons, true},
	}

	for specIndex, spec := range specs {
		detectCalled, panicErr = false, nil
		activeConsoleFn = func() console.Device { return spec.cons }

		Kmain(0)

		if !detectCalled {
			t.Errorf("[spec %d] expected Kmain to detect hardware", specIndex)
		}

		if err, ok := panicErr.(*kernel.Error); !ok || err != errKmainReturned {
			t.Errorf("[spec %d] expected Kmain to panic with errKmainReturned; got %v", specIndex, panicErr)
		}

		gotBanner := strings.HasPrefix(m.Row(0), "Welcome")
		if gotBanner != spec.expBanner {
			t.Errorf("[spec %d] expected banner to be printed: %t; got %t", specIndex, spec.expBanner, gotBanner)
		}
	}
}
