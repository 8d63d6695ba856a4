package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"vgaos/kernel"
	"vgaos/kernel/cpu"
)

type dangerSink struct {
	bytes.Buffer
	dangerColorSet bool
}

func (s *dangerSink) UseDangerColor() {
	s.dangerColorSet = true
}

func TestPanic(t *testing.T) {
	defer func() {
		cpuHaltFn = cpu.Halt
		outputSink = nil
	}()

	var cpuHaltCalled bool
	cpuHaltFn = func() {
		cpuHaltCalled = true
	}

	specs := []struct {
		descr string
		err   interface{}
		exp   string
	}{
		{
			"with *kernel.Error",
			&kernel.Error{Module: "test", Message: "panic test"},
			"\n-----------------------------------\n[test] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"with error",
			errors.New("go error"),
			"\n-----------------------------------\n[rt] unrecoverable error: go error\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"with string",
			"string error",
			"\n-----------------------------------\n[rt] unrecoverable error: string error\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"without error",
			nil,
			"\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
	}

	for specIndex, spec := range specs {
		cpuHaltCalled = false
		earlyPrintBuffer = ringBuffer{}
		sink := &dangerSink{}
		SetOutputSink(sink)

		Panic(spec.err)

		if got := sink.String(); got != spec.exp {
			t.Errorf("[spec %d] %s: expected to get:\n%q\ngot:\n%q", specIndex, spec.descr, spec.exp, got)
		}

		if !sink.dangerColorSet {
			t.Errorf("[spec %d] %s: expected Panic to switch the sink to its danger color", specIndex, spec.descr)
		}

		if !cpuHaltCalled {
			t.Errorf("[spec %d] %s: expected cpu.Halt() to be called by Panic", specIndex, spec.descr)
		}
	}
}

func TestPanicWithPlainSink(t *testing.T) {
	defer func() {
		cpuHaltFn = cpu.Halt
		outputSink = nil
	}()

	cpuHaltFn = func() {}

	var buf bytes.Buffer
	earlyPrintBuffer = ringBuffer{}
	SetOutputSink(&buf)
	Panic(&kernel.Error{Module: "test", Message: "plain"})

	if exp := "[test] unrecoverable error: plain\n"; !bytes.Contains(buf.Bytes(), []byte(exp)) {
		t.Fatalf("expected output to contain %q; got %q", exp, buf.String())
	}
}
