package kfmt

import (
	"vgaos/kernel"
	"vgaos/kernel/cpu"
)

// DangerColorSetter is implemented by output sinks that can switch to a
// distinct color for reporting unrecoverable errors.
type DangerColorSetter interface {
	UseDangerColor()
}

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the compiler.
	cpuHaltFn = cpu.Halt

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic outputs the supplied error (if not nil) to the active output sink and
// halts the CPU. Calls to Panic never return. If the sink supports it, the
// report is printed using the sink's danger color.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if setter, ok := outputSink.(DangerColorSetter); ok {
		setter.UseDangerColor()
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	cpuHaltFn()
}
