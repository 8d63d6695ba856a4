// Package hal detects the available hardware and keeps track of the devices
// that were successfully initialized.
package hal

import (
	"bytes"
	"sort"
	"vgaos/device"
	"vgaos/device/video/console"
	"vgaos/kernel/kfmt"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	activeConsole console.Device

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	devices managedDevices
	strBuf  bytes.Buffer
)

// ActiveConsole returns the currently active console or nil if no console has
// been initialized.
func ActiveConsole() console.Device {
	return devices.activeConsole
}

// ActiveDrivers returns the list of drivers that were successfully
// initialized in detection order.
func ActiveDrivers() []device.Driver {
	return devices.activeDrivers
}

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers.
func DetectHardware() {
	// Get driver list and sort by detection priority
	drivers := device.DriverList()
	sort.Sort(drivers)

	probe(drivers)
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver. Driver output is
// tagged with the driver name and version; output emitted before a console
// becomes active is buffered and replayed once it is attached.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: kfmt.Output}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(info, drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized.
func onDriverInit(_ *device.DriverInfo, drv device.Driver) {
	if cons, ok := drv.(console.Device); ok {
		onConsoleInit(cons)
	}
}

// onConsoleInit is invoked whenever a console is initialized. The first
// console to be found becomes the active console and the kfmt output sink.
func onConsoleInit(cons console.Device) {
	if devices.activeConsole != nil {
		return
	}

	devices.activeConsole = cons
	kfmt.SetOutputSink(cons)
}
