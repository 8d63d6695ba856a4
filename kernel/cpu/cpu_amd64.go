package cpu

var (
	cpuidFn  = ID
	rdrandFn = RdRand
	rdseedFn = RdSeed
)

// rdrandRetries is the number of attempts RandomUint64 makes before giving
// up. A RDRAND failure means the DRNG is temporarily out of entropy and
// Intel's software guide suggests 10 retries.
const rdrandRetries = 10

// Halt stops instruction execution.
func Halt()

// ID returns information about the CPU and its features. It
// is implemented as a CPUID instruction with EAX=leaf and
// returns the values in EAX, EBX, ECX and EDX.
func ID(leaf uint32) (uint32, uint32, uint32, uint32)

// HasRDRAND returns true if the CPU supports the RDRAND instruction
// (CPUID.01H:ECX bit 30).
func HasRDRAND() bool {
	_, _, ecx, _ := cpuidFn(1)
	return ecx&(1<<30) != 0
}

// HasRDSEED returns true if the CPU supports the RDSEED instruction
// (CPUID.(EAX=07H,ECX=0):EBX bit 18).
func HasRDSEED() bool {
	maxLeaf, _, _, _ := cpuidFn(0)
	if maxLeaf < 7 {
		return false
	}

	_, ebx, _, _ := cpuidFn(7)
	return ebx&(1<<18) != 0
}

// RdRand executes a single RDRAND instruction. The returned flag is false
// if the hardware could not supply a random value.
func RdRand() (uint64, bool)

// RdSeed executes a single RDSEED instruction. The returned flag is false
// if the hardware could not supply a seed value.
func RdSeed() (uint64, bool)

// RandomUint64 returns a random value obtained via RDRAND, retrying a few
// times if the DRNG is exhausted. It returns false if RDRAND is not supported
// or if every attempt failed.
func RandomUint64() (uint64, bool) {
	if !HasRDRAND() {
		return 0, false
	}

	for i := 0; i < rdrandRetries; i++ {
		if val, ok := rdrandFn(); ok {
			return val, true
		}
	}

	return 0, false
}

// SeedUint64 behaves like RandomUint64 but uses RDSEED.
func SeedUint64() (uint64, bool) {
	if !HasRDSEED() {
		return 0, false
	}

	for i := 0; i < rdrandRetries; i++ {
		if val, ok := rdseedFn(); ok {
			return val, true
		}
	}

	return 0, false
}

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortWriteWord writes a uint16 value to the requested port.
func PortWriteWord(port uint16, val uint16)

// PortWriteDword writes a uint32 value to the requested port.
func PortWriteDword(port uint16, val uint32)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

// PortReadWord reads a uint16 value from the requested port.
func PortReadWord(port uint16) uint16

// PortReadDword reads a uint32 value from the requested port.
func PortReadDword(port uint16) uint32
