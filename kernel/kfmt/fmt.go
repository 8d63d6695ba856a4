package kfmt

import (
	"io"
	"unsafe"
)

// numBufSize defines the buffer size for formatting numbers.
const numBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numBuf [numBufSize]byte

	lowerDigits = "0123456789abcdef"
	upperDigits = "0123456789ABCDEF"

	// singleByte is used as a shared buffer for passing single characters
	// to doWrite.
	singleByte = []byte(" ")

	// earlyPrintBuffer captures Printf output until an output sink is
	// attached.
	earlyPrintBuffer ringBuffer

	// outputSink receives the output of Printf. While nil, output is
	// captured by earlyPrintBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the default target for calls to Printf to w and flushes
// any output accumulated in the early print buffer to it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
}

// Output is an io.Writer that forwards writes to the current output sink.
// Unlike the sink itself, it is safe to capture before a sink is attached as
// writes are buffered until then.
var Output io.Writer = outputWriter{}

type outputWriter struct{}

func (outputWriter) Write(p []byte) (int, error) {
	doWrite(outputSink, p)
	return len(p), nil
}

// Printf provides a minimal Printf implementation that can be safely used
// before the Go runtime has been properly initialized. This implementation
// does not allocate any memory.
//
// The following subset of the fmt.Printf formatting verbs is supported:
//
// Strings and characters:
//		%s the uninterpreted bytes of the string or byte slice
//		%c the character represented by a byte or rune value
//
// Integers:
//		%o base 8
//		%d base 10
//		%x base 16, with lower-case letters for a-f
//		%X base 16, with upper-case letters for A-F
//
// Booleans:
//		%t "true" or "false"
//
// Width is specified by an optional decimal number immediately preceding the
// verb. String values shorter than the width are left-padded with spaces.
// Base-10 integers are left-padded with spaces while base-8 and base-16
// integers are left-padded with zeroes.
//
// Arguments are never checked for io.Stringer support as the itables may not
// have been initialized yet. Pointers (%p) are not supported as that would
// require importing reflect which makes the compiler emit allocating
// runtime.convT2E calls when building the argument slice.
//
// If no output sink has been set, the output is buffered into a ring buffer
// and flushed to the sink passed to the next SetOutputSink call.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		verb     byte
	)

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			// passing a format substring to doWrite triggers a memory
			// allocation so we need to do this one byte at a time.
			writeByte(w, format[i])
			continue
		}

		for width, i = 0, i+1; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, errNoVerb)
			break
		}

		switch verb = format[i]; verb {
		case '%':
			writeByte(w, '%')
			continue
		case 'd', 'o', 'x', 'X', 's', 't', 'c':
		default:
			doWrite(w, errNoVerb)
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		arg := args[argIndex]
		argIndex++

		switch verb {
		case 'o':
			fmtInt(w, arg, 8, width, lowerDigits)
		case 'd':
			fmtInt(w, arg, 10, width, lowerDigits)
		case 'x':
			fmtInt(w, arg, 16, width, lowerDigits)
		case 'X':
			fmtInt(w, arg, 16, width, upperDigits)
		case 's':
			fmtString(w, arg, width)
		case 't':
			fmtBool(w, arg)
		case 'c':
			fmtChar(w, arg, width)
		}
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

// fmtBool prints a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	bVal, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case bVal:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

// fmtString prints a formatted version of string or []byte value v, applying
// the padding specified by width.
func fmtString(w io.Writer, v interface{}, width int) {
	switch castedVal := v.(type) {
	case string:
		fmtRepeat(w, ' ', width-len(castedVal))
		// converting the string to a byte slice triggers a memory allocation
		// so we need to do this one byte at a time.
		for i := 0; i < len(castedVal); i++ {
			writeByte(w, castedVal[i])
		}
	case []byte:
		fmtRepeat(w, ' ', width-len(castedVal))
		doWrite(w, castedVal)
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtChar prints the character held by v. Runes outside the single byte
// range are printed as '?'.
func fmtChar(w io.Writer, v interface{}, width int) {
	var ch byte

	switch castedVal := v.(type) {
	case byte:
		ch = castedVal
	case rune:
		ch = '?'
		if castedVal >= 0 && castedVal <= 0xff {
			ch = byte(castedVal)
		}
	default:
		doWrite(w, errWrongArgType)
		return
	}

	fmtRepeat(w, ' ', width-1)
	writeByte(w, ch)
}

// fmtRepeat writes count bytes with value ch.
func fmtRepeat(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt prints out a formatted version of v in the requested base, applying
// the padding specified by width. All built-in signed and unsigned integer
// types are supported.
func fmtInt(w io.Writer, v interface{}, base, width int, digits string) {
	var (
		uval     uint64
		negative bool
		padCh    byte = '0'
	)

	if base == 10 {
		padCh = ' '
	}

	switch castedVal := v.(type) {
	case uint8:
		uval = uint64(castedVal)
	case uint16:
		uval = uint64(castedVal)
	case uint32:
		uval = uint64(castedVal)
	case uint64:
		uval = castedVal
	case uint:
		uval = uint64(castedVal)
	case uintptr:
		uval = uint64(castedVal)
	case int8:
		uval, negative = abs(int64(castedVal))
	case int16:
		uval, negative = abs(int64(castedVal))
	case int32:
		uval, negative = abs(int64(castedVal))
	case int64:
		uval, negative = abs(castedVal)
	case int:
		uval, negative = abs(int64(castedVal))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if width >= numBufSize {
		width = numBufSize - 1
	}

	// Digits are emitted right to left
	start := numBufSize
	for {
		start--
		numBuf[start] = digits[uval%uint64(base)]
		uval /= uint64(base)
		if uval == 0 {
			break
		}
	}

	// Zero padding leaves room for the sign inside the width.
	padWidth := width
	if negative && padCh == '0' {
		padWidth--
	}

	for numBufSize-start < padWidth {
		start--
		numBuf[start] = padCh
	}

	// The sign replaces the rightmost space padding if one is available;
	// otherwise it is prepended.
	if negative {
		if numBuf[start] == ' ' {
			signAt := start
			for numBuf[signAt+1] == ' ' {
				signAt++
			}
			numBuf[signAt] = '-'
		} else {
			start--
			numBuf[start] = '-'
		}
	}

	doWrite(w, numBuf[start:])
}

func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

func writeByte(w io.Writer, ch byte) {
	singleByte[0] = ch
	doWrite(w, singleByte)
}

// doWrite is a proxy that uses the runtime.noescape hack to hide p from the
// compiler's escape analysis. Without this hack, the compiler cannot properly
// detect that p does not escape (due to the call to the yet unknown outputSink
// io.Writer) and plays it safe by flagging it as escaping. This causes all
// calls to Printf to call runtime.convT2E which triggers a memory allocation
// causing the kernel to crash if a call to Printf is made before the Go
// allocator is initialized.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyPrintBuffer.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
