package kernel

import "testing"

func TestKernelError(t *testing.T) {
	var err error = &Error{
		Module:  "vga_text_console",
		Message: "coordinates outside the text grid",
	}

	if got, exp := err.Error(), "coordinates outside the text grid"; got != exp {
		t.Fatalf("expected err.Error() to return %q; got %q", exp, got)
	}
}
