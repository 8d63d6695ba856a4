package kernel

// Error describes a kernel error. All kernel errors must be defined as global
// variables that are pointers to the Error structure as the Go allocator may
// not be available when they are reported.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
