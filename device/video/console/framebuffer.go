package console

import "unsafe"

// Framebuffer provides access to the memory-mapped text mode video region.
// Each entry holds one Cell in its hardware layout. Framebuffer is the only
// type in the driver that touches video memory; the rest of the driver works
// on ordinary arrays.
type Framebuffer struct {
	words []uint16
}

// MapFramebuffer overlays a Framebuffer with the requested number of cells on
// top of the video memory located at physAddr. The region must be identity
// mapped.
func MapFramebuffer(physAddr uintptr, cells uint32) *Framebuffer {
	return &Framebuffer{
		words: unsafe.Slice((*uint16)(unsafe.Pointer(physAddr)), cells),
	}
}

// NewFramebuffer creates a Framebuffer backed by the supplied slice. It is
// used when the video memory is emulated.
func NewFramebuffer(words []uint16) *Framebuffer {
	return &Framebuffer{words: words}
}

// Len returns the number of cells in the framebuffer.
func (fb *Framebuffer) Len() uint32 {
	return uint32(len(fb.words))
}

// Store writes c at the specified cell offset. Offsets outside the region
// are ignored.
func (fb *Framebuffer) Store(offset uint32, c Cell) {
	if offset >= uint32(len(fb.words)) {
		return
	}

	fb.words[offset] = c.word()
}

// Load returns the cell at the specified offset. Offsets outside the region
// yield an empty cell.
func (fb *Framebuffer) Load(offset uint32) Cell {
	if offset >= uint32(len(fb.words)) {
		return Cell{}
	}

	return cellFromWord(fb.words[offset])
}
