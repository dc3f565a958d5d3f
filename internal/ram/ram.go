// Package ram provides a flat, fixed-size block of memory; the MMU uses
// it for HRAM.
package ram

import "fmt"

// RAM is a single addressable block of memory.
type RAM struct {
	data []byte
}

// New returns a zero-filled RAM block of the given size.
func New(size int) *RAM {
	return &RAM{data: make([]byte, size)}
}

// Read returns the byte at address, relative to the start of the block.
func (r *RAM) Read(address uint16) uint8 {
	if int(address) >= len(r.data) {
		panic(fmt.Sprintf("ram: address out of bounds: %#04x (size %d)", address, len(r.data)))
	}
	return r.data[address]
}

// Write stores value at address, relative to the start of the block.
func (r *RAM) Write(address uint16, value uint8) {
	if int(address) >= len(r.data) {
		panic(fmt.Sprintf("ram: address out of bounds: %#04x (size %d)", address, len(r.data)))
	}
	r.data[address] = value
}

// Len returns the size of the block in bytes.
func (r *RAM) Len() int {
	return len(r.data)
}

// Raw exposes the underlying slice, for bulk copy such as save-state
// serialization.
func (r *RAM) Raw() []byte {
	return r.data
}
