package dma

import "unsafe"

// addrOf returns the address of a byte within caller-owned static storage,
// suitable for programming into a descriptor's buffer-address field.
func addrOf(b *byte) uint32 {
	return uint32(uintptr(unsafe.Pointer(b)))
}
