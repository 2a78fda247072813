// Package regs provides typed, volatile accessors over the three fixed
// memory-mapped register blocks of the MAC peripheral: DMA control, MAC
// control, and the SoC-extension block for PHY-interface clocking and RAM
// power.
//
// Field access is built on Core, a base-address-only volatile-access primitive
// grounded on tamago's internal/reg package: every read and write goes
// through atomic.Load/StoreUint32 over an unsafe.Pointer so the compiler can
// neither fuse nor reorder it away, and runtime.Gosched-based busy-waits give
// bounded polling without blocking the single-core scheduler.
package regs

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"
)

// Core is a volatile 32-bit register accessor rooted at Base. Each register
// block (DMA, MAC, Ext) embeds its own Core value so the three blocks are
// never serialized behind one process-wide lock, unlike tamago's
// internal/reg package functions which share a single mutex across every
// register in the system.
type Core struct {
	Base uintptr
}

func (c Core) addr(offset uintptr) *uint32 {
	return (*uint32)(unsafe.Pointer(c.Base + offset))
}

// Read32 performs a volatile 32-bit read at offset.
func (c Core) Read32(offset uintptr) uint32 {
	p := c.addr(offset)
	v := atomic.LoadUint32(p)
	runtime.KeepAlive(p)
	return v
}

// Write32 performs a volatile 32-bit write at offset.
func (c Core) Write32(offset uintptr, val uint32) {
	p := c.addr(offset)
	atomic.StoreUint32(p, val)
	runtime.KeepAlive(p)
}

// Field returns the value of the bitfield [pos, pos+width) at offset.
func (c Core) Field(offset uintptr, pos int, mask uint32) uint32 {
	return (c.Read32(offset) >> pos) & mask
}

// Bit reports whether bit pos at offset is set.
func (c Core) Bit(offset uintptr, pos int) bool {
	return c.Field(offset, pos, 1) != 0
}

// SetField replaces the bitfield [pos, pos+width) at offset with val,
// leaving every other bit untouched. This is the single read-modify-write
// primitive every typed accessor in this package funnels through, so no RMW
// ever spans more than one Core call.
func (c Core) SetField(offset uintptr, pos int, mask uint32, val uint32) {
	p := c.addr(offset)
	r := atomic.LoadUint32(p)
	r = (r &^ (mask << pos)) | ((val & mask) << pos)
	atomic.StoreUint32(p, r)
	runtime.KeepAlive(p)
}

// SetBit sets a single bit at offset.
func (c Core) SetBit(offset uintptr, pos int) {
	c.SetField(offset, pos, 1, 1)
}

// ClearBit clears a single bit at offset.
func (c Core) ClearBit(offset uintptr, pos int) {
	c.SetField(offset, pos, 1, 0)
}

// SetBitTo sets or clears a single bit at offset depending on val.
func (c Core) SetBitTo(offset uintptr, pos int, val bool) {
	if val {
		c.SetBit(offset, pos)
	} else {
		c.ClearBit(offset, pos)
	}
}

// WriteOnes writes val into offset unconditionally (used for W1C status
// registers, where any bit set in val clears the corresponding event and
// every other bit is a no-op).
func (c Core) WriteOnes(offset uintptr, val uint32) {
	c.Write32(offset, val)
}

// WaitField busy-polls, without bound, for the bitfield at offset to equal
// val. Never used directly by this driver outside of tests: every hardware
// wait in the core is bounded (see WaitFieldTimeout) per spec's cancellation
// and timeout rules.
func (c Core) WaitField(offset uintptr, pos int, mask uint32, val uint32) {
	for c.Field(offset, pos, mask) != val {
		runtime.Gosched()
	}
}

// WaitFieldTimeout busy-polls for the bitfield at offset to equal val,
// bounded by timeout. It reports whether the condition was observed before
// the deadline.
func (c Core) WaitFieldTimeout(timeout time.Duration, offset uintptr, pos int, mask uint32, val uint32) bool {
	deadline := time.Now().Add(timeout)

	for c.Field(offset, pos, mask) != val {
		runtime.Gosched()

		if time.Now().After(deadline) {
			return false
		}
	}

	return true
}
