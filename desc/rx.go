package desc

// RX status word (word 0) bit positions. Frame length occupies a 14-bit
// field; FS/LS mark the first/last descriptor of a
// frame; the four named error bits are OR'd into a
// single error-summary bit callers can check without decoding each kind.
const (
	rxOwn        = ownBit // 31
	rxFrameLen   = 16     // 14-bit field
	rxFrameLenMask = 0x3fff
	rxFirst      = 9 // first descriptor of a frame
	rxLast       = 8 // last descriptor of a frame
	rxErrSummary = 15
	rxCRCError   = 1
	rxOverflow   = 11
	rxLengthError = 7
	rxWatchdog   = 4

	rxErrorMask = 1<<rxCRCError | 1<<rxOverflow | 1<<rxLengthError | 1<<rxWatchdog
)

// RX control word (word 1) bit positions: buffer length and the
// second-buffer-is-next-descriptor (chained mode) flag.
const (
	rxBuf1LenMask = 0x1fff // 13-bit field: caps buffer length to this width
	rxChainedMode = 24
)

// Rx is an enhanced, chained-mode RX descriptor.
type Rx struct {
	Word
}

// InitChained populates an RX descriptor for chained-mode operation: buffer
// address in word 2, buffer length (capped to the 13-bit field) and the
// chained-mode bit in word 1, the next descriptor's address in word 3, and
// finally sets OWN so the DMA may write into the buffer on the next DMA
// start. OWN is set last and is the only write that may race a concurrent
// DMA start.
func (d *Rx) InitChained(bufferAddr uint32, bufferLen int, nextAddr uint32) {
	if bufferLen > rxBuf1LenMask {
		bufferLen = rxBuf1LenMask
	}

	d.set(2, bufferAddr)
	d.set(3, nextAddr)
	d.setField(1, 0, rxBuf1LenMask, uint32(bufferLen))
	d.setField(1, rxChainedMode, 1, 1)
	d.setOwn(true)
}

// IsOwned reports whether the descriptor is still owned by the DMA.
func (d *Rx) IsOwned() bool { return d.Own() }

// IsFirst reports whether this descriptor is the first of a frame. Only
// meaningful when !IsOwned().
func (d *Rx) IsFirst() bool { return (d.get(0)>>rxFirst)&1 == 1 }

// IsLast reports whether this descriptor is the last of a frame. Only
// meaningful when !IsOwned().
func (d *Rx) IsLast() bool { return (d.get(0)>>rxLast)&1 == 1 }

// HasError reports whether the error-summary bit, or any of the per-kind
// error bits, is set. Only meaningful when !IsOwned() && IsLast().
func (d *Rx) HasError() bool {
	s := d.get(0)
	return (s>>rxErrSummary)&1 == 1 || s&rxErrorMask != 0
}

// FrameLength returns the received frame length in bytes, including the
// 4-byte FCS. Only valid when !IsOwned() && IsLast().
func (d *Rx) FrameLength() int {
	return int((d.get(0) >> rxFrameLen) & rxFrameLenMask)
}

// BufferAddr returns the descriptor's fixed data-buffer address.
func (d *Rx) BufferAddr() uint32 { return d.get(2) }

// Recycle clears status (including FS/LS/error bits) while leaving the
// buffer address and chain pointer untouched, then re-asserts OWN so the
// DMA may reuse the slot.
func (d *Rx) Recycle() {
	d.set(0, 1<<rxOwn)
}
