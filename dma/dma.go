// Package dma implements the DMA engine that owns the TX and RX descriptor
// rings and their fixed-size buffer storage.
//
// Grounded on tamago's soc/nxp/enet/dma.go (bufferDescriptorRing:
// submit/reclaim via a cursor, push/pop around a fixed buffer array) and
// its own Rx/Tx methods, generalized from tamago's legacy 8-byte
// single-buffer-array layout to this driver's chained enhanced descriptors
// and explicit Error return values instead of tamago's silent
// print-and-drop behavior (`print("enet: frame not sent\n")`) — every
// transient condition here surfaces to the caller, not a console message.
//
// This package previously held tamago's pool-style DMA memory
// allocator (Region.Reserve/Alloc/Free); that allocator has no home here
// because this driver never allocates on the heap, so this package is
// repurposed — same name, same "DMA concern" home in the tree — to the
// engine this driver actually needs: buffers are caller-owned static
// storage sliced once at construction, never grown (see DESIGN.md).
package dma

import (
	"github.com/tamago-soc/dwmac/desc"
	"github.com/tamago-soc/dwmac/regs"
)

// Error enumerates the transient and caller-bug conditions the data path
// can report.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrNoFrameAvailable = &Error{"dma: no frame available"}
	ErrTxBuffersFull    = &Error{"dma: tx buffers full"}
	ErrBufferTooSmall   = &Error{"dma: buffer too small"}
	ErrFrameTooLarge    = &Error{"dma: frame too large"}
	ErrInvalidLength    = &Error{"dma: invalid length"}
	ErrReceiveError     = &Error{"dma: receive error"}
)

// frameCRCLen is the 4-byte Ethernet FCS stripped from a received frame's
// reported length.
const frameCRCLen = 4

// Engine owns the TX and RX descriptor rings and their backing buffer
// storage. All storage is supplied by the caller at construction time
// (static arrays sliced by the caller) and never grown or reallocated.
type Engine struct {
	regs regs.DMA

	rx       *desc.Ring[*desc.Rx]
	rxBuf    []byte // flat N_RX*bufLen storage, caller-owned
	rxBufLen int

	tx       *desc.Ring[*desc.Tx]
	txBuf    []byte // flat N_TX*bufLen storage, caller-owned
	txBufLen int

	txChecksumMode desc.ChecksumMode
}

// Config supplies the caller-owned static storage and per-instance
// parameters an Engine needs. RxDescs/TxDescs and RxBuf/TxBuf must all be
// slices over static (package-level var, or otherwise non-heap-growing)
// storage sized for the lifetime of the instance.
type Config struct {
	Regs regs.DMA

	RxDescs  []desc.Rx
	RxBuf    []byte // len must equal len(RxDescs) * RxBufLen
	RxBufLen int

	TxDescs  []desc.Tx
	TxBuf    []byte // len must equal len(TxDescs) * TxBufLen
	TxBufLen int

	TxChecksumMode desc.ChecksumMode
}

// New constructs an Engine over caller-owned storage without touching
// hardware; call Init to program the DMA registers and chain the
// descriptors.
func New(cfg Config) *Engine {
	rxEntries := make([]*desc.Rx, len(cfg.RxDescs))
	for i := range cfg.RxDescs {
		rxEntries[i] = &cfg.RxDescs[i]
	}

	txEntries := make([]*desc.Tx, len(cfg.TxDescs))
	for i := range cfg.TxDescs {
		txEntries[i] = &cfg.TxDescs[i]
	}

	return &Engine{
		regs:           cfg.Regs,
		rx:             desc.NewRing(rxEntries),
		rxBuf:          cfg.RxBuf,
		rxBufLen:       cfg.RxBufLen,
		tx:             desc.NewRing(txEntries),
		txBuf:          cfg.TxBuf,
		txBufLen:       cfg.TxBufLen,
		txChecksumMode: cfg.TxChecksumMode,
	}
}

func (e *Engine) rxBufferAt(i int) []byte {
	off := i * e.rxBufLen
	return e.rxBuf[off : off+e.rxBufLen]
}

func (e *Engine) txBufferAt(i int) []byte {
	off := i * e.txBufLen
	return e.txBuf[off : off+e.txBufLen]
}

// Init programs the DMA bus mode, chains every descriptor (descriptors
// before base-address registers: the hardware latches the list head and
// begins traversal the moment the address register is written), and
// resets both cursors.
func (e *Engine) Init(burst regs.BurstLength) error {
	if err := e.regs.SetBusMode(burst); err != nil {
		return err
	}

	nRx := e.rx.Len()
	for i := 0; i < nRx; i++ {
		d := e.rx.Entries()[i]
		next := e.rx.Entries()[(i+1)%nRx]
		d.InitChained(bufAddr(e.rxBufferAt(i)), e.rxBufLen, next.Addr())
	}

	nTx := e.tx.Len()
	for i := 0; i < nTx; i++ {
		d := e.tx.Entries()[i]
		next := e.tx.Entries()[(i+1)%nTx]
		d.InitChained(bufAddr(e.txBufferAt(i)), next.Addr())
	}

	e.regs.SetRxListAddr(e.rx.Entries()[0].Addr())
	e.regs.SetTxListAddr(e.tx.Entries()[0].Addr())

	e.rx.Reset()
	e.tx.Reset()

	return nil
}

// Transmit copies frame into the current TX descriptor's buffer and
// submits it to the DMA. Only single-descriptor frames
// are supported in this revision: frame must fit within the configured
// buffer size.
func (e *Engine) Transmit(frame []byte) error {
	if len(frame) == 0 {
		return ErrInvalidLength
	}
	if len(frame) > e.txBufLen {
		return ErrFrameTooLarge
	}

	cur := e.tx.Current()
	if cur.IsOwned() {
		return ErrTxBuffersFull
	}

	idx := e.txIndex()
	buf := e.txBufferAt(idx)
	copy(buf, frame)

	cur.Prepare(len(frame), true, true, e.txChecksumMode)
	cur.Submit()

	e.tx.Advance()
	e.regs.PokeTxPollDemand()

	return nil
}

// Receive copies the oldest waiting frame into out, stripping the 4-byte
// FCS, and recycles the descriptor. If out is too small
// the descriptor is left un-recycled so the caller may retry with a
// larger buffer.
func (e *Engine) Receive(out []byte) (int, error) {
	cur := e.rx.Current()

	if cur.IsOwned() {
		return 0, ErrNoFrameAvailable
	}

	if !cur.IsLast() {
		// Multi-descriptor frames are not supported in this revision
		// (BUF >= MTU+header guarantees single-descriptor frames); a
		// non-terminal fragment here means malformed input.
		cur.Recycle()
		e.rx.Advance()
		return 0, ErrReceiveError
	}

	if cur.HasError() {
		cur.Recycle()
		e.rx.Advance()
		return 0, ErrReceiveError
	}

	length := cur.FrameLength() - frameCRCLen
	if length < 0 {
		cur.Recycle()
		e.rx.Advance()
		return 0, ErrReceiveError
	}

	if len(out) < length {
		return 0, ErrBufferTooSmall
	}

	idx := e.rxIndex()
	copy(out[:length], e.rxBufferAt(idx)[:length])

	cur.Recycle()
	e.rx.Advance()
	e.regs.PokeRxPollDemand()

	return length, nil
}

// TxDrained reports whether every TX descriptor in the ring is CPU-owned,
// i.e. no frame is still in flight (used by Stop's bounded drain wait).
func (e *Engine) TxDrained() bool {
	drained := true
	e.tx.Iter(func(_ int, d *desc.Tx) {
		if d.IsOwned() {
			drained = false
		}
	})
	return drained
}

// RxBufferSize returns the configured per-descriptor RX buffer size (BUF),
// for callers sizing a scratch receive buffer (e.g. Emac.Run).
func (e *Engine) RxBufferSize() int { return e.rxBufLen }

// RxAvailable reports whether the descriptor at the cursor is CPU-owned
// (a frame, or an error, is waiting).
func (e *Engine) RxAvailable() bool { return !e.rx.Current().IsOwned() }

// TxDescriptorsAvailable reports whether the descriptor at the cursor is
// CPU-owned (a transmit slot is free).
func (e *Engine) TxDescriptorsAvailable() bool { return !e.tx.Current().IsOwned() }

// PeekRxLength returns the frame length of the descriptor at the cursor
// without consuming it. Same validity contract as FrameLength: only
// meaningful when RxAvailable() and the descriptor is the last of its
// frame.
func (e *Engine) PeekRxLength() int {
	return e.rx.Current().FrameLength() - frameCRCLen
}

// RxFramesWaiting scans from the cursor for up to N_RX positions, counting
// CPU-owned descriptors that are the last of a frame.
func (e *Engine) RxFramesWaiting() int {
	n := e.rx.Len()
	count := 0

	for k := 0; k < n; k++ {
		d := e.rx.AtOffset(k)
		if !d.IsOwned() && d.IsLast() {
			count++
		}
	}

	return count
}

// txIndex and rxIndex recover the flat buffer index matching the ring's
// current cursor position. The ring itself does not expose its cursor
//, so Engine compares
// descriptor identity against its own entries to recover it.
func (e *Engine) txIndex() int {
	cur := e.tx.Current()
	for i, d := range e.tx.Entries() {
		if d == cur {
			return i
		}
	}
	return 0
}

func (e *Engine) rxIndex() int {
	cur := e.rx.Current()
	for i, d := range e.rx.Entries() {
		if d == cur {
			return i
		}
	}
	return 0
}

func bufAddr(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return addrOf(&b[0])
}
