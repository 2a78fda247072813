package regs

// DMA block offsets and field positions.
// Bit positions follow the Synopsys DWMAC enhanced-descriptor register
// layout this SoC family exposes.
const (
	dmaBusMode       = 0x1000
	dmaTxPollDemand  = 0x1004
	dmaRxPollDemand  = 0x1008
	dmaRxListAddr    = 0x100c
	dmaTxListAddr    = 0x1010
	dmaStatus        = 0x1014
	dmaOperationMode = 0x1018
	dmaIntEnable     = 0x101c

	// Bus mode fields.
	busModeSWR     = 0  // software reset
	busModePBLPos  = 8  // programmable burst length, 6 bits
	busModePBLMask = 0x3f
	busModeATDS    = 7  // alternate (enhanced) descriptor size select
	busModeAAL     = 25 // address-aligned beats
	busModeMB      = 26 // mixed burst
	busModeEightXPBL = 24

	// Operation-mode fields.
	opModeST  = 13 // start/stop transmission
	opModeSR  = 1  // start/stop receive
	opModeTSF = 21 // TX store-and-forward
	opModeRSF = 25 // RX store-and-forward
	opModeFTF = 20 // flush TX FIFO

)

// DMA status/interrupt-enable bit positions, shared register layout.
// Exported so emac can parse InterruptStatus without duplicating the bit
// map.
const (
	BitTransmit          = 0
	BitTxStopped         = 1
	BitTxBufferUnavail   = 2
	BitTxJabberTimeout   = 3
	BitRxOverflow        = 4
	BitTxUnderflow       = 5
	BitReceive           = 6
	BitRxBufferUnavail   = 7
	BitRxStopped         = 8
	BitRxWatchdogTimeout = 9
	BitEarlyTx           = 10
	BitFatalBusError     = 13
	BitEarlyRx           = 14
	BitAbnormalSummary   = 15
	BitNormalSummary     = 16

	// AllKnownBitsMask covers every bit this driver parses; a parsed status
	// round-trips through this mask.
	AllKnownBitsMask = 1<<BitTransmit | 1<<BitTxStopped | 1<<BitTxBufferUnavail |
		1<<BitTxJabberTimeout | 1<<BitRxOverflow | 1<<BitTxUnderflow |
		1<<BitReceive | 1<<BitRxBufferUnavail | 1<<BitRxStopped |
		1<<BitRxWatchdogTimeout | 1<<BitEarlyTx | 1<<BitFatalBusError |
		1<<BitEarlyRx | 1<<BitAbnormalSummary | 1<<BitNormalSummary
)

// BurstLength is one of the six DMA programmable burst lengths this
// register field accepts.
type BurstLength uint32

const (
	Burst1  BurstLength = 1
	Burst2  BurstLength = 2
	Burst4  BurstLength = 4
	Burst8  BurstLength = 8
	Burst16 BurstLength = 16
	Burst32 BurstLength = 32
)

func (b BurstLength) valid() bool {
	switch b {
	case Burst1, Burst2, Burst4, Burst8, Burst16, Burst32:
		return true
	}
	return false
}

// DMA is the typed facade over the DMA control register block.
type DMA struct {
	Core
}

// SetBusMode programs the programmable burst length and selects the
// enhanced (alternate-size) descriptor format with mixed-burst and
// address-aligned beats enabled.
func (d DMA) SetBusMode(burst BurstLength) error {
	if !burst.valid() {
		return &ConfigError{Kind: InvalidBurstLength, Value: uint32(burst)}
	}

	d.SetField(dmaBusMode, busModePBLPos, busModePBLMask, uint32(burst))
	d.SetBit(dmaBusMode, busModeAAL)
	d.SetBit(dmaBusMode, busModeMB)
	d.ClearBit(dmaBusMode, busModeATDS) // alternate-descriptor-size=0 (enhanced, this variant)
	d.ClearBit(dmaBusMode, busModeEightXPBL)

	return nil
}

// SoftReset sets the DMA software-reset bit. The bit self-clears once the
// reset completes; callers poll with SoftResetInProgress.
func (d DMA) SoftReset() {
	d.SetBit(dmaBusMode, busModeSWR)
}

// SoftResetInProgress reports whether the software-reset bit is still set.
func (d DMA) SoftResetInProgress() bool {
	return d.Bit(dmaBusMode, busModeSWR)
}

// SetRxListAddr and SetTxListAddr write the physical base address of the RX
// or TX descriptor ring's first
// entry. Must be called after the descriptors themselves are initialized.
func (d DMA) SetRxListAddr(addr uint32) { d.Write32(dmaRxListAddr, addr) }
func (d DMA) SetTxListAddr(addr uint32) { d.Write32(dmaTxListAddr, addr) }

// PokeTxPollDemand resumes a stalled TX DMA engine.
func (d DMA) PokeTxPollDemand() { d.Write32(dmaTxPollDemand, 1) }

// PokeRxPollDemand resumes a stalled RX DMA engine.
func (d DMA) PokeRxPollDemand() { d.Write32(dmaRxPollDemand, 1) }

// SetTxStart enables or disables the TX DMA start bit.
func (d DMA) SetTxStart(on bool) { d.SetBitTo(dmaOperationMode, opModeST, on) }

// SetRxStart enables or disables the RX DMA start bit.
func (d DMA) SetRxStart(on bool) { d.SetBitTo(dmaOperationMode, opModeSR, on) }

// SetStoreAndForward enables cut-through-free store-and-forward mode on
// both TX and RX FIFOs.
func (d DMA) SetStoreAndForward(on bool) {
	d.SetBitTo(dmaOperationMode, opModeTSF, on)
	d.SetBitTo(dmaOperationMode, opModeRSF, on)
}

// FlushTxFIFO requests a TX FIFO flush (used on Stop).
func (d DMA) FlushTxFIFO() { d.SetBit(dmaOperationMode, opModeFTF) }

// TxFIFOFlushInProgress reports whether the flush-in-progress bit is still
// set.
func (d DMA) TxFIFOFlushInProgress() bool { return d.Bit(dmaOperationMode, opModeFTF) }

// RawStatus returns the raw DMA status register value.
func (d DMA) RawStatus() uint32 { return d.Read32(dmaStatus) }

// ClearStatus writes flags back to the status register (W1C semantics).
func (d DMA) ClearStatus(flags uint32) { d.WriteOnes(dmaStatus, flags) }

// EnableInterrupts mirrors enable bits onto the interrupt-enable register
// (same bit layout as status).
func (d DMA) EnableInterrupts(flags uint32) { d.Write32(dmaIntEnable, flags) }
