package emac

import "github.com/tamago-soc/dwmac/regs"

// InterruptStatus is the decoded form of the DMA status register, covering
// every bit this driver parses.
type InterruptStatus struct {
	Transmit          bool
	TxStopped         bool
	TxBufferUnavail   bool
	TxJabberTimeout   bool
	RxOverflow        bool
	TxUnderflow       bool
	Receive           bool
	RxBufferUnavail   bool
	RxStopped         bool
	RxWatchdogTimeout bool
	EarlyTx           bool
	FatalBusError     bool
	EarlyRx           bool
	AbnormalSummary   bool
	NormalSummary     bool
}

// ParseInterruptStatus decodes a raw DMA status register value.
func ParseInterruptStatus(raw uint32) InterruptStatus {
	bit := func(pos int) bool { return raw&(1<<pos) != 0 }

	return InterruptStatus{
		Transmit:          bit(regs.BitTransmit),
		TxStopped:         bit(regs.BitTxStopped),
		TxBufferUnavail:   bit(regs.BitTxBufferUnavail),
		TxJabberTimeout:   bit(regs.BitTxJabberTimeout),
		RxOverflow:        bit(regs.BitRxOverflow),
		TxUnderflow:       bit(regs.BitTxUnderflow),
		Receive:           bit(regs.BitReceive),
		RxBufferUnavail:   bit(regs.BitRxBufferUnavail),
		RxStopped:         bit(regs.BitRxStopped),
		RxWatchdogTimeout: bit(regs.BitRxWatchdogTimeout),
		EarlyTx:           bit(regs.BitEarlyTx),
		FatalBusError:     bit(regs.BitFatalBusError),
		EarlyRx:           bit(regs.BitEarlyRx),
		AbnormalSummary:   bit(regs.BitAbnormalSummary),
		NormalSummary:     bit(regs.BitNormalSummary),
	}
}

// Raw re-encodes the status back into its register representation. For
// every raw register value x, ParseInterruptStatus(x).Raw() == x &
// regs.AllKnownBitsMask: unknown bits
// are dropped by Parse and never resurface.
func (s InterruptStatus) Raw() uint32 {
	var v uint32

	set := func(pos int, on bool) {
		if on {
			v |= 1 << pos
		}
	}

	set(regs.BitTransmit, s.Transmit)
	set(regs.BitTxStopped, s.TxStopped)
	set(regs.BitTxBufferUnavail, s.TxBufferUnavail)
	set(regs.BitTxJabberTimeout, s.TxJabberTimeout)
	set(regs.BitRxOverflow, s.RxOverflow)
	set(regs.BitTxUnderflow, s.TxUnderflow)
	set(regs.BitReceive, s.Receive)
	set(regs.BitRxBufferUnavail, s.RxBufferUnavail)
	set(regs.BitRxStopped, s.RxStopped)
	set(regs.BitRxWatchdogTimeout, s.RxWatchdogTimeout)
	set(regs.BitEarlyTx, s.EarlyTx)
	set(regs.BitFatalBusError, s.FatalBusError)
	set(regs.BitEarlyRx, s.EarlyRx)
	set(regs.BitAbnormalSummary, s.AbnormalSummary)
	set(regs.BitNormalSummary, s.NormalSummary)

	return v
}

// ClearInterrupts writes the given raw bitmask back to the DMA status
// register (W1C): each set bit clears the corresponding event, every other
// bit is a no-op.
func (e *Emac) ClearInterrupts(flags uint32) {
	e.dmaRegs.ClearStatus(flags)
}

// ClearAllInterrupts clears every bit this driver knows about.
func (e *Emac) ClearAllInterrupts() {
	e.dmaRegs.ClearStatus(regs.AllKnownBitsMask)
}

// HandleInterrupt reads the DMA status register, decodes it, clears every
// bit it observed, and folds transient errors into Stats. A FatalBusError
// does not auto-recover: it is reported via the returned status and must be
// handled by the caller with Stop/Start.
//
// The ISR has no failure path: read-and-clear over a W1C register cannot
// fail, so this never returns an error.
func (e *Emac) HandleInterrupt() InterruptStatus {
	raw := e.dmaRegs.RawStatus()
	status := ParseInterruptStatus(raw)

	e.dmaRegs.ClearStatus(raw & regs.AllKnownBitsMask)

	if status.Receive {
		e.stats.RxFrames++
	}
	if status.Transmit {
		e.stats.TxFrames++
	}
	if status.RxOverflow {
		e.stats.RxErrors++
		e.stats.RxOverflow++
	}
	if status.TxUnderflow {
		e.stats.TxErrors++
		e.stats.TxUnderflow++
	}
	if status.FatalBusError {
		e.stats.FatalBusError++
	}

	return status
}
