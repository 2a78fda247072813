package regs

import "time"

// MAC block offsets and field positions.
const (
	macConfiguration = 0x0000
	macFrameFilter   = 0x0004
	macMIIAddr       = 0x0010
	macMIIData       = 0x0014
	macFlowControl   = 0x0018
	macVLANTag       = 0x001c
	macAddrHi        = 0x0040 // +8*n for n in 0..4
	macAddrLo        = 0x0044
	macHashHi        = 0x0008
	macHashLo        = 0x000c

	// Configuration fields.
	confRE  = 2  // receiver enable
	confTE  = 3  // transmitter enable
	confDCRS = 9
	confACS = 7  // auto-CRC-strip
	confDM  = 11 // full duplex
	confWD  = 23 // watchdog disable
	confJD  = 22 // jabber disable
	confFES = 14 // speed (fast-Ethernet select)

	// Frame-filter fields.
	filterPR  = 0 // promiscuous
	filterHMC = 2 // hash-multicast
	filterPM  = 4 // pass-all-multicast
	filterDBF = 5 // broadcast disable
	filterSAF = 9
	filterHPF = 10

	// MII address fields.
	miiBusy = 0
	miiWrite = 1
	miiCR    = 2 // clock-range select, 4 bits
	miiCRMask = 0xf
	miiRegPos = 6
	miiRegMask = 0x1f
	miiPhyPos = 11
	miiPhyMask = 0x1f

	// Flow-control fields.
	fcFCBBPA  = 0 // flow-control busy / back-pressure activate
	fcTFE     = 1 // TX flow-control enable
	fcRFE     = 2 // RX flow-control enable
	fcUPFD    = 3 // unicast pause-frame detect
	fcPLTPos  = 4
	fcPLTMask = 0x3
	fcPauseTimePos = 16

	// MAC address slot fields (HI word).
	addrAE = 31 // address enable
	addrMBCPos = 24
	addrMBCMask = 0x3f
)

// MDCClockCode selects the MDC clock divider. Values follow the DWMAC
// clause-22 clock-range encoding: the divider is chosen from the CPU clock
// so that MDC stays at or below 2.5 MHz.
type MDCClockCode uint32

const (
	MDCDiv42  MDCClockCode = 0
	MDCDiv62  MDCClockCode = 1
	MDCDiv16  MDCClockCode = 2
	MDCDiv26  MDCClockCode = 3
	MDCDiv102 MDCClockCode = 4
	MDCDiv124 MDCClockCode = 5
)

// SelectMDCClock picks the slowest-sufficient divider code so MDC <= 2.5MHz
// for the given CPU clock, grounded on tamago's
// `hw.Clock()/(2*2500000)` arithmetic in soc/nxp/enet/enet.go, generalized
// to the clause-22 divider table.
func SelectMDCClock(cpuClockHz uint32) (MDCClockCode, error) {
	dividers := []struct {
		code MDCClockCode
		div  uint32
	}{
		{MDCDiv16, 16},
		{MDCDiv26, 26},
		{MDCDiv42, 42},
		{MDCDiv62, 62},
		{MDCDiv102, 102},
		{MDCDiv124, 124},
	}

	const maxMDCHz = 2_500_000

	for _, d := range dividers {
		if cpuClockHz <= maxMDCHz*d.div {
			return d.code, nil
		}
	}

	return 0, &ConfigError{Kind: InvalidClockDivider, Value: cpuClockHz}
}

// MAC is the typed facade over the MAC control register block.
type MAC struct {
	Core
}

// SetSpeed sets the 10/100 Mbps select bit.
func (m MAC) SetSpeed(fast bool) { m.SetBitTo(macConfiguration, confFES, fast) }

// SetFullDuplex sets or clears full-duplex mode.
func (m MAC) SetFullDuplex(full bool) { m.SetBitTo(macConfiguration, confDM, full) }

// SetAutoCRCStrip enables automatic CRC stripping on receive.
func (m MAC) SetAutoCRCStrip(on bool) { m.SetBitTo(macConfiguration, confACS, on) }

// SetJabberWatchdogDisable disables the jabber and watchdog timers (used for
// non-standard frame sizes up to the configured buffer length).
func (m MAC) SetJabberWatchdogDisable(on bool) {
	m.SetBitTo(macConfiguration, confJD, on)
	m.SetBitTo(macConfiguration, confWD, on)
}

// SetCarrierSenseDisable disables carrier-sense-based deferral (full duplex
// links do not need it).
func (m MAC) SetCarrierSenseDisable(on bool) { m.SetBitTo(macConfiguration, confDCRS, on) }

// SetTxEnable enables or disables the MAC transmitter.
func (m MAC) SetTxEnable(on bool) { m.SetBitTo(macConfiguration, confTE, on) }

// SetRxEnable enables or disables the MAC receiver.
func (m MAC) SetRxEnable(on bool) { m.SetBitTo(macConfiguration, confRE, on) }

// SetPromiscuous toggles the promiscuous frame-filter bit.
func (m MAC) SetPromiscuous(on bool) { m.SetBitTo(macFrameFilter, filterPR, on) }

// SetPassAllMulticast toggles the pass-all-multicast frame-filter bit.
func (m MAC) SetPassAllMulticast(on bool) { m.SetBitTo(macFrameFilter, filterPM, on) }

// SetHashMulticast toggles hash-table-based multicast filtering.
func (m MAC) SetHashMulticast(on bool) { m.SetBitTo(macFrameFilter, filterHMC, on) }

// SetBroadcastEnabled toggles broadcast reception (the register bit is
// "disable", so this method inverts it for caller convenience).
func (m MAC) SetBroadcastEnabled(on bool) { m.SetBitTo(macFrameFilter, filterDBF, !on) }

// SetHashPerfectFilter toggles HPF mode.
func (m MAC) SetHashPerfectFilter(on bool) { m.SetBitTo(macFrameFilter, filterHPF, on) }

// SetAddress programs the primary station address registers.
func (m MAC) SetAddress(mac [6]byte) {
	lo := uint32(mac[0]) | uint32(mac[1])<<8 | uint32(mac[2])<<16 | uint32(mac[3])<<24
	hi := uint32(mac[4]) | uint32(mac[5])<<8

	m.Write32(macAddrLo, lo)
	m.Write32(macAddrHi, hi)
}

// SetFilterSlot programs one of the four additional perfect-match filter
// slots (1..4; slot 0 is the primary address set by SetAddress).
func (m MAC) SetFilterSlot(slot int, mac [6]byte, byteMask uint8, enabled bool) error {
	if slot < 1 || slot > 4 {
		return &ConfigError{Kind: InvalidFilterSlot, Value: uint32(slot)}
	}

	off := uintptr(8 * slot)
	lo := uint32(mac[0]) | uint32(mac[1])<<8 | uint32(mac[2])<<16 | uint32(mac[3])<<24
	hi := uint32(mac[4]) | uint32(mac[5])<<8

	m.Write32(macAddrLo+off, lo)
	hi |= uint32(byteMask&0x3f) << addrMBCPos
	if enabled {
		hi |= 1 << addrAE
	}
	m.Write32(macAddrHi+off, hi)

	return nil
}

// ClearFilterSlot disables one of the four additional filter slots.
func (m MAC) ClearFilterSlot(slot int) error {
	if slot < 1 || slot > 4 {
		return &ConfigError{Kind: InvalidFilterSlot, Value: uint32(slot)}
	}

	m.ClearBit(macAddrHi+uintptr(8*slot), addrAE)
	return nil
}

// SetHash writes the 64-bit multicast hash table shadow to the hardware
// high/low hash registers.
func (m MAC) SetHash(hash uint64) {
	m.Write32(macHashLo, uint32(hash))
	m.Write32(macHashHi, uint32(hash>>32))
}

// SetVLANTag programs the single VLAN tag filter register and enables it.
func (m MAC) SetVLANTag(tag uint16) { m.Write32(macVLANTag, uint32(tag)) }

// DisableVLANFilter clears the VLAN tag register (no enable bit to clear on
// this SoC family: a zero tag never matches a valid 802.1Q tag).
func (m MAC) DisableVLANFilter() { m.Write32(macVLANTag, 0) }

// SetFlowControl programs PAUSE time, the coded low-water-mark and the RX
// flow-control enable bit (RFE). It writes the whole register, so the TX
// flow-control enable bit reads back clear afterwards.
func (m MAC) SetFlowControl(pauseTime uint16, lowThreshold uint8, rxFlowEnable bool) {
	v := uint32(pauseTime) << fcPauseTimePos
	v |= uint32(lowThreshold&fcPLTMask) << fcPLTPos
	if rxFlowEnable {
		v |= 1 << fcRFE
	}
	m.Write32(macFlowControl, v)
}

// SetTxFlowControlEnable gates PAUSE transmission; the caller gates this on
// the peer's advertised ability to honor PAUSE.
func (m MAC) SetTxFlowControlEnable(on bool) { m.SetBitTo(macFlowControl, fcTFE, on) }

// FlowControlBusy reports whether the MAC is currently asserting PAUSE
// (back-pressure in half duplex, or a PAUSE frame still in flight in full
// duplex).
func (m MAC) FlowControlBusy() bool { return m.Bit(macFlowControl, fcFCBBPA) }

// MIIBusy reports whether the management-bus transaction is still pending.
func (m MAC) MIIBusy() bool { return m.Bit(macMIIAddr, miiBusy) }

// WaitMIIIdle busy-polls, bounded by timeout, for the MII BUSY bit to
// clear.
func (m MAC) WaitMIIIdle(timeout time.Duration) bool {
	return m.WaitFieldTimeout(timeout, macMIIAddr, miiBusy, 1, 0)
}

// SetMIIData writes the 16-bit data register ahead of a write transaction.
func (m MAC) SetMIIData(val uint16) { m.Write32(macMIIData, uint32(val)) }

// MIIData reads the 16-bit data register after a read transaction
// completes.
func (m MAC) MIIData() uint16 { return uint16(m.Read32(macMIIData)) }

// StartMIITransaction writes the MII address register to begin a clause-22
// transaction against phy/reg, setting BUSY.
func (m MAC) StartMIITransaction(phy, reg uint8, clock MDCClockCode, write bool) {
	var v uint32
	v |= (uint32(phy) & miiPhyMask) << miiPhyPos
	v |= (uint32(reg) & miiRegMask) << miiRegPos
	v |= (uint32(clock) & miiCRMask) << miiCR
	if write {
		v |= 1 << miiWrite
	}
	v |= 1 << miiBusy

	m.Write32(macMIIAddr, v)
}
