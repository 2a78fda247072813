package regs

// Ext is the typed facade over the SoC-extension register block: MAC
// peripheral bus clock gating, RAM power-up sequencing, and the PHY
// interface mux. Bit positions are fixed to this SoC family; exact
// offsets are supplied by board integration code through Core.Base,
// mirroring tamago's CCGR/CG clock-gate fields injected into ENET by
// board code rather than hard-coded in the driver.
const (
	extClockGate  = 0x0000
	extRAMPower   = 0x0004
	extPHYMode    = 0x0008

	clockGateEnable = 0 // 2-bit field, both bits set = fully enabled
	ramPowerUp      = 0

	phyModeSelectMII  = 0 // 0 = MII, 1 = RMII
	phyModeRefClkDir  = 1 // 0 = external input, 1 = internal output
	phyModeRefClkPin  = 2 // which of the two permitted output pins, when RefClkDir=1
)

// PHYInterface selects the MAC-to-PHY electrical interface.
type PHYInterface int

const (
	RMII PHYInterface = iota
	MII
)

// RefClockMode selects the RMII reference-clock source.
type RefClockMode int

const (
	// RefClockExternal expects the reference clock on the dedicated input
	// pin, driven by an external oscillator or the PHY itself.
	RefClockExternal RefClockMode = iota
	// RefClockInternalPin0 outputs the SoC's internal 50MHz reference on
	// the first permitted output pin.
	RefClockInternalPin0
	// RefClockInternalPin1 outputs the SoC's internal 50MHz reference on
	// the second permitted output pin.
	RefClockInternalPin1
)

// Ext is the typed facade over the SoC-extension register block.
type Ext struct {
	Core
}

// EnableClock gates on the MAC peripheral bus clock.
func (e Ext) EnableClock() { e.SetField(extClockGate, clockGateEnable, 0x3, 0x3) }

// DisableClock gates off the MAC peripheral bus clock (used on Init
// failure).
func (e Ext) DisableClock() { e.SetField(extClockGate, clockGateEnable, 0x3, 0) }

// PowerUpRAM sequences the peripheral's internal RAM power-up.
func (e Ext) PowerUpRAM() { e.SetBit(extRAMPower, ramPowerUp) }

// SetInterfaceMode selects MII vs RMII and, for RMII, the reference-clock
// source.
func (e Ext) SetInterfaceMode(iface PHYInterface, clk RefClockMode) {
	e.SetBitTo(extPHYMode, phyModeSelectMII, iface == RMII)

	switch clk {
	case RefClockExternal:
		e.ClearBit(extPHYMode, phyModeRefClkDir)
	case RefClockInternalPin0:
		e.SetBit(extPHYMode, phyModeRefClkDir)
		e.ClearBit(extPHYMode, phyModeRefClkPin)
	case RefClockInternalPin1:
		e.SetBit(extPHYMode, phyModeRefClkDir)
		e.SetBit(extPHYMode, phyModeRefClkPin)
	}
}
