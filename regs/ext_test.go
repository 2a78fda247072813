package regs

import "testing"

func newExt(t *testing.T) Ext {
	c, _ := newCore(t, 16)
	return Ext{Core: c}
}

func TestSetInterfaceModeRMIIExternal(t *testing.T) {
	e := newExt(t)

	e.SetInterfaceMode(RMII, RefClockExternal)

	if !e.Bit(extPHYMode, phyModeSelectMII) {
		t.Fatal("RMII select bit not set")
	}
	if e.Bit(extPHYMode, phyModeRefClkDir) {
		t.Fatal("ref-clock direction should be external (0)")
	}
}

func TestSetInterfaceModeMIIInternalPin1(t *testing.T) {
	e := newExt(t)

	e.SetInterfaceMode(MII, RefClockInternalPin1)

	if e.Bit(extPHYMode, phyModeSelectMII) {
		t.Fatal("MII mode should clear the RMII select bit")
	}
	if !e.Bit(extPHYMode, phyModeRefClkDir) {
		t.Fatal("ref-clock direction should be internal")
	}
	if !e.Bit(extPHYMode, phyModeRefClkPin) {
		t.Fatal("expected pin 1 selected")
	}
}

func TestClockAndRAMEnable(t *testing.T) {
	e := newExt(t)

	e.EnableClock()
	if e.Field(extClockGate, clockGateEnable, 0x3) != 0x3 {
		t.Fatal("clock gate not fully enabled")
	}

	e.DisableClock()
	if e.Field(extClockGate, clockGateEnable, 0x3) != 0 {
		t.Fatal("clock gate not fully disabled")
	}

	e.PowerUpRAM()
	if !e.Bit(extRAMPower, ramPowerUp) {
		t.Fatal("RAM power-up bit not set")
	}
}
