package phy_test

import (
	"testing"
	"time"

	"github.com/tamago-soc/dwmac/mdio"
	"github.com/tamago-soc/dwmac/mdio/mdiotest"
	"github.com/tamago-soc/dwmac/phy"
)

func newDriver(f *mdiotest.Fake) phy.Driver[*mdiotest.Fake] {
	return phy.Driver[*mdiotest.Fake]{Bus: f, Addr: 7}
}

// resetClearingBus wraps a Fake so that BMCR's RESET bit reads back clear
// right after it is written, as a real PHY's does once its reset completes.
type resetClearingBus struct{ *mdiotest.Fake }

func (b resetClearingBus) Write(addr, reg uint8, val uint16) error {
	if reg == phy.RegBMCR {
		val &^= 1 << 15
	}
	return b.Fake.Write(addr, reg, val)
}

func TestSoftResetClearsOnFirstPoll(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(7, phy.RegBMCR, 0)
	d := phy.Driver[resetClearingBus]{Bus: resetClearingBus{f}, Addr: 7}

	if err := d.SoftReset(10 * time.Millisecond); err != nil {
		t.Fatalf("SoftReset: %v", err)
	}
	if got := f.Get(7, phy.RegBMCR); got&(1<<15) != 0 {
		t.Fatalf("BMCR = %#x, RESET bit should have been observed clear", got)
	}
}

func TestSoftResetTimesOutWhenResetNeverClears(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(7, phy.RegBMCR, 1<<15)
	d := newDriver(f)

	// The fake never clears RESET on its own, so every poll keeps reading it set.
	err := d.SoftReset(2 * time.Millisecond)
	if err != mdio.ErrTimeout {
		t.Fatalf("SoftReset = %v, want mdio.ErrTimeout", err)
	}
}

func TestEnableAutoNegotiationSetsBits(t *testing.T) {
	f := mdiotest.NewFake(nil)
	d := newDriver(f)

	if err := d.EnableAutoNegotiation(); err != nil {
		t.Fatalf("EnableAutoNegotiation: %v", err)
	}

	got := f.Get(7, phy.RegBMCR)
	if got&(1<<12) == 0 || got&(1<<9) == 0 {
		t.Fatalf("BMCR = %#x, want ANE and RESTART_AN both set", got)
	}
}

func TestIsLinkUp(t *testing.T) {
	f := mdiotest.NewFake(map[uint16]uint16{})
	d := newDriver(f)

	f.Set(7, phy.RegBMSR, 1<<2)
	up, err := d.IsLinkUp()
	if err != nil {
		t.Fatalf("IsLinkUp: %v", err)
	}
	if !up {
		t.Fatal("expected link up")
	}

	f.Set(7, phy.RegBMSR, 0)
	up, err = d.IsLinkUp()
	if err != nil {
		t.Fatalf("IsLinkUp: %v", err)
	}
	if up {
		t.Fatal("expected link down")
	}
}

func TestForceLink(t *testing.T) {
	f := mdiotest.NewFake(nil)
	d := newDriver(f)

	if err := d.ForceLink(phy.Speed100, phy.Full); err != nil {
		t.Fatalf("ForceLink: %v", err)
	}

	got := f.Get(7, phy.RegBMCR)
	if got&(1<<12) != 0 {
		t.Fatal("ForceLink must clear ANE")
	}
	if got&(1<<13) == 0 {
		t.Fatal("ForceLink(Speed100) must set the SPEED bit")
	}
	if got&(1<<8) == 0 {
		t.Fatal("ForceLink(Full) must set the DUPLEX bit")
	}
}

func TestVerifyIDMatch(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(7, phy.RegID1, 0x0007)
	f.Set(7, phy.RegID2, 0xc0f1)
	d := newDriver(f)

	if err := d.VerifyID(0x0007c0, 0xffffff); err != nil {
		t.Fatalf("VerifyID: %v", err)
	}
}

func TestVerifyIDMismatch(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(7, phy.RegID1, 0x0001)
	f.Set(7, phy.RegID2, 0x0000)
	d := newDriver(f)

	if err := d.VerifyID(0x0007c0, 0xffffff); err != phy.ErrPhyMismatch {
		t.Fatalf("VerifyID = %v, want ErrPhyMismatch", err)
	}
}

func TestReadLinkPartnerAbility(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(7, phy.RegANLPAR, 0x45e1)
	d := newDriver(f)

	got, err := d.ReadLinkPartnerAbility()
	if err != nil {
		t.Fatalf("ReadLinkPartnerAbility: %v", err)
	}
	if got != 0x45e1 {
		t.Fatalf("ReadLinkPartnerAbility = %#x, want 0x45e1", got)
	}
}
