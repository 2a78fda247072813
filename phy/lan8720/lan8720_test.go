package lan8720

import (
	"testing"

	"github.com/tamago-soc/dwmac/mdio/mdiotest"
	"github.com/tamago-soc/dwmac/phy"
)

const testAddr = 4

func newDriver(f *mdiotest.Fake) *Driver[*mdiotest.Fake] {
	return New[*mdiotest.Fake](f, testAddr)
}

func setLinkUp(f *mdiotest.Fake, up bool) {
	if up {
		f.Set(testAddr, phy.RegBMSR, 1<<2)
	} else {
		f.Set(testAddr, phy.RegBMSR, 0)
	}
}

func TestVerifyIDMatchesFamilyOUI(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(testAddr, phy.RegID1, 0x0007)
	f.Set(testAddr, phy.RegID2, 0xc0f1)
	d := newDriver(f)

	if err := d.VerifyID(); err != nil {
		t.Fatalf("VerifyID: %v", err)
	}
}

func TestVerifyIDRejectsForeignOUI(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(testAddr, phy.RegID1, 0x0022)
	f.Set(testAddr, phy.RegID2, 0x3300)
	d := newDriver(f)

	if err := d.VerifyID(); err != phy.ErrPhyMismatch {
		t.Fatalf("VerifyID = %v, want ErrPhyMismatch", err)
	}
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

func TestInitDisablesEnergyDetectPowerDown(t *testing.T) {
	f := mdiotest.NewFake(nil)
	f.Set(testAddr, regMCSR, 1<<edpwrdown)
	d := New[resetClearingBus](resetClearingBus{f}, testAddr)

	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := f.Get(testAddr, regMCSR); got&(1<<edpwrdown) != 0 {
		t.Fatalf("MCSR = %#x, edpwrdown should be cleared", got)
	}
	if got := f.Get(testAddr, phy.RegBMCR); got&(1<<12) == 0 {
		t.Fatal("Init must leave auto-negotiation enabled")
	}
}

func TestReadLinkStatusDown(t *testing.T) {
	f := mdiotest.NewFake(nil)
	setLinkUp(f, false)
	d := newDriver(f)

	status, err := d.ReadLinkStatus()
	if err != nil {
		t.Fatalf("ReadLinkStatus: %v", err)
	}
	if status.Up {
		t.Fatal("expected link down")
	}
}

func TestReadLinkStatusDecodesPSCSR(t *testing.T) {
	cases := []struct {
		code   uint16
		speed  phy.Speed
		duplex phy.Duplex
	}{
		{0b001, phy.Speed10, phy.Half},
		{0b010, phy.Speed10, phy.Full},
		{0b110, phy.Speed100, phy.Half},
		{0b101, phy.Speed100, phy.Full},
		{0b100, phy.Speed100, phy.Full},
	}

	for _, c := range cases {
		f := mdiotest.NewFake(nil)
		setLinkUp(f, true)
		f.Set(testAddr, regPSCSR, c.code<<pscsrSpeedPos)
		d := newDriver(f)

		status, err := d.ReadLinkStatus()
		if err != nil {
			t.Fatalf("ReadLinkStatus(code=%03b): %v", c.code, err)
		}
		if !status.Up || status.Speed != c.speed || status.Duplex != c.duplex {
			t.Fatalf("ReadLinkStatus(code=%03b) = %+v, want {Up:true Speed:%v Duplex:%v}", c.code, status, c.speed, c.duplex)
		}
	}
}

func TestReadLinkStatusUnresolvedPSCSRStillUp(t *testing.T) {
	f := mdiotest.NewFake(nil)
	setLinkUp(f, true)
	f.Set(testAddr, regPSCSR, 0b000<<pscsrSpeedPos)
	d := newDriver(f)

	status, err := d.ReadLinkStatus()
	if err != nil {
		t.Fatalf("ReadLinkStatus: %v", err)
	}
	if !status.Up || status.Speed != 0 {
		t.Fatalf("ReadLinkStatus = %+v, want Up with zero Speed", status)
	}
}

func TestPollLinkReportsOnlyTransitions(t *testing.T) {
	f := mdiotest.NewFake(nil)
	setLinkUp(f, false)
	d := newDriver(f)

	_, changed, err := d.PollLink()
	if err != nil {
		t.Fatalf("PollLink: %v", err)
	}
	if changed {
		t.Fatal("first poll from zero-value cache to down should not report a change")
	}

	setLinkUp(f, true)
	f.Set(testAddr, regPSCSR, 0b101<<pscsrSpeedPos)
	status, changed, err := d.PollLink()
	if err != nil {
		t.Fatalf("PollLink: %v", err)
	}
	if !changed || !status.Up || status.Speed != phy.Speed100 {
		t.Fatalf("PollLink = %+v changed=%v, want an up transition to 100Mbps", status, changed)
	}

	_, changed, err = d.PollLink()
	if err != nil {
		t.Fatalf("PollLink: %v", err)
	}
	if changed {
		t.Fatal("repeated poll with no change must not report a transition")
	}
}

func TestPollLinkDebouncesFlappingPSCSR(t *testing.T) {
	f := mdiotest.NewFake(nil)
	setLinkUp(f, true)
	f.Set(testAddr, regPSCSR, 0b101<<pscsrSpeedPos)
	d := newDriver(f)

	if _, _, err := d.PollLink(); err != nil {
		t.Fatalf("PollLink: %v", err)
	}

	f.Set(testAddr, regPSCSR, 0) // unresolved for the first time
	status, changed, err := d.PollLink()
	if err != nil {
		t.Fatalf("PollLink: %v", err)
	}
	if !changed || !status.Up || status.Speed != 0 {
		t.Fatalf("status = %+v changed=%v, want an up-but-unresolved reading on the first unresolved poll", status, changed)
	}

	status, changed, err = d.PollLink()
	if err != nil {
		t.Fatalf("PollLink: %v", err)
	}
	if !changed || status.Up {
		t.Fatalf("status = %+v changed=%v, want a down transition after a second consecutive unresolved poll", status, changed)
	}
}

func TestCachedReflectsLastPollLink(t *testing.T) {
	f := mdiotest.NewFake(nil)
	setLinkUp(f, true)
	f.Set(testAddr, regPSCSR, 0b010<<pscsrSpeedPos)
	d := newDriver(f)

	d.PollLink()
	if got := d.Cached(); !got.Up || got.Speed != phy.Speed10 || got.Duplex != phy.Full {
		t.Fatalf("Cached() = %+v, want the last PollLink result", got)
	}
}
