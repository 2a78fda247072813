// Package lan8720 implements a reference driver for the LAN8720A family of
// 10/100 Ethernet PHYs.
package lan8720

import (
	"time"

	"github.com/tamago-soc/dwmac/mdio"
	"github.com/tamago-soc/dwmac/phy"
)

// OUI and mask used by VerifyID: the 24-bit organizationally-unique
// identifier shared by the LAN8720A family.
const (
	expectedOUI = 0x0007C0
	ouiMask     = 0xFFFFFF
)

// Vendor register addresses.
const (
	regMCSR  = 17 // Mode Control/Status Register
	regPSCSR = 31 // PHY Special Control/Status Register
)

// MCSR bit positions.
const edpwrdown = 7 // energy-detect power-down enable

// PSCSR speed-indication field (bits 4..2).
const (
	pscsrSpeedPos  = 2
	pscsrSpeedMask = 0x7
)

// resetTimeout bounds Init's soft-reset wait.
const resetTimeout = 500 * time.Millisecond

// Driver is the LAN8720A-family reference driver, generic over the MDIO bus
// implementation.
type Driver[B mdio.Bus] struct {
	phy.Driver[B]

	cached phy.LinkStatus
	polls  int // consecutive polls since the link was last confirmed up
}

// New wraps bus/addr into a Driver.
func New[B mdio.Bus](bus B, addr uint8) *Driver[B] {
	return &Driver[B]{Driver: phy.Driver[B]{Bus: bus, Addr: addr}}
}

// VerifyID checks PHYIDR1/PHYIDR2 against the LAN8720A-family OUI.
func (d *Driver[B]) VerifyID() error {
	return d.Driver.VerifyID(expectedOUI, ouiMask)
}

// Init soft-resets the PHY, disables the vendor energy-detect power-down
// mode, and enables/restarts auto-negotiation.
func (d *Driver[B]) Init() error {
	if err := d.SoftReset(resetTimeout); err != nil {
		return err
	}

	mcsr, err := d.Bus.Read(d.Addr, regMCSR)
	if err != nil {
		return err
	}
	if err := d.Bus.Write(d.Addr, regMCSR, mcsr&^(1<<edpwrdown)); err != nil {
		return err
	}

	return d.EnableAutoNegotiation()
}

// readSpeedIndication decodes the PSCSR speed-indication field. Of the
// field's eight possible values, five are meaningful: two
// distinct codes both report "100 full", matching the reference part's
// datasheet encoding; the rest report "unresolved" via ok == false.
func readSpeedIndication(pscsr uint16) (status phy.LinkStatus, ok bool) {
	code := (pscsr >> pscsrSpeedPos) & pscsrSpeedMask

	switch code {
	case 0b001:
		return phy.LinkStatus{Speed: phy.Speed10, Duplex: phy.Half}, true
	case 0b010:
		return phy.LinkStatus{Speed: phy.Speed10, Duplex: phy.Full}, true
	case 0b110:
		return phy.LinkStatus{Speed: phy.Speed100, Duplex: phy.Half}, true
	case 0b100, 0b101:
		return phy.LinkStatus{Speed: phy.Speed100, Duplex: phy.Full}, true
	default:
		return phy.LinkStatus{}, false
	}
}

// ReadLinkStatus resolves the current link state: the vendor PSCSR speed
// indication when it is one of the five meaningful codes, falling back to
// BMSR for link-up only otherwise.
func (d *Driver[B]) ReadLinkStatus() (phy.LinkStatus, error) {
	up, err := d.IsLinkUp()
	if err != nil {
		return phy.LinkStatus{}, err
	}
	if !up {
		return phy.LinkStatus{}, nil
	}

	pscsr, err := d.Bus.Read(d.Addr, regPSCSR)
	if err != nil {
		return phy.LinkStatus{}, err
	}

	status, ok := readSpeedIndication(pscsr)
	if !ok {
		// PSCSR unresolved: link partner abilities may deny what
		// auto-negotiation proposed, or the link genuinely has not
		// settled yet. Either way the vendor register, not BMCR, is
		// authoritative; report link up
		// with an unresolved speed/duplex pair.
		return phy.LinkStatus{Up: true}, nil
	}

	status.Up = true
	return status, nil
}

// PollLink reads the current link state and returns the new LinkStatus
// only on a transition from the cached state, including down->up and
// up->down. A PSCSR that stays unresolved for more than
// one consecutive poll while BMSR reports link up is treated as a
// flapping link and reported down.
func (d *Driver[B]) PollLink() (status phy.LinkStatus, changed bool, err error) {
	cur, err := d.ReadLinkStatus()
	if err != nil {
		return phy.LinkStatus{}, false, err
	}

	unresolved := cur.Up && cur.Speed == 0
	if unresolved {
		d.polls++
		if d.polls > 1 {
			cur = phy.LinkStatus{}
		}
	} else {
		d.polls = 0
	}

	if cur == d.cached {
		return d.cached, false, nil
	}

	d.cached = cur
	return cur, true, nil
}

// Cached returns the last status PollLink observed.
func (d *Driver[B]) Cached() phy.LinkStatus { return d.cached }
