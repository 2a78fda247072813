// Package mdio drives the management bus (IEEE 802.3 clause 22) through
// the MAC's MII address/data registers.
//
// Grounded on tamago's soc/nxp/enet/mii.go (MDIO22: write data, write
// address register with {PA,RA,MW,BUSY}, busy-poll), adapted to this
// target's DWMAC-style single-BUSY-bit polling instead of tamago's
// interrupt-event-bit reuse (the NXP ENET MAC signals MDIO completion via
// IRQ_MII in its event register rather than a dedicated BUSY bit in the MII
// address register itself, so soc/nxp/enet/mii.go's ENETx_EIR wait was not
// copied verbatim — see DESIGN.md).
package mdio

import (
	"time"

	"github.com/tamago-soc/dwmac/regs"
)

// Bus is the management-bus transport seam: a clause-22 register transport
// a PHY driver can be built against, real or mocked.
type Bus interface {
	Read(phy, reg uint8) (uint16, error)
	Write(phy, reg uint8, val uint16) error
}

// Error reports a bounded busy-wait that never observed BUSY clear.
type Error struct{ msg string }

func (e *Error) Error() string { return e.msg }

// ErrTimeout is returned when a transaction's busy-wait exceeds its
// deadline.
var ErrTimeout = &Error{"mdio: timeout"}

const defaultTimeout = time.Millisecond

// Controller is the concrete, register-backed Bus implementation.
type Controller struct {
	MAC     regs.MAC
	Clock   regs.MDCClockCode
	Timeout time.Duration
}

func (c *Controller) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// Write busy-polls BUSY, sets the data register, writes the address
// register to start a clause-22 write transaction, then busy-polls BUSY to
// clear.
func (c *Controller) Write(phy, reg uint8, val uint16) error {
	if !c.waitIdle() {
		return ErrTimeout
	}

	c.MAC.SetMIIData(val)
	c.MAC.StartMIITransaction(phy, reg, c.Clock, true)

	if !c.waitDone() {
		return ErrTimeout
	}

	return nil
}

// Read busy-polls BUSY, writes the address register to start a clause-22
// read transaction, busy-polls BUSY to clear, then reads the data
// register.
func (c *Controller) Read(phy, reg uint8) (uint16, error) {
	if !c.waitIdle() {
		return 0, ErrTimeout
	}

	c.MAC.StartMIITransaction(phy, reg, c.Clock, false)

	if !c.waitDone() {
		return 0, ErrTimeout
	}

	return c.MAC.MIIData(), nil
}

func (c *Controller) waitIdle() bool {
	return c.MAC.WaitMIIIdle(c.timeout())
}

func (c *Controller) waitDone() bool {
	return c.MAC.WaitMIIIdle(c.timeout())
}
