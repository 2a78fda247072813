// Package cell implements a single-cell interior-mutability primitive:
// exactly one Emac per Cell, serialized by entering a critical section
// rather than a general-purpose mutex (the hardware's own ISR cannot
// preempt itself, so a re-entrancy guard is the only thing a mutex would
// add over a plain critical section).
//
// Grounded on tamago's arm.CPU.EnableInterrupts/DisableInterrupts
// (arm/irq.go) and the injected-function style of ENET.EnablePLL/EnablePHY
// (soc/nxp/enet/enet.go): Enter/Exit are fields, not a hard-wired import of
// the arm package, so Cell stays usable on any architecture this driver is
// ported to.
package cell

import (
	"fmt"

	"github.com/tamago-soc/dwmac/emac"
)

// Cell holds exactly one Emac with interior mutability; access is
// serialized by entering the critical section Enter/Exit describe.
type Cell struct {
	// Enter masks interrupts (or otherwise begins the critical section)
	// and must be set before calling With/TryWith.
	Enter func()
	// Exit unmasks interrupts (ends the critical section).
	Exit func()

	emac     *emac.Emac
	entered  bool
}

// New wraps e in a Cell.
func New(e *emac.Emac, enter, exit func()) *Cell {
	return &Cell{Enter: enter, Exit: exit, emac: e}
}

// reentrantErr is the usage-error panic value TryWith converts into an
// error and With propagates directly: nesting With on the same Cell means
// the critical section no longer serializes, a usage error rather than a
// recoverable race.
type reentrantErr struct{}

func (reentrantErr) Error() string { return "cell: With called re-entrantly" }

// With runs fn with exclusive access to the wrapped Emac. Calling With
// re-entrantly (from within another With on the same Cell, e.g. from an
// ISR nested inside application code already inside With) panics.
func (c *Cell) With(fn func(*emac.Emac)) {
	c.Enter()
	defer c.Exit()

	if c.entered {
		panic(reentrantErr{})
	}
	c.entered = true
	defer func() { c.entered = false }()

	fn(c.emac)
}

// TryWith runs fn with exclusive access to the wrapped Emac, returning an
// error instead of panicking on re-entrant use. ISRs should use TryWith:
// an ISR has no failure path for register access, but that's a different
// thing from a usage bug, and an ISR is a poor place to propagate a panic.
func (c *Cell) TryWith(fn func(*emac.Emac)) (err error) {
	c.Enter()
	defer c.Exit()

	if c.entered {
		return reentrantErr{}
	}

	c.entered = true
	defer func() { c.entered = false }()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cell: %v", r)
		}
	}()

	fn(c.emac)
	return nil
}
