// Package mdiotest implements fakes for package mdio, grounded on
// google-periph's conn/conntest (a register-backed fake plus a recording
// wrapper around a real or fake Bus).
package mdiotest

import (
	"fmt"
	"sync"

	"github.com/tamago-soc/dwmac/mdio"
)

// key packs a phy/reg pair into a map key.
func key(phy, reg uint8) uint16 { return uint16(phy)<<8 | uint16(reg) }

// Fake implements mdio.Bus over an in-memory register map, standing in for
// a PHY's clause-22 register file in host-run tests.
type Fake struct {
	sync.Mutex

	regs map[uint16]uint16

	// Err, when non-nil, is returned by every Read and Write instead of
	// touching regs (simulates a bus timeout).
	Err error
}

// NewFake builds a Fake with regs pre-populated from initial (phy, reg ->
// value); later Read/Write calls mutate the same map.
func NewFake(initial map[uint16]uint16) *Fake {
	f := &Fake{regs: make(map[uint16]uint16, len(initial))}
	for k, v := range initial {
		f.regs[k] = v
	}
	return f
}

// Set installs the value a later Read(phy, reg) will return.
func (f *Fake) Set(phy, reg uint8, val uint16) {
	f.Lock()
	defer f.Unlock()
	f.regs[key(phy, reg)] = val
}

// Get returns the value a prior Write(phy, reg, ...) last stored.
func (f *Fake) Get(phy, reg uint8) uint16 {
	f.Lock()
	defer f.Unlock()
	return f.regs[key(phy, reg)]
}

// Read implements mdio.Bus.
func (f *Fake) Read(phy, reg uint8) (uint16, error) {
	f.Lock()
	defer f.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return f.regs[key(phy, reg)], nil
}

// Write implements mdio.Bus.
func (f *Fake) Write(phy, reg uint8, val uint16) error {
	f.Lock()
	defer f.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.regs[key(phy, reg)] = val
	return nil
}

var _ mdio.Bus = (*Fake)(nil)

// Op records a single Read or Write against a Record.
type Op struct {
	Write    bool
	Phy, Reg uint8
	Val      uint16
	Err      error
}

func (o Op) String() string {
	if o.Write {
		return fmt.Sprintf("write(phy=%d, reg=%d, val=%#04x)", o.Phy, o.Reg, o.Val)
	}
	return fmt.Sprintf("read(phy=%d, reg=%d) = %#04x", o.Phy, o.Reg, o.Val)
}

// Record wraps a Bus (real or Fake) and appends every transaction to Ops,
// for asserting call order in PHY driver tests.
type Record struct {
	sync.Mutex

	Bus mdio.Bus
	Ops []Op
}

// Read implements mdio.Bus.
func (r *Record) Read(phy, reg uint8) (uint16, error) {
	val, err := r.Bus.Read(phy, reg)

	r.Lock()
	r.Ops = append(r.Ops, Op{Phy: phy, Reg: reg, Val: val, Err: err})
	r.Unlock()

	return val, err
}

// Write implements mdio.Bus.
func (r *Record) Write(phy, reg uint8, val uint16) error {
	err := r.Bus.Write(phy, reg, val)

	r.Lock()
	r.Ops = append(r.Ops, Op{Write: true, Phy: phy, Reg: reg, Val: val, Err: err})
	r.Unlock()

	return err
}

var _ mdio.Bus = (*Record)(nil)
