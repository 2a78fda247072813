// Package emac implements the MAC controller: lifecycle,
// runtime configuration, filtering, flow control, and the data path built
// on dma.Engine.
//
// Grounded on tamago's soc/nxp/enet.ENET — same shape (register
// facades plus a descriptor engine behind a lifecycle), generalized from
// ENET's single Init/setup pair into an explicit
// Uninitialized/Initialized/Running/Stopped state machine, and from ENET's
// sync.Mutex-guarded instance into a bare struct: serialization here is the
// caller's job via emac/cell.
package emac

import (
	"runtime"
	"time"

	"github.com/tamago-soc/dwmac/desc"
	"github.com/tamago-soc/dwmac/dma"
	"github.com/tamago-soc/dwmac/phy"
	"github.com/tamago-soc/dwmac/regs"
)

// State is the MAC controller's lifecycle state.
type State int

const (
	Uninitialized State = iota
	Initialized
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FlowControlConfig groups the 802.3x PAUSE parameters.
type FlowControlConfig struct {
	Enable bool
	// LowThreshold is one of four coded low-water-mark values.
	LowThreshold uint8
	PauseTime    uint16
}

// Config is the application-facing configuration record.
// Buffer counts and buffer size are construction-time parameters of the
// dma.Engine passed to New, not part of this record.
type Config struct {
	PHYInterface  regs.PHYInterface
	RMIIClockMode regs.RefClockMode

	MACAddress [6]byte
	Speed      phy.Speed
	Duplex     phy.Duplex

	DMABurstLen regs.BurstLength

	// CPUClockHz is the reference clock SelectMDCClock divides down to
	// pick an MDC clock code.
	CPUClockHz   uint32
	ResetTimeout time.Duration

	RxChecksumEnable bool
	TxChecksumMode   desc.ChecksumMode

	FlowControl FlowControlConfig

	Promiscuous      bool
	PassAllMulticast bool

	// HashPerfectFilter toggles HPF mode.
	HashPerfectFilter bool
}

const defaultResetTimeout = time.Millisecond

const hashBuckets = 64

// Emac is the MAC controller instance: owns the register facades, the DMA
// engine, lifecycle state, and filtering/flow-control shadows.
type Emac struct {
	macRegs regs.MAC
	dmaRegs regs.DMA
	extRegs regs.Ext

	dma *dma.Engine

	state  State
	config Config
	stats  Stats

	mdcClock regs.MDCClockCode

	filterSlotUsed [4]bool

	hashRefCount [hashBuckets]int
	hashShadow   uint64

	vlanEnabled bool

	peerPauseCapable bool
}

// New constructs an Emac over the three register facades and a
// caller-constructed DMA engine. It performs no hardware access; call Init
// to bring the peripheral up.
func New(mac regs.MAC, dmaRegsBlock regs.DMA, ext regs.Ext, engine *dma.Engine) *Emac {
	return &Emac{
		macRegs: mac,
		dmaRegs: dmaRegsBlock,
		extRegs: ext,
		dma:     engine,
	}
}

// State returns the current lifecycle state.
func (e *Emac) State() State { return e.state }

// Stats returns a snapshot of the accumulated MAC-layer event counters.
// The counters live on the instance, not behind a package-level variable.
func (e *Emac) Stats() Stats { return e.stats }

func (e *Emac) waitResetDone(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for e.dmaRegs.SoftResetInProgress() {
		runtime.Gosched()
		if time.Now().After(deadline) {
			return false
		}
	}
	return true
}

func (e *Emac) waitTxDrained(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !e.dma.TxDrained() {
		runtime.Gosched()
		if time.Now().After(deadline) {
			return false
		}
	}
	return true
}

// Init brings the peripheral from Uninitialized to Initialized. On any
// subsystem failure the state remains Uninitialized and the peripheral bus
// clock is released.
func (e *Emac) Init(cfg Config) error {
	if e.state != Uninitialized {
		return ErrAlreadyInitialized
	}

	if cfg.MACAddress[0]&1 != 0 {
		return &InvalidConfigError{Field: "MACAddress: bit 0 of first byte must be 0 (unicast)"}
	}

	e.extRegs.EnableClock()
	e.extRegs.PowerUpRAM()
	e.extRegs.SetInterfaceMode(cfg.PHYInterface, cfg.RMIIClockMode)

	timeout := cfg.ResetTimeout
	if timeout <= 0 {
		timeout = defaultResetTimeout
	}

	e.dmaRegs.SoftReset()
	if !e.waitResetDone(timeout) {
		e.extRegs.DisableClock()
		return ErrResetTimeout
	}

	if err := e.dmaRegs.SetBusMode(cfg.DMABurstLen); err != nil {
		e.extRegs.DisableClock()
		return err
	}

	code, err := regs.SelectMDCClock(cfg.CPUClockHz)
	if err != nil {
		e.extRegs.DisableClock()
		return err
	}
	e.mdcClock = code

	e.macRegs.SetSpeed(cfg.Speed == phy.Speed100)
	e.macRegs.SetFullDuplex(cfg.Duplex == phy.Full)
	e.macRegs.SetCarrierSenseDisable(cfg.Duplex == phy.Full)
	e.macRegs.SetJabberWatchdogDisable(false)
	// CRC is left on the frame by hardware (default); dma.Engine.Receive
	// strips the 4-byte FCS in software.
	e.macRegs.SetAutoCRCStrip(false)

	e.macRegs.SetPromiscuous(cfg.Promiscuous)
	e.macRegs.SetPassAllMulticast(cfg.PassAllMulticast)
	e.macRegs.SetHashMulticast(true)
	e.macRegs.SetBroadcastEnabled(true)
	e.macRegs.SetHashPerfectFilter(cfg.HashPerfectFilter)
	e.macRegs.SetAddress(cfg.MACAddress)
	e.macRegs.DisableVLANFilter()
	e.vlanEnabled = false

	e.macRegs.SetFlowControl(cfg.FlowControl.PauseTime, cfg.FlowControl.LowThreshold, cfg.FlowControl.Enable)
	e.macRegs.SetTxFlowControlEnable(false)

	if err := e.dma.Init(cfg.DMABurstLen); err != nil {
		e.extRegs.DisableClock()
		return err
	}

	e.config = cfg
	e.state = Initialized

	return nil
}

// Start transitions Initialized or Stopped to Running, arming the MAC and
// DMA in a fixed order: RX DMA and MAC RX are armed before TX can be
// enabled, so no frame is accepted before RX DMA is ready and nothing is
// transmitted before TX DMA can accept it.
func (e *Emac) Start() error {
	if e.state != Initialized && e.state != Stopped {
		return ErrInvalidState
	}

	e.dmaRegs.ClearStatus(regs.AllKnownBitsMask)

	e.macRegs.SetRxEnable(true)
	e.dmaRegs.SetTxStart(true)
	e.dmaRegs.SetRxStart(true)
	e.macRegs.SetTxEnable(true)

	e.state = Running

	return nil
}

// txDrainTimeout bounds Stop's wait for the TX queue to empty.
const txDrainTimeout = 10 * time.Millisecond

// Stop transitions Running to Stopped, disabling TX first (waiting,
// bounded, for the TX queue to drain) then RX, and flushes the TX FIFO.
func (e *Emac) Stop() error {
	if e.state != Running {
		return ErrInvalidState
	}

	e.macRegs.SetTxEnable(false)
	e.dmaRegs.SetTxStart(false)
	e.waitTxDrained(txDrainTimeout)
	e.dmaRegs.SetRxStart(false)
	e.macRegs.SetRxEnable(false)
	e.dmaRegs.FlushTxFIFO()

	e.state = Stopped

	return nil
}

// Transmit submits frame to the DMA engine.
func (e *Emac) Transmit(frame []byte) error {
	if e.state != Running {
		return ErrInvalidState
	}
	return e.dma.Transmit(frame)
}

// Receive copies the oldest waiting frame into out.
func (e *Emac) Receive(out []byte) (int, error) {
	if e.state != Running {
		return 0, ErrInvalidState
	}
	return e.dma.Receive(out)
}
