package emac

import "testing"

// macFlowControl offset and its fcFCBBPA/fcTFE bit positions mirror the
// regs-package internals regs.MAC.SetFlowControl/SetTxFlowControlEnable
// operate on (regs/mac.go): the register block layout these tests poke
// directly to observe RMW side effects without exporting test-only hooks.
const (
	macFlowControlOffset = 0x0018
	fcFCBBPABit           = 0
	fcTFEBit              = 1
)

func TestEnableFlowControlRequiresInitialized(t *testing.T) {
	e := newTestEmac(t)
	if err := e.EnableFlowControl(100, 1); err != ErrNotInitialized {
		t.Fatalf("EnableFlowControl before Init = %v, want ErrNotInitialized", err)
	}
}

func TestSetPeerPauseAbilityGatesOnFlowControlEnable(t *testing.T) {
	e := newTestEmac(t)
	if err := e.Init(testConfig()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Flow control not yet enabled: even a capable peer must not turn on
	// TX PAUSE.
	e.SetPeerPauseAbility(true)
	if e.macRegs.Bit(macFlowControlOffset, fcTFEBit) {
		t.Fatal("TX flow control enabled despite FlowControl.Enable being false")
	}

	if err := e.EnableFlowControl(256, 1); err != nil {
		t.Fatalf("EnableFlowControl: %v", err)
	}
	if !e.macRegs.Bit(macFlowControlOffset, fcTFEBit) {
		t.Fatal("EnableFlowControl should re-assert TX flow control for an already-capable peer")
	}

	e.SetPeerPauseAbility(false)
	if e.macRegs.Bit(macFlowControlOffset, fcTFEBit) {
		t.Fatal("TX flow control must clear once the peer is reported incapable")
	}
}

func TestCheckFlowControlReflectsBusyBit(t *testing.T) {
	e := newTestEmac(t)
	if err := e.Init(testConfig()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if e.CheckFlowControl() {
		t.Fatal("expected flow control idle on a fresh register block")
	}

	e.macRegs.SetField(macFlowControlOffset, fcFCBBPABit, 1, 1)
	if !e.CheckFlowControl() {
		t.Fatal("expected CheckFlowControl to observe the busy/back-pressure bit")
	}
}
