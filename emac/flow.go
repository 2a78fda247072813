package emac

// EnableFlowControl (re)programs the 802.3x PAUSE water marks and PAUSE
// time, and enables RX-side flow control. TX-side PAUSE transmission stays
// gated on the link partner's advertised ability: see
// SetPeerPauseAbility.
func (e *Emac) EnableFlowControl(pauseTime uint16, lowThreshold uint8) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}

	e.config.FlowControl = FlowControlConfig{
		Enable:       true,
		LowThreshold: lowThreshold,
		PauseTime:    pauseTime,
	}
	e.macRegs.SetFlowControl(pauseTime, lowThreshold, true)
	e.macRegs.SetTxFlowControlEnable(e.peerPauseCapable)

	return nil
}

// CheckFlowControl reports whether the MAC is currently asserting PAUSE
// (back-pressure in half duplex, or a PAUSE frame in flight in full
// duplex).
func (e *Emac) CheckFlowControl() bool {
	return e.macRegs.FlowControlBusy()
}

// SetPeerPauseAbility records whether the link partner advertised PAUSE
// support (typically from phy.Driver.ReadLinkPartnerAbility) and gates TX
// PAUSE transmission on it: PAUSE frames are only useful if transmitting
// them can change the partner's behavior.
func (e *Emac) SetPeerPauseAbility(can bool) {
	e.peerPauseCapable = can
	e.macRegs.SetTxFlowControlEnable(can && e.config.FlowControl.Enable)
}
