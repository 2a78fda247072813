package emac

import (
	"hash/crc32"
	"math/bits"

	"github.com/tamago-soc/dwmac/phy"
)

// SetMACAddress reprograms the primary station address.
func (e *Emac) SetMACAddress(mac [6]byte) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	if mac[0]&1 != 0 {
		return &InvalidConfigError{Field: "MACAddress: bit 0 of first byte must be 0 (unicast)"}
	}

	e.macRegs.SetAddress(mac)
	e.config.MACAddress = mac

	return nil
}

// SetSpeed reprograms the MAC speed bit at runtime.
func (e *Emac) SetSpeed(speed phy.Speed) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.SetSpeed(speed == phy.Speed100)
	e.config.Speed = speed
	return nil
}

// SetDuplex reprograms the MAC duplex bit (and the coupled carrier-sense
// deferral disable) at runtime.
func (e *Emac) SetDuplex(duplex phy.Duplex) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.SetFullDuplex(duplex == phy.Full)
	e.macRegs.SetCarrierSenseDisable(duplex == phy.Full)
	e.config.Duplex = duplex
	return nil
}

// UpdateLink applies a resolved phy.LinkStatus (typically from a PHY
// driver's PollLink) to the MAC's speed/duplex configuration. A down
// status is a no-op: the last-known speed/duplex is left programmed, since
// nothing will be transmitted or received while the link is down.
func (e *Emac) UpdateLink(status phy.LinkStatus) error {
	if !status.Up {
		return nil
	}
	if err := e.SetSpeed(status.Speed); err != nil {
		return err
	}
	return e.SetDuplex(status.Duplex)
}

// SetPromiscuous toggles promiscuous reception.
func (e *Emac) SetPromiscuous(on bool) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.SetPromiscuous(on)
	e.config.Promiscuous = on
	return nil
}

// SetPassAllMulticast toggles accept-all-multicast.
func (e *Emac) SetPassAllMulticast(on bool) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.SetPassAllMulticast(on)
	e.config.PassAllMulticast = on
	return nil
}

// SetBroadcastEnabled toggles broadcast reception.
func (e *Emac) SetBroadcastEnabled(on bool) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.SetBroadcastEnabled(on)
	return nil
}

// AddMACFilter programs mac into the first free perfect-match filter slot
// (1..4) and returns which slot it used. Returns ErrNoFreeSlot when all
// four are occupied.
func (e *Emac) AddMACFilter(mac [6]byte, byteMask uint8) (int, error) {
	if e.state == Uninitialized {
		return 0, ErrNotInitialized
	}

	for i, used := range e.filterSlotUsed {
		if used {
			continue
		}
		slot := i + 1
		if err := e.macRegs.SetFilterSlot(slot, mac, byteMask, true); err != nil {
			return 0, err
		}
		e.filterSlotUsed[i] = true
		return slot, nil
	}

	return 0, ErrNoFreeSlot
}

// RemoveMACFilter disables a previously-added perfect-match filter slot.
func (e *Emac) RemoveMACFilter(slot int) error {
	if slot < 1 || slot > 4 {
		return &InvalidConfigError{Field: "slot"}
	}
	if err := e.macRegs.ClearFilterSlot(slot); err != nil {
		return err
	}
	e.filterSlotUsed[slot-1] = false
	return nil
}

// ComputeHashIndex is the pure function mapping a 6-byte address to one of
// 64 hash-table buckets: the Ethernet CRC-32 of the address, bit-reversed,
// taking the high 6 bits of the result.
func ComputeHashIndex(mac [6]byte) int {
	crc := crc32.ChecksumIEEE(mac[:])
	return int(bits.Reverse32(crc) >> 26)
}

// AddHashFilter adds mac's bucket to the multicast hash table. Multiple
// addresses may share a bucket; the bucket's hardware bit stays set as
// long as any reference to it remains.
func (e *Emac) AddHashFilter(mac [6]byte) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}

	idx := ComputeHashIndex(mac)
	e.hashRefCount[idx]++
	if e.hashRefCount[idx] == 1 {
		e.hashShadow |= 1 << uint(idx)
		e.macRegs.SetHash(e.hashShadow)
	}
	return nil
}

// RemoveHashFilter removes one reference to mac's bucket, clearing the
// hardware bit only once no address mapping to that bucket remains.
func (e *Emac) RemoveHashFilter(mac [6]byte) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}

	idx := ComputeHashIndex(mac)
	if e.hashRefCount[idx] == 0 {
		return nil
	}

	e.hashRefCount[idx]--
	if e.hashRefCount[idx] == 0 {
		e.hashShadow &^= 1 << uint(idx)
		e.macRegs.SetHash(e.hashShadow)
	}
	return nil
}

// SetVLANFilter programs and enables the single 802.1Q VLAN tag filter.
func (e *Emac) SetVLANFilter(tag uint16) error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.SetVLANTag(tag)
	e.vlanEnabled = true
	return nil
}

// DisableVLANFilter clears the VLAN tag filter.
func (e *Emac) DisableVLANFilter() error {
	if e.state == Uninitialized {
		return ErrNotInitialized
	}
	e.macRegs.DisableVLANFilter()
	e.vlanEnabled = false
	return nil
}
