package emac

// Stats accumulates MAC-layer event counts across the lifetime of an
// instance (supplemented feature, grounded on tamago's soc/nxp/enet
// Stats struct).
type Stats struct {
	RxFrames uint64
	TxFrames uint64

	RxErrors      uint64
	TxErrors      uint64
	RxOverflow    uint64
	TxUnderflow   uint64
	FatalBusError uint64
}
