package emac

import (
	"context"
	"runtime"

	"github.com/tamago-soc/dwmac/dma"
)

// Run polls for incoming frames into buf (sized by the caller, typically
// from dma.Engine.RxBufferSize) and calls onFrame for each one, until ctx
// is cancelled (supplemented feature, grounded on tamago's
// ENET.Start(rx bool) RxHandler loop — adapted to take a caller-owned
// scratch buffer instead of ENET.Rx's heap-returned slice, since this
// driver never allocates on the heap, and to observe context cancellation
// instead of running forever).
func (e *Emac) Run(ctx context.Context, buf []byte, onFrame func([]byte)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := e.Receive(buf)
		switch err {
		case nil:
			onFrame(buf[:n])
		case dma.ErrNoFrameAvailable:
			runtime.Gosched()
		default:
			// Transient RX errors are already recycled by the DMA
			// engine; keep polling.
		}
	}
}
