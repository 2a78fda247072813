package emac

import (
	"context"

	"github.com/tamago-soc/dwmac/dma"
)

// ReceiveAsync waits for and receives a frame into buf, translating the
// source's "register waker → re-check → poll" future idiom into Go
//: wake is the RX wake channel from an emac/waker.Set (its
// buffered slot means a wakeup that races ahead of this call is never
// lost, unlike a future that only gets a waker once polled — see
// DESIGN.md). Returns ctx.Err() if ctx is cancelled before a frame
// arrives; cancelling is safe; no frame state is lost, since the ring
// itself, not this call, owns frame state.
func (e *Emac) ReceiveAsync(ctx context.Context, buf []byte, wake <-chan struct{}) (int, error) {
	for {
		n, err := e.Receive(buf)
		switch err {
		case nil:
			return n, nil
		case dma.ErrNoFrameAvailable:
			// fall through to wait
		default:
			return 0, err
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-wake:
			// retry Receive at the top of the loop
		}
	}
}

// TransmitAsync waits for a free TX descriptor and submits frame,
// symmetric to ReceiveAsync on the TX wake channel.
func (e *Emac) TransmitAsync(ctx context.Context, frame []byte, wake <-chan struct{}) error {
	for {
		err := e.Transmit(frame)
		switch err {
		case nil:
			return nil
		case dma.ErrTxBuffersFull:
			// fall through to wait
		default:
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
			// retry Transmit at the top of the loop
		}
	}
}
