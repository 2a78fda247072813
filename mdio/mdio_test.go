package mdio

import (
	"runtime"
	"testing"
	"time"
	"unsafe"

	"github.com/tamago-soc/dwmac/regs"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	buf := make([]byte, 0x20)
	t.Cleanup(func() { runtime.KeepAlive(buf) }) // regs.Core holds only a uintptr
	mac := regs.MAC{Core: regs.Core{Base: uintptr(unsafe.Pointer(&buf[0]))}}
	return &Controller{MAC: mac, Clock: regs.MDCDiv42, Timeout: 20 * time.Millisecond}
}

// simulateHardware runs a background "PHY" that clears BUSY shortly after
// observing it set, for the given duration — covering both the waitIdle and
// waitDone polls a single transaction issues.
func simulateHardware(c *Controller, settle, duration time.Duration) {
	go func() {
		deadline := time.Now().Add(duration)
		for time.Now().Before(deadline) {
			if c.MAC.MIIBusy() {
				time.Sleep(settle)
				c.MAC.Core.SetField(0x0010, 0, 1, 0)
			}
			time.Sleep(time.Microsecond)
		}
	}()
}

func TestControllerWriteSucceeds(t *testing.T) {
	c := newController(t)
	simulateHardware(c, time.Millisecond, 50*time.Millisecond)

	if err := c.Write(3, 4, 0x1234); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestControllerWriteTimesOutWhenBusyNeverClears(t *testing.T) {
	c := newController(t)
	c.MAC.Core.SetField(0x0010, 0, 1, 1) // stuck busy, nothing ever clears it

	err := c.Write(3, 4, 0x1234)
	if err != ErrTimeout {
		t.Fatalf("Write = %v, want ErrTimeout", err)
	}
}

func TestControllerReadReturnsDataRegister(t *testing.T) {
	c := newController(t)
	c.MAC.SetMIIData(0xbeef)
	simulateHardware(c, time.Millisecond, 50*time.Millisecond)

	got, err := c.Read(1, 2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 0xbeef {
		t.Fatalf("Read = %#x, want 0xbeef", got)
	}
}

func TestControllerWaitsForIdleBeforeStarting(t *testing.T) {
	c := newController(t)
	c.MAC.Core.SetField(0x0010, 0, 1, 1) // BUSY already set by a prior transaction
	simulateHardware(c, time.Millisecond, 50*time.Millisecond)

	if err := c.Write(3, 4, 0x1234); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestDefaultTimeoutWhenUnset(t *testing.T) {
	c := &Controller{MAC: regs.MAC{}}
	if c.timeout() != defaultTimeout {
		t.Fatalf("timeout() = %v, want default %v", c.timeout(), defaultTimeout)
	}
}
