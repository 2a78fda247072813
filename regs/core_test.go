package regs

import (
	"runtime"
	"testing"
	"time"
	"unsafe"
)

// newCore backs a Core with a real, addressable byte slice so tests can
// exercise the volatile accessors against normal process memory instead of
// a real peripheral. The cleanup keeps the slice reachable until the test
// ends, since the returned Core holds only its address as a uintptr.
func newCore(t *testing.T, size int) (Core, *[]byte) {
	t.Helper()
	buf := make([]byte, size)
	t.Cleanup(func() { runtime.KeepAlive(buf) })
	return Core{Base: uintptr(unsafe.Pointer(&buf[0]))}, &buf
}

func TestCoreReadWrite32(t *testing.T) {
	c, buf := newCore(t, 16)
	defer func() { _ = buf }()

	c.Write32(4, 0xdeadbeef)
	if got := c.Read32(4); got != 0xdeadbeef {
		t.Fatalf("Read32 = %#x, want 0xdeadbeef", got)
	}
	if got := c.Read32(0); got != 0 {
		t.Fatalf("Read32(0) = %#x, want 0 (untouched)", got)
	}
}

func TestCoreSetFieldPreservesOtherBits(t *testing.T) {
	c, _ := newCore(t, 16)

	c.Write32(0, 0xffffffff)
	c.SetField(0, 4, 0xf, 0x5)

	want := uint32(0xffffff5f)
	if got := c.Read32(0); got != want {
		t.Fatalf("Read32 = %#x, want %#x", got, want)
	}
}

func TestCoreSetBitToClearBit(t *testing.T) {
	c, _ := newCore(t, 16)

	c.SetBitTo(0, 3, true)
	if !c.Bit(0, 3) {
		t.Fatal("bit 3 not set")
	}

	c.SetBitTo(0, 3, false)
	if c.Bit(0, 3) {
		t.Fatal("bit 3 still set")
	}
}

func TestCoreWaitFieldTimeoutExpires(t *testing.T) {
	c, _ := newCore(t, 16)
	c.SetBit(0, 0) // condition (bit clear to 0) never satisfied

	start := time.Now()
	ok := c.WaitFieldTimeout(5*time.Millisecond, 0, 0, 1, 0)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("WaitFieldTimeout reported success on a condition that never held")
	}
	if elapsed < 5*time.Millisecond {
		t.Fatalf("returned after %v, before the timeout elapsed", elapsed)
	}
}

func TestCoreWaitFieldTimeoutSucceeds(t *testing.T) {
	c, _ := newCore(t, 16)
	c.SetBit(0, 0)

	go func() {
		time.Sleep(time.Millisecond)
		c.ClearBit(0, 0)
	}()

	if !c.WaitFieldTimeout(50*time.Millisecond, 0, 0, 1, 0) {
		t.Fatal("WaitFieldTimeout did not observe the condition becoming true")
	}
}
