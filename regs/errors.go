package regs

import "fmt"

// ConfigErrorKind enumerates the ways a requested register programming can
// be impossible to satisfy on this SoC family.
type ConfigErrorKind byte

const (
	// InvalidBurstLength means the requested DMA burst length is not one
	// of {1, 2, 4, 8, 16, 32} beats.
	InvalidBurstLength ConfigErrorKind = iota
	// InvalidClockDivider means no MDC clock-code selection can keep MDC
	// at or below the IEEE 802.3 clause-22 limit (2.5 MHz) for the given
	// CPU clock.
	InvalidClockDivider
	// InvalidFilterSlot means a MAC filter slot index outside 1..4 was
	// requested.
	InvalidFilterSlot
)

func (k ConfigErrorKind) String() string {
	switch k {
	case InvalidBurstLength:
		return "invalid DMA burst length"
	case InvalidClockDivider:
		return "invalid MDC clock divider"
	case InvalidFilterSlot:
		return "invalid filter slot"
	default:
		return "config error"
	}
}

// ConfigError is returned by regs accessors asked to program an impossible
// value. Every other accessor in this package cannot fail.
type ConfigError struct {
	Kind  ConfigErrorKind
	Value uint32
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("regs: %s (value=%d)", e.Kind, e.Value)
}
