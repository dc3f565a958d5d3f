// Package timer implements the Game Boy's DIV/TIMA/TMA/TAC timer unit.
// Unlike the teacher's event-scheduler-based timer, this Controller is
// driven directly by the orchestrator one T-cycle at a time, so that its
// internal counter always observes the same T the CPU just consumed
// (spec.md §4.8's ordering guarantee).
package timer

import (
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

// selectorBit maps TAC[1:0] to the bit of the internal 16-bit counter
// whose falling edge clocks TIMA.
var selectorBit = [4]uint8{9, 3, 5, 7}

// Controller owns DIV's internal 16-bit counter and the TIMA/TMA/TAC
// registers.
type Controller struct {
	irq *interrupts.Service

	counter uint16 // internal 16-bit divider; DIV reads its upper byte
	tima    uint8
	tma     uint8
	tac     uint8

	// reloadCycles counts down the 4 T-cycles between a TIMA overflow
	// and the TMA reload + interrupt becoming visible. 0 means no
	// reload in flight.
	reloadCycles uint8
}

// NewController returns a Controller with its internal counter seeded the
// way real hardware leaves it after the boot ROM runs.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq, counter: 0xABCC}
}

// Reset zeroes the internal divider, as a CGB speed-switch STOP does.
func (c *Controller) Reset() {
	c.counter = 0
}

func (c *Controller) enabled() bool {
	return c.tac&types.Bit2 != 0
}

func (c *Controller) selector() uint8 {
	return selectorBit[c.tac&0x3]
}

func (c *Controller) selectedBitSet() bool {
	return c.counter&(1<<c.selector()) != 0
}

// Tick advances the timer by one T-cycle.
func (c *Controller) Tick() {
	if c.reloadCycles > 0 {
		c.reloadCycles--
		if c.reloadCycles == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.TimerFlag)
		}
	}

	before := c.selectedBitSet()
	c.counter++
	after := c.selectedBitSet()

	// TIMA increments on the falling edge (1 -> 0) of the selected bit,
	// only while the timer is enabled.
	if c.enabled() && before && !after {
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		// overflow: TIMA reads 0 for 4 T-cycles before TMA is reloaded
		// and the interrupt is raised.
		c.reloadCycles = 4
	}
}

// Read returns the value of a timer register.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return uint8(c.counter >> 8)
	case 0xFF05:
		return c.tima
	case 0xFF06:
		return c.tma
	case 0xFF07:
		return c.tac | 0xF8
	}
	panic("timer: illegal read")
}

// Write stores value to a timer register.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		// Any write resets the whole 16-bit counter. If the selected
		// bit was set at the moment of reset, that's a falling edge:
		// a spurious TIMA increment fires (spec.md §8 boundary case).
		if c.enabled() && c.selectedBitSet() {
			c.incrementTIMA()
		}
		c.counter = 0
	case 0xFF05:
		// Writing TIMA during the 4-cycle reload window cancels the
		// pending reload; otherwise it just sets TIMA directly.
		if c.reloadCycles > 0 {
			c.reloadCycles = 0
		}
		c.tima = value
	case 0xFF06:
		c.tma = value
		// Writing TMA during the reload window updates the value that
		// is about to be copied into TIMA as well.
		if c.reloadCycles > 0 {
			c.tima = value
		}
	case 0xFF07:
		prevSelected := c.enabled() && c.selectedBitSet()
		c.tac = value & 0x07
		// disabling the timer while the selected bit is high is itself
		// a falling edge.
		if prevSelected && !c.enabled() {
			c.incrementTIMA()
		}
	default:
		panic("timer: illegal write")
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write16(c.counter)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.Write8(c.reloadCycles)
}

func (c *Controller) Load(s *types.State) {
	c.counter = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.reloadCycles = s.Read8()
}
