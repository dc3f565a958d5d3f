// Package cpu implements the LR35902 instruction set: fetch-decode-execute
// with exact T-cycle accounting, interrupt acknowledge, HALT/STOP, the
// EI-delay, and the halt-bug quirk.
package cpu

import (
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

// Bus is the narrow memory surface the CPU depends on; the orchestrator
// supplies an *mmu.MMU that satisfies it. The CPU never reads memory any
// other way.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

type mode uint8

const (
	modeNormal mode = iota
	modeHalt
	modeStop
	modeHaltBug
	modeHaltDI
	modeEnableIME
)

// CPU is the LR35902 core. Step advances exactly one instruction (or
// services one pending interrupt) and returns the T-cycles it consumed;
// the orchestrator is responsible for ticking every other subsystem by
// that same delta.
type CPU struct {
	registers

	bus Bus
	irq *interrupts.Service

	mode mode

	doubleSpeed      bool
	speedSwitchArmed bool

	// DIVResetRequested is set when STOP actually performs a CGB speed
	// switch; the orchestrator must reset the timer's internal counter
	// in response and clear the flag.
	DIVResetRequested bool

	// Debug, when true, arms DebugBreakpoint whenever "LD B,B" executes;
	// used by blargg-style test ROMs as a harness synchronization point.
	Debug           bool
	DebugBreakpoint bool

	// Locked latches the documented-invalid-opcode lockup. Once set,
	// Step becomes a no-op returning 0.
	Locked bool

	cycles uint32
}

// New constructs a CPU wired to bus for memory access and irq for
// interrupt latches. Registers are left zeroed; the orchestrator calls
// Reset to synthesize the documented post-boot state. bus may be nil if
// the MMU it will talk to needs this CPU as a constructor dependency
// first (spec.md's cyclic-reference wiring) — SetBus finishes the wiring
// before the first Step.
func New(bus Bus, irq *interrupts.Service) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.registers = *newRegisters()
	return c
}

// SetBus completes two-phase construction when bus and the CPU's owner
// depend on each other.
func (c *CPU) SetBus(bus Bus) { c.bus = bus }

// Reset sets the register file to the documented post-boot values for
// the given model. cgb selects the CGB variant of A.
func (c *CPU) Reset(cgb bool) {
	c.A = 0x01
	if cgb {
		c.A = 0x11
	}
	c.setF(0xB0)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.mode = modeNormal
	c.doubleSpeed = false
	c.Locked = false
	c.DebugBreakpoint = false
}

// SetDoubleSpeed is called by STOP handling on CGB when KEY1 bit 0 is
// armed.
func (c *CPU) SetDoubleSpeed(v bool) { c.doubleSpeed = v }
func (c *CPU) DoubleSpeed() bool     { return c.doubleSpeed }

// SetSpeedSwitchArmed is called by the MMU when the CGB KEY1 register's
// bit 0 (prepare speed switch) is written.
func (c *CPU) SetSpeedSwitchArmed(v bool) { c.speedSwitchArmed = v }

// SpeedSwitchArmed reports whether KEY1 bit 0 is currently armed; used
// by the MMU to compose KEY1 reads.
func (c *CPU) SpeedSwitchArmed() bool { return c.speedSwitchArmed }

func (c *CPU) hasPendingInterrupt() bool {
	return c.irq.HasPending()
}

// Step executes one unit of CPU work and returns the T-cycles consumed.
func (c *CPU) Step() uint32 {
	if c.Locked {
		return 0
	}
	c.cycles = 0

	switch c.mode {
	case modeNormal:
		c.runInstruction(c.fetch())
		if c.irq.IME && c.hasPendingInterrupt() {
			c.executeInterrupt()
		}
	case modeHalt, modeStop:
		c.tick(4)
		if c.hasPendingInterrupt() {
			c.mode = modeNormal
			if c.irq.IME {
				c.executeInterrupt()
			}
		}
	case modeHaltDI:
		c.tick(4)
		if c.hasPendingInterrupt() {
			c.mode = modeNormal
		}
	case modeEnableIME:
		c.irq.IME = true
		c.mode = modeNormal
		c.runInstruction(c.fetch())
		if c.irq.IME && c.hasPendingInterrupt() {
			c.executeInterrupt()
		}
	case modeHaltBug:
		opcode := c.fetch()
		c.PC--
		c.mode = modeNormal
		c.runInstruction(opcode)
		if c.irq.IME && c.hasPendingInterrupt() {
			c.executeInterrupt()
		}
	}

	return c.cycles
}

// tick accounts T-cycles spent by the current Step without performing
// any bus access of its own; bus accesses already account their own
// 4-T-cycle cost via readByte/writeByte/fetch.
func (c *CPU) tick(t uint32) {
	c.cycles += t
}

func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	c.tick(4)
	return v
}

func (c *CPU) readByte(address uint16) uint8 {
	v := c.bus.Read(address)
	c.tick(4)
	return v
}

func (c *CPU) writeByte(address uint16, value uint8) {
	c.bus.Write(address, value)
	c.tick(4)
}

func (c *CPU) internalDelay() {
	c.tick(4)
}

func (c *CPU) runInstruction(opcode uint8) {
	if opcode == 0xCB {
		cb := c.fetch()
		c.executeCB(cb)
		return
	}
	if isInvalidOpcode(opcode) {
		c.Locked = true
		c.cycles = 0
		return
	}
	c.execute(opcode)

	if c.Debug && opcode == 0x40 { // LD B,B
		c.DebugBreakpoint = true
	}
}

func isInvalidOpcode(opcode uint8) bool {
	switch opcode {
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		return true
	}
	return false
}

// executeInterrupt performs the 20-T-cycle acknowledge sequence: push PC,
// clear IME and the serviced IF bit, jump to the fixed vector.
func (c *CPU) executeInterrupt() {
	flag, ok := c.irq.NextFlag()
	if !ok {
		return
	}

	c.internalDelay()
	c.internalDelay()

	c.SP--
	c.writeByte(c.SP, uint8(c.PC>>8))
	c.SP--
	c.writeByte(c.SP, uint8(c.PC))

	c.irq.Clear(flag)
	c.irq.IME = false
	c.PC = interrupts.Vector(flag)
	c.internalDelay()

	if c.mode == modeStop {
		c.mode = modeNormal
	}
}

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Save(s *types.State) {
	c.registers.save(s)
	s.Write8(uint8(c.mode))
	s.WriteBool(c.doubleSpeed)
	s.WriteBool(c.speedSwitchArmed)
	s.WriteBool(c.Locked)
}

func (c *CPU) Load(s *types.State) {
	c.registers.load(s)
	c.mode = mode(s.Read8())
	c.doubleSpeed = s.ReadBool()
	c.speedSwitchArmed = s.ReadBool()
	c.Locked = s.ReadBool()
}
