package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

// fakeBus is a flat 64 KiB byte array satisfying the cpu.Bus interface,
// standing in for the MMU in isolated CPU tests.
type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) Read(address uint16) uint8 { return b.mem[address] }
func (b *fakeBus) Write(address uint16, v uint8) { b.mem[address] = v }

func (b *fakeBus) loadAt(addr uint16, program ...byte) {
	copy(b.mem[addr:], program)
}

func newTestCPU(program ...byte) (*CPU, *fakeBus) {
	bus := &fakeBus{}
	bus.loadAt(0x0100, program...)
	irq := interrupts.NewService()
	c := New(bus, irq)
	c.Reset(false)
	c.PC = 0x0100
	return c, bus
}

// scenario 1: instruction cycle accounting.
func TestStepCycleAccounting(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0x42, 0x06, 0x10, 0x80, 0x00)

	var total uint32
	for i := 0; i < 4; i++ {
		total += c.Step()
	}

	assert.Equal(t, uint8(0x52), c.A)
	assert.Equal(t, uint8(0x10), c.B)
	assert.False(t, c.flag(types.FlagZero))
	assert.False(t, c.flag(types.FlagSubtract))
	assert.False(t, c.flag(types.FlagHalfCarry))
	assert.False(t, c.flag(types.FlagCarry))
	assert.Equal(t, uint16(0x0105), c.PC)
	assert.Equal(t, uint32(24), total)
}

// scenario 2: EI delay - IME never observed as 1 across EI;DI;NOP.
func TestEIDelay(t *testing.T) {
	c, _ := newTestCPU(0xFB, 0xF3, 0x00)
	c.irq.Enable = 0x1F
	c.irq.Flag = 0x1F

	c.Step() // EI: ime_pending armed, IME still false
	assert.False(t, c.irq.IME)

	c.Step() // DI executes with IME becoming true then immediately false again
	assert.False(t, c.irq.IME)

	c.Step() // NOP
	assert.False(t, c.irq.IME)
}

// scenario 3: the halt bug causes the instruction after HALT to execute
// twice because PC fails to increment on its first fetch.
func TestHaltBug(t *testing.T) {
	c, _ := newTestCPU(0x76, 0x3C, 0x3C) // HALT; INC A; INC A
	c.irq.IME = false
	c.irq.Flag = 0x01
	c.irq.Enable = 0x01
	c.A = 0

	for i := 0; i < 3; i++ {
		c.Step()
	}

	assert.Equal(t, uint8(2), c.A)
	assert.False(t, c.irq.IME)
}

// LD r,r is a pure identity with no flag changes, bit-exact for every
// starting value of every register, per spec.md §8's round-trip law.
func TestLDRRIdentity(t *testing.T) {
	for _, idx := range []byte{0, 1, 2, 3, 4, 5, 7} { // B,C,D,E,H,L,A ((HL) excluded: it is memory, not a register)
		for v := 0; v < 256; v++ {
			c, _ := newTestCPU()
			c.writeR8(idx, uint8(v))
			beforeF := c.F
			opcode := 0x40 | idx<<3 | idx
			c.execute(opcode)
			assert.Equal(t, uint8(v), c.readR8(idx))
			assert.Equal(t, beforeF, c.F)
		}
	}
}

// PUSH AF followed by POP AF masks the low nibble of F to zero.
func TestPushPopAFMasksLowNibble(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x12
	c.F = 0xFF // low nibble would be garbage on real hardware too
	c.SP = 0xFFFE

	c.execute(0xF5) // PUSH AF
	c.AF.set(0)
	c.execute(0xF1) // POP AF

	assert.Equal(t, uint8(0x12), c.A)
	assert.Equal(t, uint8(0), c.F&0x0F)
}

// Half-carry boundary case for ADD A,n.
func TestAddHalfCarryBoundary(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x0F
	c.addA(0x01, false)
	assert.True(t, c.flag(types.FlagHalfCarry))

	c, _ = newTestCPU()
	c.A = 0x0E
	c.addA(0x01, false)
	assert.False(t, c.flag(types.FlagHalfCarry))
}

// CP sets N=1 and the same H/C as SUB, without writing A.
func TestCPDoesNotWriteA(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x10
	c.cpA(0x20)
	assert.Equal(t, uint8(0x10), c.A)
	assert.True(t, c.flag(types.FlagSubtract))
	assert.True(t, c.flag(types.FlagCarry))
}

// The interrupt acknowledge sequence costs exactly 20 T-cycles: two
// internal delays, two PC-byte pushes, and the internal cycle that loads
// the vector into PC.
func TestExecuteInterruptCosts20Cycles(t *testing.T) {
	c, _ := newTestCPU()
	c.irq.IME = true
	c.irq.Enable = 0x01
	c.irq.Flag = 0x01
	c.SP = 0xFFFE
	c.PC = 0x1234

	c.cycles = 0
	c.executeInterrupt()

	assert.Equal(t, uint32(20), c.cycles)
	assert.Equal(t, uint16(0x0040), c.PC)
	assert.False(t, c.irq.IME)
}

// Invalid opcodes lock the CPU in a repeatable failure state.
func TestInvalidOpcodeLocksCPU(t *testing.T) {
	c, _ := newTestCPU(0xD3)
	n := c.Step()
	assert.True(t, c.Locked)
	assert.Equal(t, uint32(0), n)

	n = c.Step()
	assert.Equal(t, uint32(0), n)
	assert.True(t, c.Locked)
}

// DAA after a BCD addition produces the correctly adjusted decimal result.
func TestDAAAfterAdd(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x45
	c.addA(0x38, false) // binary 0x7D
	c.daa()
	assert.Equal(t, uint8(0x83), c.A) // 45 + 38 = 83 in BCD
	assert.False(t, c.flag(types.FlagCarry))
}

func TestFLowNibbleAlwaysZero(t *testing.T) {
	c, _ := newTestCPU()
	for v := 0; v < 256; v++ {
		c.setF(uint8(v))
		require.Zero(t, c.F&0x0F)
	}
}
