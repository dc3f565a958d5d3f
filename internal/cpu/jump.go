package cpu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// condition evaluates one of the four branch conditions encoded in bits
// 3-4 of a JP/JR/CALL/RET opcode: NZ, Z, NC, C.
func (c *CPU) condition(instr byte) bool {
	var f bool
	switch instr >> 4 & 0x1 {
	case 0:
		f = c.flag(types.FlagZero)
	case 1:
		f = c.flag(types.FlagCarry)
	}
	if instr>>3&0x1 == 0 {
		return !f
	}
	return f
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.writeByte(c.SP, uint8(v>>8))
	c.SP--
	c.writeByte(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.readByte(c.SP)
	c.SP++
	hi := c.readByte(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// jumpAbsolute reads the 16-bit target unconditionally (the operand
// bytes are always fetched, taken or not) and moves PC to it only if
// take is true, charging the extra internal M-cycle for the branch.
func (c *CPU) jumpAbsolute(take bool) {
	lo := c.fetch()
	hi := c.fetch()
	addr := uint16(hi)<<8 | uint16(lo)
	if take {
		c.PC = addr
		c.internalDelay()
	}
}

func (c *CPU) jumpRelative(take bool) {
	e := int8(c.fetch())
	if take {
		c.PC = uint16(int32(c.PC) + int32(e))
		c.internalDelay()
	}
}

func (c *CPU) call(take bool) {
	lo := c.fetch()
	hi := c.fetch()
	addr := uint16(hi)<<8 | uint16(lo)
	if take {
		c.internalDelay()
		c.push16(c.PC)
		c.PC = addr
	}
}
