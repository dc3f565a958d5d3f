package cpu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// subCompute performs an 8-bit subtraction (A - operand - borrowIn) and
// returns the result together with the half-carry and carry flags the
// operation produces, without touching A or F. Shared by SUB/SBC/CP.
func (c *CPU) subCompute(operand, borrowIn uint8) (result uint8, half, carry bool) {
	diff := int16(c.A) - int16(operand) - int16(borrowIn)
	half = int16(c.A&0x0F)-int16(operand&0x0F)-int16(borrowIn) < 0
	carry = diff < 0
	result = uint8(diff)
	return
}

func (c *CPU) addA(operand uint8, withCarry bool) {
	var carryIn uint8
	if withCarry && c.flag(types.FlagCarry) {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(operand) + uint16(carryIn)
	half := (c.A&0x0F)+(operand&0x0F)+carryIn > 0x0F
	result := uint8(sum)
	c.setFlags(result == 0, false, half, sum > 0xFF)
	c.A = result
}

func (c *CPU) subA(operand uint8, withCarry bool) {
	var borrowIn uint8
	if withCarry && c.flag(types.FlagCarry) {
		borrowIn = 1
	}
	result, half, carry := c.subCompute(operand, borrowIn)
	c.setFlags(result == 0, true, half, carry)
	c.A = result
}

func (c *CPU) cpA(operand uint8) {
	result, half, carry := c.subCompute(operand, 0)
	c.setFlags(result == 0, true, half, carry)
}

// decodeALU dispatches the eight ALU operations shared by the 0x80-0xBF
// register block and the 0xC6/0xCE/.../0xFE immediate block.
func (c *CPU) decodeALU(instr, operand byte) {
	switch instr >> 3 & 0x7 {
	case 0: // ADD
		c.addA(operand, false)
	case 1: // ADC
		c.addA(operand, true)
	case 2: // SUB
		c.subA(operand, false)
	case 3: // SBC
		c.subA(operand, true)
	case 4: // AND
		c.A &= operand
		c.setFlags(c.A == 0, false, true, false)
	case 5: // XOR
		c.A ^= operand
		c.setFlags(c.A == 0, false, false, false)
	case 6: // OR
		c.A |= operand
		c.setFlags(c.A == 0, false, false, false)
	case 7: // CP
		c.cpA(operand)
	}
}

// addHL adds rr to HL, leaving Z untouched and setting N=0, H/C from the
// 12-bit half-carry boundary, then accounts the extra internal M-cycle
// real hardware spends on the 16-bit add.
func (c *CPU) addHL(rr uint16) {
	hl := c.HL.get()
	sum := uint32(hl) + uint32(rr)
	half := (hl&0x0FFF)+(rr&0x0FFF) > 0x0FFF
	c.setFlags(c.flag(types.FlagZero), false, half, sum > 0xFFFF)
	c.HL.set(uint16(sum))
	c.internalDelay()
}

// spPlusOperand reads the signed displacement operand and returns
// SP+e8, along with setting Z=N=0 and H/C computed (per documented
// hardware behavior) from an unsigned 8-bit add of the low byte of SP
// and the raw operand byte. Shared by ADD SP,e8 and LD HL,SP+e8.
func (c *CPU) spPlusOperand() uint16 {
	e := c.fetch()
	se := int8(e)
	half := (c.SP&0x0F)+(uint16(e)&0x0F) > 0x0F
	carry := (c.SP&0xFF)+uint16(e) > 0xFF
	c.setFlags(false, false, half, carry)
	return uint16(int32(c.SP) + int32(se))
}

// daa applies the standard BCD correction to A after an 8-bit add or
// subtract, per the documented N/H/C-driven table.
func (c *CPU) daa() {
	if !c.flag(types.FlagSubtract) {
		if c.flag(types.FlagCarry) || c.A > 0x99 {
			c.A += 0x60
			c.setFlag(types.FlagCarry, true)
		}
		if c.flag(types.FlagHalfCarry) || c.A&0x0F > 0x09 {
			c.A += 0x06
		}
	} else {
		if c.flag(types.FlagCarry) {
			c.A -= 0x60
		}
		if c.flag(types.FlagHalfCarry) {
			c.A -= 0x06
		}
	}
	c.setFlag(types.FlagZero, c.A == 0)
	c.setFlag(types.FlagHalfCarry, false)
}
