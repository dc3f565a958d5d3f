package cpu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// readR8 reads one of the eight 3-bit-encoded 8-bit operands: B,C,D,E,H,L
// then (HL) then A. Index 6 costs a bus read; the rest are free.
func (c *CPU) readR8(idx byte) uint8 {
	switch idx & 0x7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.readByte(c.HL.get())
	default:
		return c.A
	}
}

func (c *CPU) writeR8(idx byte, v uint8) {
	switch idx & 0x7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.writeByte(c.HL.get(), v)
	default:
		c.A = v
	}
}

// rr16 returns BC/DE/HL/SP selected by instr bits 4-5, for LD rr,nn /
// INC rr / DEC rr / ADD HL,rr.
func (c *CPU) rr16(instr byte) uint16 {
	switch instr >> 4 & 0x3 {
	case 0:
		return c.BC.get()
	case 1:
		return c.DE.get()
	case 2:
		return c.HL.get()
	default:
		return c.SP
	}
}

func (c *CPU) setRR16(instr byte, v uint16) {
	switch instr >> 4 & 0x3 {
	case 0:
		c.BC.set(v)
	case 1:
		c.DE.set(v)
	case 2:
		c.HL.set(v)
	default:
		c.SP = v
	}
}

// qq16 returns BC/DE/HL/AF selected by instr bits 4-5, for PUSH/POP.
func (c *CPU) qq16(instr byte) *registerPair {
	switch instr >> 4 & 0x3 {
	case 0:
		return c.BC
	case 1:
		return c.DE
	case 2:
		return c.HL
	default:
		return c.AF
	}
}

// indirectAddress resolves the (BC)/(DE)/(HL+)/(HL-) operand used by the
// 0x02/0x0A/0x12/0x1A/0x22/0x2A/0x32/0x3A block, applying the HL
// post-increment/decrement as a side effect when applicable.
func (c *CPU) indirectAddress(instr byte) uint16 {
	switch instr >> 4 & 0x3 {
	case 0:
		return c.BC.get()
	case 1:
		return c.DE.get()
	default:
		addr := c.HL.get()
		if instr>>4&0x1 == 0 {
			c.HL.set(addr + 1)
		} else {
			c.HL.set(addr - 1)
		}
		return addr
	}
}

// execute dispatches one already-fetched, non-CB, non-invalid opcode.
func (c *CPU) execute(instr byte) {
	switch instr {
	case 0x00: // NOP
	case 0x08: // LD (a16),SP
		lo := c.fetch()
		hi := c.fetch()
		addr := uint16(hi)<<8 | uint16(lo)
		c.writeByte(addr, uint8(c.SP))
		c.writeByte(addr+1, uint8(c.SP>>8))
	case 0x10: // STOP
		c.executeStop()
	case 0x76: // HALT
		c.executeHalt()
	case 0xC3: // JP a16
		c.jumpAbsolute(true)
	case 0xC9: // RET
		c.PC = c.pop16()
		c.internalDelay()
	case 0xCD: // CALL a16
		c.call(true)
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.internalDelay()
		c.irq.IME = true
	case 0xE0: // LDH (a8),A
		addr := 0xFF00 + uint16(c.fetch())
		c.writeByte(addr, c.A)
	case 0xE2: // LD (C),A
		c.writeByte(0xFF00+uint16(c.C), c.A)
	case 0xE8: // ADD SP,e8
		result := c.spPlusOperand()
		c.internalDelay()
		c.internalDelay()
		c.SP = result
	case 0xE9: // JP HL
		c.PC = c.HL.get()
	case 0xEA: // LD (a16),A
		lo := c.fetch()
		hi := c.fetch()
		c.writeByte(uint16(hi)<<8|uint16(lo), c.A)
	case 0xF0: // LDH A,(a8)
		addr := 0xFF00 + uint16(c.fetch())
		c.A = c.readByte(addr)
	case 0xF2: // LD A,(C)
		c.A = c.readByte(0xFF00 + uint16(c.C))
	case 0xF3: // DI
		c.irq.IME = false
	case 0xF8: // LD HL,SP+e8
		result := c.spPlusOperand()
		c.internalDelay()
		c.HL.set(result)
	case 0xF9: // LD SP,HL
		c.SP = c.HL.get()
		c.internalDelay()
	case 0xFA: // LD A,(a16)
		lo := c.fetch()
		hi := c.fetch()
		c.A = c.readByte(uint16(hi)<<8 | uint16(lo))
	case 0xFB: // EI
		c.mode = modeEnableIME
	default:
		c.executeGeneric(instr)
	}
}

func (c *CPU) executeStop() {
	c.fetch() // STOP is formally a 2-byte opcode; the second byte is ignored
	if c.speedSwitchArmed {
		c.SetDoubleSpeed(!c.doubleSpeed)
		c.speedSwitchArmed = false
		c.DIVResetRequested = true
		return
	}
	c.mode = modeStop
}

func (c *CPU) executeHalt() {
	if c.irq.IME {
		c.mode = modeHalt
		return
	}
	if c.irq.HasPending() {
		c.mode = modeHaltBug
		return
	}
	c.mode = modeHaltDI
}

func (c *CPU) executeGeneric(instr byte) {
	switch instr >> 6 & 0x3 {
	case 0:
		c.executeBlock0(instr)
	case 1: // 0x40-0x7F: LD r,r'
		v := c.readR8(instr)
		c.writeR8(instr>>3, v)
	case 2: // 0x80-0xBF: ALU A,r
		c.decodeALU(instr, c.readR8(instr))
	case 3:
		c.executeBlock3(instr)
	}
}

func (c *CPU) executeBlock0(instr byte) {
	switch instr & 0x7 {
	case 0: // JR e8 / JR cc,e8 (0x00/0x08/0x10 are dispatched before reaching here)
		if instr == 0x18 {
			c.jumpRelative(true)
		} else {
			c.jumpRelative(c.condition(instr))
		}
	case 1:
		if instr>>3&0x1 == 1 { // ADD HL,rr
			c.addHL(c.rr16(instr))
		} else { // LD rr,d16
			lo := c.fetch()
			hi := c.fetch()
			c.setRR16(instr, uint16(hi)<<8|uint16(lo))
		}
	case 2:
		addr := c.indirectAddress(instr)
		if instr>>3&0x1 == 1 { // LD A,(rr)
			c.A = c.readByte(addr)
		} else { // LD (rr),A
			c.writeByte(addr, c.A)
		}
	case 3: // INC/DEC rr
		v := c.rr16(instr)
		if instr>>3&0x1 == 1 {
			v--
		} else {
			v++
		}
		c.setRR16(instr, v)
		c.internalDelay()
	case 4, 5: // INC/DEC r
		idx := instr >> 3
		v := c.readR8(idx)
		var result uint8
		var half bool
		if instr&0x1 == 1 {
			result = v - 1
			half = v&0x0F == 0x00
		} else {
			result = v + 1
			half = v&0x0F == 0x0F
		}
		c.setFlag(types.FlagZero, result == 0)
		c.setFlag(types.FlagSubtract, instr&0x1 == 1)
		c.setFlag(types.FlagHalfCarry, half)
		c.writeR8(idx, result)
	case 6: // LD r,d8
		c.writeR8(instr>>3, c.fetch())
	case 7:
		c.executeBlock0Col7(instr)
	}
}

func (c *CPU) executeBlock0Col7(instr byte) {
	switch instr >> 3 & 0x7 {
	case 0: // RLCA
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | c.A>>7
		c.setFlags(false, false, false, carry)
	case 1: // RRCA
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | c.A<<7
		c.setFlags(false, false, false, carry)
	case 2: // RLA
		carry := c.A&0x80 != 0
		var in uint8
		if c.flag(types.FlagCarry) {
			in = 1
		}
		c.A = c.A<<1 | in
		c.setFlags(false, false, false, carry)
	case 3: // RRA
		carry := c.A&0x01 != 0
		var in uint8
		if c.flag(types.FlagCarry) {
			in = 0x80
		}
		c.A = c.A>>1 | in
		c.setFlags(false, false, false, carry)
	case 4: // DAA
		c.daa()
	case 5: // CPL
		c.A = ^c.A
		c.setFlag(types.FlagSubtract, true)
		c.setFlag(types.FlagHalfCarry, true)
	case 6: // SCF
		c.setFlag(types.FlagSubtract, false)
		c.setFlag(types.FlagHalfCarry, false)
		c.setFlag(types.FlagCarry, true)
	case 7: // CCF
		c.setFlag(types.FlagSubtract, false)
		c.setFlag(types.FlagHalfCarry, false)
		c.setFlag(types.FlagCarry, !c.flag(types.FlagCarry))
	}
}

func (c *CPU) executeBlock3(instr byte) {
	switch instr & 0x7 {
	case 0: // RET cc
		c.internalDelay()
		if c.condition(instr) {
			c.PC = c.pop16()
			c.internalDelay()
		}
	case 1: // POP rr
		p := c.qq16(instr)
		p.set(c.pop16())
		if p == c.AF {
			c.F &= 0xF0
		}
	case 2: // JP cc,a16
		c.jumpAbsolute(c.condition(instr))
	case 3: // only 0xC3 (handled above); unreachable
	case 4: // CALL cc,a16
		c.call(c.condition(instr))
	case 5: // PUSH rr
		c.internalDelay()
		c.push16(c.qq16(instr).get())
	case 6: // ALU A,d8
		c.decodeALU(instr, c.fetch())
	case 7: // RST n
		c.internalDelay()
		c.push16(c.PC)
		c.PC = uint16(instr>>3&0x7) * 8
	}
}

// executeCB dispatches an already-fetched CB-prefixed opcode.
func (c *CPU) executeCB(instr byte) {
	idx := instr & 0x7
	v := c.readR8(idx)

	switch instr >> 6 & 0x3 {
	case 0: // rotate/shift/swap
		result, carry := c.shift(instr>>3&0x7, v)
		c.writeR8(idx, result)
		if instr>>3&0x7 == 6 { // SWAP clears carry unconditionally
			c.setFlags(result == 0, false, false, false)
		} else {
			c.setFlags(result == 0, false, false, carry)
		}
	case 1: // BIT b,r
		bit := instr >> 3 & 0x7
		c.setFlag(types.FlagZero, v&(1<<bit) == 0)
		c.setFlag(types.FlagSubtract, false)
		c.setFlag(types.FlagHalfCarry, true)
	case 2: // RES b,r
		bit := instr >> 3 & 0x7
		c.writeR8(idx, v&^(1<<bit))
	case 3: // SET b,r
		bit := instr >> 3 & 0x7
		c.writeR8(idx, v|1<<bit)
	}
}

// shift performs one of the eight RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL
// operations, returning the result and the carry-out bit.
func (c *CPU) shift(op byte, v uint8) (result uint8, carry bool) {
	switch op {
	case 0: // RLC
		carry = v&0x80 != 0
		result = v<<1 | v>>7
	case 1: // RRC
		carry = v&0x01 != 0
		result = v>>1 | v<<7
	case 2: // RL
		carry = v&0x80 != 0
		var in uint8
		if c.flag(types.FlagCarry) {
			in = 1
		}
		result = v<<1 | in
	case 3: // RR
		carry = v&0x01 != 0
		var in uint8
		if c.flag(types.FlagCarry) {
			in = 0x80
		}
		result = v>>1 | in
	case 4: // SLA
		carry = v&0x80 != 0
		result = v << 1
	case 5: // SRA
		carry = v&0x01 != 0
		result = v&0x80 | v>>1
	case 6: // SWAP
		result = v<<4 | v>>4
	case 7: // SRL
		carry = v&0x01 != 0
		result = v >> 1
	}
	return
}
