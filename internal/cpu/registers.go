package cpu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// register is an 8-bit CPU cell.
type register = uint8

// registerPair aliases two 8-bit cells as a single 16-bit value, high byte
// first, so that writes through either the pair or the individual
// register are always visible to the other.
type registerPair struct {
	high *register
	low  *register
}

func (p *registerPair) get() uint16 {
	return uint16(*p.high)<<8 | uint16(*p.low)
}

func (p *registerPair) set(v uint16) {
	*p.high = uint8(v >> 8)
	*p.low = uint8(v)
}

// registers holds the LR35902's eight 8-bit cells and the four virtual
// 16-bit pairs aliased over them. F's low nibble is architecturally
// always zero; every instruction path that writes F (setF, setFlag,
// setFlags, POP AF) masks or builds only the upper nibble.
type registers struct {
	A, B, C, D, E, H, L, F register

	AF, BC, DE, HL *registerPair

	SP, PC uint16
}

func newRegisters() *registers {
	r := &registers{}
	r.AF = &registerPair{high: &r.A, low: &r.F}
	r.BC = &registerPair{high: &r.B, low: &r.C}
	r.DE = &registerPair{high: &r.D, low: &r.E}
	r.HL = &registerPair{high: &r.H, low: &r.L}
	return r
}

func (r *registers) setF(v uint8) {
	r.F = v & 0xF0
}

func (r *registers) flag(f types.Flag) bool {
	return r.F&uint8(f) != 0
}

func (r *registers) setFlag(f types.Flag, v bool) {
	if v {
		r.F |= uint8(f)
	} else {
		r.F &^= uint8(f)
	}
	r.F &= 0xF0
}

func (r *registers) setFlags(z, n, h, c bool) {
	var f uint8
	if z {
		f |= uint8(types.FlagZero)
	}
	if n {
		f |= uint8(types.FlagSubtract)
	}
	if h {
		f |= uint8(types.FlagHalfCarry)
	}
	if c {
		f |= uint8(types.FlagCarry)
	}
	r.F = f
}

func (r *registers) save(s *types.State) {
	s.Write8(r.A)
	s.Write8(r.F)
	s.Write8(r.B)
	s.Write8(r.C)
	s.Write8(r.D)
	s.Write8(r.E)
	s.Write8(r.H)
	s.Write8(r.L)
	s.Write16(r.SP)
	s.Write16(r.PC)
}

func (r *registers) load(s *types.State) {
	r.A = s.Read8()
	r.setF(s.Read8())
	r.B = s.Read8()
	r.C = s.Read8()
	r.D = s.Read8()
	r.E = s.Read8()
	r.H = s.Read8()
	r.L = s.Read8()
	r.SP = s.Read16()
	r.PC = s.Read16()
}
