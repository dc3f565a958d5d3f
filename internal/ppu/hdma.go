package ppu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// HDMA implements the CGB VRAM DMA controller (HDMA1-5): a general-
// purpose block copy that halts the CPU for its duration, or an
// HBlank-paced transfer that copies 16 bytes per HBlank entry.
type HDMA struct {
	bus DMABus
	ppu *PPU

	srcHi, srcLo uint8
	dstHi, dstLo uint8
	src, dst     uint16
	length       uint16 // remaining bytes
	hblank       bool
	active       bool
}

func newHDMA(bus DMABus, p *PPU) *HDMA {
	return &HDMA{bus: bus, ppu: p}
}

// Active reports whether a general-purpose transfer is mid-flight.
// WriteControl runs such a transfer to completion before it returns, and
// the MMU does not call this.
func (h *HDMA) Active() bool { return h.active && !h.hblank }

func (h *HDMA) WriteSourceHigh(v uint8) { h.srcHi = v }
func (h *HDMA) WriteSourceLow(v uint8)  { h.srcLo = v }
func (h *HDMA) WriteDestHigh(v uint8)   { h.dstHi = v }
func (h *HDMA) WriteDestLow(v uint8)    { h.dstLo = v }

// WriteControl handles a write to HDMA5. Bit 7 selects HBlank-paced
// mode; bits 0-6 encode (length/16)-1. Writing bit 7 clear while an
// HBlank transfer is active cancels it instead of starting a new one.
func (h *HDMA) WriteControl(value uint8) {
	if h.hblank && value&0x80 == 0 {
		h.hblank = false
		h.active = false
		return
	}
	h.src = uint16(h.srcHi)<<8 | uint16(h.srcLo&0xF0)
	h.dst = 0x8000 | uint16(h.dstHi&0x1F)<<8 | uint16(h.dstLo&0xF0)
	h.length = (uint16(value&0x7F) + 1) * 16
	if value&0x80 != 0 {
		h.hblank = true
		h.active = true
		return
	}
	h.active = true
	h.runGeneral()
}

// ReadControl reports remaining length and completion, per HDMA5's
// documented read-back format: bit 7 clear while a transfer is active,
// and 0xFF once it has finished or when none was started.
func (h *HDMA) ReadControl() uint8 {
	if !h.active {
		return 0xFF
	}
	return uint8(h.length/16-1) & 0x7F
}

func (h *HDMA) runGeneral() {
	for h.length > 0 {
		h.copyBlock(16)
	}
	h.active = false
}

// NotifyHBlank is called by the PPU on every HBlank entry; an active
// HBlank-paced transfer copies one 16-byte block.
func (h *HDMA) NotifyHBlank() {
	if !h.hblank || !h.active {
		return
	}
	h.copyBlock(16)
	if h.length == 0 {
		h.hblank = false
		h.active = false
	}
}

func (h *HDMA) copyBlock(n uint16) {
	for i := uint16(0); i < n && h.length > 0; i++ {
		h.ppu.VRAMWrite(h.dst, h.bus.Read(h.src))
		h.src++
		h.dst++
		if h.dst >= 0xA000 {
			h.dst = 0x8000
		}
		h.length--
	}
}

var _ types.Stater = (*HDMA)(nil)

func (h *HDMA) Save(s *types.State) {
	s.Write8(h.srcHi)
	s.Write8(h.srcLo)
	s.Write8(h.dstHi)
	s.Write8(h.dstLo)
	s.Write16(h.src)
	s.Write16(h.dst)
	s.Write16(h.length)
	s.WriteBool(h.hblank)
	s.WriteBool(h.active)
}

func (h *HDMA) Load(s *types.State) {
	h.srcHi = s.Read8()
	h.srcLo = s.Read8()
	h.dstHi = s.Read8()
	h.dstLo = s.Read8()
	h.src = s.Read16()
	h.dst = s.Read16()
	h.length = s.Read16()
	h.hblank = s.ReadBool()
	h.active = s.ReadBool()
}
