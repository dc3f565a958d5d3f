package ppu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// DMABus is the general memory surface OAM DMA reads its source bytes
// from; the MMU satisfies it directly (DMA can source from ROM, VRAM,
// WRAM, or HRAM, but never OAM itself).
type DMABus interface {
	Read(address uint16) uint8
}

// DMA implements OAM DMA (FF46): a 160-byte block copy from
// (value<<8)+offset into OAM, taking 160 machine cycles during which the
// MMU blocks all reads outside HRAM.
type DMA struct {
	bus DMABus
	oam *oam

	source  uint16
	value   uint8
	timer   uint16 // T-cycles since the triggering write
	running bool
}

func newDMA(bus DMABus, o *oam) *DMA {
	return &DMA{bus: bus, oam: o}
}

// Active reports whether a transfer is in flight; the MMU consults this
// to decide whether non-HRAM reads should return 0xFF.
func (d *DMA) Active() bool {
	return d.running
}

func (d *DMA) Read() uint8 { return d.value }

func (d *DMA) Write(value uint8) {
	d.value = value
	d.source = uint16(value) << 8
	d.timer = 0
	d.running = true
}

// Tick advances the DMA state machine by one T-cycle. The first machine
// cycle is pure startup latency; each following machine cycle copies one
// byte.
func (d *DMA) Tick() {
	if !d.running {
		return
	}
	d.timer++
	if d.timer <= 4 {
		return
	}
	offset := (d.timer - 4 - 1) >> 2
	src := d.source + offset
	if src >= 0xFE00 {
		src -= 0x2000
	}
	// The MMU returns 0xFF below HRAM while a transfer is active; the
	// transfer's own source read must not see that block.
	d.running = false
	v := d.bus.Read(src)
	d.running = true
	d.oam.Write(0xFE00+offset, v)

	if d.timer >= 4+160*4 {
		d.running = false
	}
}

var _ types.Stater = (*DMA)(nil)

func (d *DMA) Save(s *types.State) {
	s.Write16(d.source)
	s.Write8(d.value)
	s.Write16(d.timer)
	s.WriteBool(d.running)
}

func (d *DMA) Load(s *types.State) {
	d.source = s.Read16()
	d.value = s.Read8()
	d.timer = s.Read16()
	d.running = s.ReadBool()
}
