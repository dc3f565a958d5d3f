package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caprini/ViboyColor-sub001/internal/cartridge"
	"github.com/Caprini/ViboyColor-sub001/internal/cpu"
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/joypad"
	"github.com/Caprini/ViboyColor-sub001/internal/ppu"
	"github.com/Caprini/ViboyColor-sub001/internal/timer"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
	"github.com/Caprini/ViboyColor-sub001/pkg/log"
)

func newTestMMU(t *testing.T) (*MMU, *ppu.PPU) {
	t.Helper()
	rom := make([]byte, 2*0x4000)
	rom[0x148] = 0x00
	cart, err := cartridge.New(rom, nil)
	require.NoError(t, err)

	irq := interrupts.NewService()
	tmr := timer.NewController(irq)
	jp := joypad.New(irq)
	c := cpu.New(nil, irq)
	m := New(cart, tmr, jp, irq, c, false, log.NewNullLogger())
	p := ppu.New(m, irq, types.ModelDMG)
	m.AttachPPU(p)
	c.SetBus(m)
	p.Reset()
	return m, p
}

// Echo RAM at 0xE000-0xFDFF mirrors working RAM at 0xC000-0xDDFF.
func TestEchoRAMMirrorsWRAM(t *testing.T) {
	m, _ := newTestMMU(t)
	m.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0xE010))

	m.Write(0xE020, 0x99)
	assert.Equal(t, uint8(0x99), m.Read(0xC020))
}

// While OAM DMA is active, every address below 0xFF80 reads back 0xFF,
// regardless of what's actually stored there.
func TestOAMDMABlocksLowMemory(t *testing.T) {
	m, p := newTestMMU(t)
	m.Write(0xC000, 0x77)
	assert.Equal(t, uint8(0x77), m.Read(0xC000))

	p.DMA.Write(0xC0) // triggers DMA from 0xC000
	assert.True(t, p.DMA.Active())
	assert.Equal(t, uint8(0xFF), m.Read(0xC000), "reads below 0xFF80 must be blocked during DMA")

	for i := 0; i < 644; i++ { // 4 + 160*4 T-cycles
		p.DMA.Tick()
	}
	assert.False(t, p.DMA.Active())
	assert.Equal(t, uint8(0x77), m.Read(0xC000), "blocking lifts once the transfer completes")
}

// HRAM (0xFF80-0xFFFE) stays readable during OAM DMA.
func TestHRAMUnblockedDuringDMA(t *testing.T) {
	m, p := newTestMMU(t)
	m.Write(0xFF80, 0x13)
	p.DMA.Write(0xC0)

	assert.Equal(t, uint8(0x13), m.Read(0xFF80))
}

// VRAM reads/writes are blocked (read 0xFF, write discarded) only while the
// PPU is in mode 3 (pixel transfer).
func TestVRAMBlockedDuringPixelTransfer(t *testing.T) {
	m, p := newTestMMU(t)
	m.Write(0x8000, 0x11)
	assert.Equal(t, uint8(0x11), m.Read(0x8000))

	p.Tick(80) // enter mode 3
	m.Write(0x8000, 0x22)
	assert.Equal(t, uint8(0xFF), m.Read(0x8000), "VRAM must be opaque during mode 3")
}
