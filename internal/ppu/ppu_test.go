package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/ppu/lcd"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

// fakeDMABus is an all-zero 64 KiB source for OAM DMA/HDMA, unused by most
// of these tests but required to satisfy ppu.New.
type fakeDMABus struct{}

func (fakeDMABus) Read(uint16) uint8 { return 0 }

func newTestPPU() (*PPU, *interrupts.Service) {
	irq := interrupts.NewService()
	p := New(fakeDMABus{}, irq, types.ModelDMG)
	p.Reset()
	return p, irq
}

// spec scenario 5: the first VBlank interrupt after reset fires exactly
// when LY reaches 144, at T-cycle 144*456 from the start of the frame.
func TestFirstVBlankTiming(t *testing.T) {
	p, irq := newTestPPU()
	irq.Flag = 0 // the post-reset IF value already has the VBlank bit set
	irq.Enable = 1 << interrupts.VBlankFlag

	const vblankDot = vblankStartLY * dotsPerLine
	p.Tick(vblankDot - 1)
	assert.False(t, irq.HasPending(), "VBlank must not fire before the boundary")
	assert.Less(t, int(p.ly), vblankStartLY)

	p.Tick(1)
	assert.True(t, irq.HasPending())
	assert.Equal(t, uint8(vblankStartLY), p.ly)
	assert.Equal(t, lcd.ModeVBlank, p.Status.Mode)
}

// LY wraps from 153 back to 0 and re-enters OAM scan, marking the frame
// done.
func TestLYWrapsAndMarksFrameDone(t *testing.T) {
	p, _ := newTestPPU()
	p.Tick((lastLY + 1) * dotsPerLine)

	assert.Equal(t, uint8(0), p.ly)
	assert.Equal(t, lcd.ModeOAMScan, p.Status.Mode)
	assert.True(t, p.FrameDone())
}

// LY >= 144 implies mode 1 (VBlank) from the first dot of LY 144: the
// mode switches in the same step that LY enters VBlank.
func TestModeAlwaysValidDuringVBlank(t *testing.T) {
	p, _ := newTestPPU()
	p.Tick(vblankStartLY * dotsPerLine)

	assert.Equal(t, lcd.ModeVBlank, p.Status.Mode)
	assert.GreaterOrEqual(t, int(p.ly), vblankStartLY)
}

// The STAT line only raises the LCD interrupt on a 0->1 transition; while
// it stays asserted (multiple enabled sources true at once), no repeat
// interrupt fires.
func TestStatLineRisingEdgeOnly(t *testing.T) {
	p, irq := newTestPPU()
	irq.Enable = 1 << interrupts.LCDFlag
	p.lyc = 0 // matches LY=0 at reset
	p.Status.CoincidenceInterrupt = true
	p.Status.OAMInterrupt = true
	p.checkLYC() // recompute coincidence + stat line with both sources live

	assert.True(t, irq.HasPending())
	irq.Clear(interrupts.LCDFlag)

	// Re-running the same check with the line still asserted must not
	// re-request the interrupt.
	p.checkStatLine()
	assert.False(t, irq.HasPending())
}

// Sprite draw priority among overlapping same-X sprites goes to the lower
// OAM index.
func TestSpritePriorityLowerOAMIndexWins(t *testing.T) {
	p, _ := newTestPPU()
	p.Controller.Write(0x93) // LCD+BG+OBJ enabled, 8x8 sprites, unsigned tile data

	// tile 0: row 0 has color index 1 in every column via a solid low-plane byte.
	p.VRAMWrite(0x8000, 0xFF)
	p.VRAMWrite(0x8001, 0x00)

	writeSprite := func(oamIndex, y, x int, tile, attr uint8) {
		base := uint16(0xFE00 + oamIndex*4)
		p.OAMWrite(base+0, uint8(y+16))
		p.OAMWrite(base+1, uint8(x+8))
		p.OAMWrite(base+2, tile)
		p.OAMWrite(base+3, attr)
	}
	writeSprite(5, 0, 0, 0, 0)
	writeSprite(3, 0, 0, 0, 0x10) // distinguishable via dmgPalette bit, same geometry
	p.obp0 = 0x00                // shade 0 for color 1
	p.obp1 = 0xFF                // shade 3 for color 1

	p.spritesThisLine = p.oamScanForTest(0)
	p.renderSprites(&p.frame[0], make([]uint8, ScreenWidth), make([]bool, ScreenWidth))

	assert.Equal(t, uint16(3), p.frame[0][0], "OAM index 3 (OBP1, shade 3) must win over index 5 (OBP0, shade 0) at the same X")
}

func (p *PPU) oamScanForTest(ly int) []sprite {
	return p.oam.scanLine(ly, int(p.Controller.SpriteHeight))
}
