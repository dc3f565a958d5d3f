// Package lcd models the two PPU control registers, LCDC (0xFF40) and
// STAT (0xFF41), as structured bitfields rather than raw bytes.
package lcd

import "github.com/Caprini/ViboyColor-sub001/pkg/bits"

// ControlRegister is the address of LCDC.
const ControlRegister = 0xFF40

// Controller models LCDC:
//
//	Bit 7 - LCD/PPU enable
//	Bit 6 - Window tile map select    (0=9800, 1=9C00)
//	Bit 5 - Window enable
//	Bit 4 - BG/Window tile data select (0=8800 signed, 1=8000 unsigned)
//	Bit 3 - BG tile map select        (0=9800, 1=9C00)
//	Bit 2 - OBJ size                  (0=8x8, 1=8x16)
//	Bit 1 - OBJ enable
//	Bit 0 - BG/Window enable (DMG); BG/Window-over-sprite priority master switch (CGB)
type Controller struct {
	Enabled                  bool
	WindowTileMapAddress     uint16
	WindowEnabled            bool
	TileDataAddress          uint16
	BackgroundTileMapAddress uint16
	SpriteHeight             uint8
	SpriteEnabled            bool
	BackgroundEnabled        bool
}

// NewController returns a Controller with every bit clear, as LCDC reads
// before Reset applies the documented post-boot value.
func NewController() *Controller {
	return &Controller{
		WindowTileMapAddress:     0x9800,
		BackgroundTileMapAddress: 0x9800,
		TileDataAddress:          0x8800,
		SpriteHeight:             8,
	}
}

func (c *Controller) Write(value uint8) {
	c.Enabled = bits.Test(value, 7)
	if bits.Test(value, 6) {
		c.WindowTileMapAddress = 0x9C00
	} else {
		c.WindowTileMapAddress = 0x9800
	}
	c.WindowEnabled = bits.Test(value, 5)
	if bits.Test(value, 4) {
		c.TileDataAddress = 0x8000
	} else {
		c.TileDataAddress = 0x8800
	}
	if bits.Test(value, 3) {
		c.BackgroundTileMapAddress = 0x9C00
	} else {
		c.BackgroundTileMapAddress = 0x9800
	}
	if bits.Test(value, 2) {
		c.SpriteHeight = 16
	} else {
		c.SpriteHeight = 8
	}
	c.SpriteEnabled = bits.Test(value, 1)
	c.BackgroundEnabled = bits.Test(value, 0)
}

func (c *Controller) Read() uint8 {
	var v uint8
	if c.Enabled {
		v |= 1 << 7
	}
	if c.WindowTileMapAddress == 0x9C00 {
		v |= 1 << 6
	}
	if c.WindowEnabled {
		v |= 1 << 5
	}
	if c.TileDataAddress == 0x8000 {
		v |= 1 << 4
	}
	if c.BackgroundTileMapAddress == 0x9C00 {
		v |= 1 << 3
	}
	if c.SpriteHeight == 16 {
		v |= 1 << 2
	}
	if c.SpriteEnabled {
		v |= 1 << 1
	}
	if c.BackgroundEnabled {
		v |= 1 << 0
	}
	return v
}

// UsingSignedTileData reports whether bit 4 selects the 0x8800 signed
// tile data block.
func (c *Controller) UsingSignedTileData() bool {
	return c.TileDataAddress == 0x8800
}
