package ppu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// tileAttr is the decoded form of a CGB BG map attribute byte (VRAM bank
// 1); on DMG it is always the zero value.
type tileAttr struct {
	palette  uint8
	bank     uint8
	flipX    bool
	flipY    bool
	priority bool
}

func decodeTileAttr(raw uint8) tileAttr {
	return tileAttr{
		palette:  raw & 0x07,
		bank:     (raw >> 3) & 0x01,
		flipX:    raw&0x20 != 0,
		flipY:    raw&0x40 != 0,
		priority: raw&0x80 != 0,
	}
}

// tilePixel resolves the 2-bit color number at column c (0..7), row r
// (0..7) of the given tile, honoring the attribute's flips.
func (p *PPU) tilePixel(tileIndex uint8, attr tileAttr, r, c int) uint8 {
	base := p.Controller.TileDataAddress
	var tileAddr uint16
	if base == 0x8000 {
		tileAddr = 0x8000 + uint16(tileIndex)*16
	} else {
		tileAddr = uint16(int32(0x9000) + int32(int8(tileIndex))*16)
	}
	row := r
	if attr.flipY {
		row = 7 - row
	}
	rowAddr := tileAddr + uint16(row)*2
	lo := p.vram[attr.bank][rowAddr&0x1FFF]
	hi := p.vram[attr.bank][(rowAddr+1)&0x1FFF]

	col := c
	if attr.flipX {
		col = 7 - col
	}
	bit := 7 - uint(col)
	return (hi>>bit&1)<<1 | (lo >> bit & 1)
}

// mapEntry reads the tile index (bank 0) and attribute byte (bank 1,
// CGB only) at the given tile-map column/row.
func (p *PPU) mapEntry(mapBase uint16, col, row int) (uint8, tileAttr) {
	off := (mapBase + uint16(row*32+col)) & 0x1FFF
	index := p.vram[0][off]
	var attr tileAttr
	if p.model == types.ModelCGB {
		attr = decodeTileAttr(p.vram[1][off])
	}
	return index, attr
}

func (p *PPU) bgShade(colorNum uint8, attr tileAttr) uint16 {
	if p.model == types.ModelCGB {
		return p.cgbColor(p.bgPaletteRAM[:], attr.palette, colorNum)
	}
	return uint16((p.bgp >> (colorNum * 2)) & 0x3)
}

func (p *PPU) objShade(colorNum uint8, dmgPalette uint8, cgbPalette uint8) uint16 {
	if p.model == types.ModelCGB {
		return p.cgbColor(p.objPaletteRAM[:], cgbPalette, colorNum)
	}
	obp := p.obp0
	if dmgPalette == 1 {
		obp = p.obp1
	}
	return uint16((obp >> (colorNum * 2)) & 0x3)
}

func (p *PPU) cgbColor(ram []byte, palette uint8, colorNum uint8) uint16 {
	off := int(palette)*8 + int(colorNum)*2
	return uint16(ram[off]) | uint16(ram[off+1])<<8&0x7F00
}

// renderScanline composites the background, window, and up to 10
// sprites for the current LY into the framebuffer, per spec.md §4.7.
func (p *PPU) renderScanline() {
	row := &p.frame[p.ly]
	bgColorNums := [ScreenWidth]uint8{}
	bgPriority := [ScreenWidth]bool{}

	windowActive := p.Controller.WindowEnabled && p.wy <= p.ly && int(p.wx)-7 < ScreenWidth
	windowUsedThisLine := false

	for x := 0; x < ScreenWidth; x++ {
		if windowActive && int(p.wx)-7 <= x {
			wx := x - (int(p.wx) - 7)
			wy := int(p.windowLineCounter)
			col, row8 := wx/8, wy/8
			tileIdx, attr := p.mapEntry(p.Controller.WindowTileMapAddress, col%32, row8%32)
			colorNum := p.tilePixel(tileIdx, attr, wy%8, wx%8)
			bgColorNums[x] = colorNum
			bgPriority[x] = attr.priority
			if p.Controller.BackgroundEnabled || p.model == types.ModelCGB {
				row[x] = p.bgShade(colorNum, attr)
			} else {
				row[x] = 0
			}
			windowUsedThisLine = true
			continue
		}

		bx := (int(p.scx) + x) & 0xFF
		by := (int(p.scy) + int(p.ly)) & 0xFF
		tileIdx, attr := p.mapEntry(p.Controller.BackgroundTileMapAddress, bx/8, by/8)
		colorNum := p.tilePixel(tileIdx, attr, by%8, bx%8)
		bgColorNums[x] = colorNum
		bgPriority[x] = attr.priority
		if p.Controller.BackgroundEnabled || p.model == types.ModelCGB {
			row[x] = p.bgShade(colorNum, attr)
		} else {
			row[x] = 0
			bgColorNums[x] = 0
		}
	}

	if windowUsedThisLine {
		p.windowLineCounter++
	}

	if p.Controller.SpriteEnabled {
		p.renderSprites(row, bgColorNums[:], bgPriority[:])
	}
}

// renderSprites composites up to 10 pre-scanned sprites over row, honoring
// each sprite's own priority bit and, on CGB with LCDC bit 0 set, the BG
// map attribute's own BG-to-OAM priority override (spec.md §4.7 step 4).
func (p *PPU) renderSprites(row *[ScreenWidth]uint16, bgColorNums []uint8, bgPriority []bool) {
	ordered := make([]sprite, len(p.spritesThisLine))
	copy(ordered, p.spritesThisLine)
	// Stable insertion sort by X ascending; OAM index order (already
	// ascending from scanLine) breaks ties, matching spec.md §4.7.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].x < ordered[j-1].x; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	for x := 0; x < ScreenWidth; x++ {
		for _, s := range ordered {
			if x < s.x || x >= s.x+8 {
				continue
			}
			r := int(p.ly) - s.y
			if r < 0 || r >= int(p.Controller.SpriteHeight) {
				continue
			}
			tile := s.tile
			if p.Controller.SpriteHeight == 16 {
				tile &= 0xFE
				if (r >= 8) != s.flipY {
					tile |= 0x01
				}
				r %= 8
			}
			attr := tileAttr{bank: s.cgbBank, flipX: s.flipX, flipY: s.flipY}
			colorNum := p.tilePixel(tile, attr, r, x-s.x)
			if colorNum == 0 {
				continue
			}
			if p.model == types.ModelCGB && p.Controller.BackgroundEnabled && bgPriority[x] && bgColorNums[x] != 0 {
				continue
			}
			if s.priority && bgColorNums[x] != 0 {
				continue
			}
			row[x] = p.objShade(colorNum, s.dmgPalette, s.cgbPalette)
			break
		}
	}
}
