package ppu

// sprite is the decoded form of one 4-byte OAM entry, resolved on demand
// during mode 2's scan rather than kept as a second mirror of the raw
// bytes that would need to stay in sync on every OAM write.
type sprite struct {
	index int // original OAM slot 0..39, used as the tie-breaker on X ties
	y     int // top edge, with the +16 bias already removed
	x     int // left edge, with the +8 bias already removed
	tile  uint8

	priority   bool // true: BG/Window colors 1-3 win over this sprite
	flipY      bool
	flipX      bool
	dmgPalette uint8 // 0 or 1, selects OBP0/OBP1
	cgbBank    uint8
	cgbPalette uint8
}

func decodeSprite(raw []byte, index int) sprite {
	base := index * 4
	attr := raw[base+3]
	return sprite{
		index:      index,
		y:          int(raw[base+0]) - 16,
		x:          int(raw[base+1]) - 8,
		tile:       raw[base+2],
		priority:   attr&0x80 != 0,
		flipY:      attr&0x40 != 0,
		flipX:      attr&0x20 != 0,
		dmgPalette: (attr >> 4) & 0x1,
		cgbBank:    (attr >> 3) & 0x1,
		cgbPalette: attr & 0x07,
	}
}
