package ppu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// oam is the 160-byte Object Attribute Memory, 40 sprites of 4 bytes
// each. Decoding into sprite structs happens on demand during mode 2's
// scan rather than being kept as a standing mirror.
type oam struct {
	data [160]byte
}

func newOAM() *oam {
	return &oam{}
}

func (o *oam) Read(address uint16) uint8 {
	return o.data[address&0xFF]
}

func (o *oam) Write(address uint16, value uint8) {
	o.data[address&0xFF] = value
}

// scanLine returns up to 10 sprites whose vertical extent covers ly,
// ordered by OAM slot (the caller re-sorts by X for drawing priority).
func (o *oam) scanLine(ly int, spriteHeight int) []sprite {
	var found []sprite
	for i := 0; i < 40 && len(found) < 10; i++ {
		s := decodeSprite(o.data[:], i)
		if ly >= s.y && ly < s.y+spriteHeight {
			found = append(found, s)
		}
	}
	return found
}

var _ types.Stater = (*oam)(nil)

func (o *oam) Save(s *types.State) { s.WriteData(o.data[:]) }
func (o *oam) Load(s *types.State) { s.ReadData(o.data[:]) }
