// Package palette is a host-presentation convenience for mapping DMG's
// 2-bit color indices to RGB, kept entirely outside the core's contract:
// the PPU itself only ever emits raw palette indices (spec.md §9 Open
// Questions explicitly rejects baking a host palette choice into the
// core). Apply is an opt-in helper a host may call on a returned
// framebuffer; step_frame never calls it.
package palette

// ID selects one of the built-in four-color DMG palettes.
type ID uint8

const (
	Greyscale ID = iota
	Green
	Red
	Yellow
)

// Palette is an array of 4 RGB triples, one per DMG color index.
type Palette struct {
	Colors [4][3]uint8
}

var palettes = [...]Palette{
	Greyscale: {Colors: [4][3]uint8{
		{0xFF, 0xFF, 0xFF},
		{0xCC, 0xCC, 0xCC},
		{0x77, 0x77, 0x77},
		{0x00, 0x00, 0x00},
	}},
	Green: {Colors: [4][3]uint8{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	}},
	Red: {Colors: [4][3]uint8{
		{0xFF, 0x00, 0x00},
		{0xCC, 0x00, 0x00},
		{0x77, 0x00, 0x00},
		{0x00, 0x00, 0x00},
	}},
	Yellow: {Colors: [4][3]uint8{
		{0xFF, 0xFF, 0x00},
		{0xCC, 0xCC, 0x00},
		{0x77, 0x77, 0x00},
		{0x00, 0x00, 0x00},
	}},
}

// Color returns the RGB triple for index (0..3) under the given palette.
func Color(id ID, index uint8) [3]uint8 {
	return palettes[id].Colors[index&0x3]
}

// Apply maps a full 160x144 buffer of raw 0..3 indices to RGB triples
// under the given palette. The core's framebuffer is never touched by
// this; a host calls it only if it wants DMG color output.
func Apply(id ID, indices []uint8) [][3]uint8 {
	out := make([][3]uint8, len(indices))
	for i, idx := range indices {
		out[i] = Color(id, idx)
	}
	return out
}
