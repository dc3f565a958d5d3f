package gameboy

import (
	"github.com/Caprini/ViboyColor-sub001/internal/ppu/palette"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
	"github.com/Caprini/ViboyColor-sub001/pkg/log"
)

// GameBoyOpt configures a GameBoy at construction time.
type GameBoyOpt func(gb *GameBoy)

// AsModel forces DMG or CGB behaviour instead of the cartridge-header
// auto-detection New otherwise performs.
func AsModel(m types.Model) GameBoyOpt {
	return func(gb *GameBoy) {
		gb.forcedModel = m
	}
}

// WithLogger overrides the default logrus-backed logger.
func WithLogger(l log.Logger) GameBoyOpt {
	return func(gb *GameBoy) {
		gb.log = l
	}
}

// WithBootROM stores a boot ROM image on the GameBoy. Nothing in the core
// reads it or executes it: spec.md's Non-goals exclude boot-ROM
// reproduction, and post-boot register state is always synthesized
// directly by Reset.
func WithBootROM(rom []byte) GameBoyOpt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// WithPalette selects which of the four built-in DMG host palettes
// FrameRGB uses. It has no effect on the core's own framebuffer, which
// always carries raw 0..3 shade indices on DMG.
func WithPalette(id palette.ID) GameBoyOpt {
	return func(gb *GameBoy) {
		gb.paletteID = id
	}
}
