package gameboy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caprini/ViboyColor-sub001/internal/cartridge"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

// newTestROM builds a minimal cartridge image: bankCount banks of NOPs,
// with just enough header to parse, of the given cartridge type and RAM
// size code.
func newTestROM(bankCount int, cartType cartridge.Type, ramSizeCode uint8) []byte {
	rom := make([]byte, bankCount*0x4000)
	rom[0x143] = 0x00
	rom[0x147] = byte(cartType)
	switch bankCount {
	case 2:
		rom[0x148] = 0x00
	case 4:
		rom[0x148] = 0x01
	}
	rom[0x149] = ramSizeCode
	return rom
}

func newTestGameBoy(t *testing.T, rom []byte) *GameBoy {
	t.Helper()
	gb := New(AsModel(types.ModelDMG))
	require.NoError(t, gb.AttachCartridge(rom, nil))
	return gb
}

// FrameHash is a pure function of accumulated state: two machines fed the
// same ROM and stepped the same number of frames land on identical hashes.
func TestFrameHashDeterminism(t *testing.T) {
	rom := newTestROM(2, cartridge.ROM, 0x00)

	gb1 := newTestGameBoy(t, rom)
	gb2 := newTestGameBoy(t, rom)

	for i := 0; i < 3; i++ {
		require.NoError(t, gb1.StepFrame())
		require.NoError(t, gb2.StepFrame())
	}

	assert.Equal(t, gb1.FrameHash(), gb2.FrameHash())
}

// StepFrame always returns with the PPU having completed exactly one
// LY-153->0 wraparound; repeated calls keep succeeding with a NOP-only ROM.
func TestStepFrameRunsWithoutLockup(t *testing.T) {
	rom := newTestROM(2, cartridge.ROM, 0x00)
	gb := newTestGameBoy(t, rom)

	for i := 0; i < 5; i++ {
		require.NoError(t, gb.StepFrame())
	}
	assert.Equal(t, ErrNone, gb.LastError())
}

// SaveRAM/LoadRAM round-trips external cartridge RAM onto a fresh machine.
func TestSaveLoadRAMRoundTrip(t *testing.T) {
	rom := newTestROM(2, cartridge.ROMRAMBATT, 0x02) // 8 KiB RAM
	gb := newTestGameBoy(t, rom)

	gb.cart.Write(0xA000, 0x55)
	saved := gb.SaveRAM()
	data := append([]byte(nil), saved...)

	fresh := newTestGameBoy(t, rom)
	assert.NotEqual(t, uint8(0x55), fresh.cart.Read(0xA000), "a freshly attached cartridge must not carry over another instance's RAM")

	fresh.LoadRAM(data)
	assert.Equal(t, uint8(0x55), fresh.cart.Read(0xA000))
}

// SaveState followed by LoadState on a second machine reproduces the same
// framebuffer after continuing to step.
func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	rom := newTestROM(2, cartridge.ROM, 0x00)
	gb1 := newTestGameBoy(t, rom)
	require.NoError(t, gb1.StepFrame())

	blob, err := gb1.SaveState()
	require.NoError(t, err)

	gb2 := newTestGameBoy(t, rom)
	require.NoError(t, gb2.LoadState(blob))

	require.NoError(t, gb1.StepFrame())
	require.NoError(t, gb2.StepFrame())
	assert.Equal(t, gb1.FrameHash(), gb2.FrameHash())
}

// AttachCartridge wraps the cartridge package's rejection errors rather
// than panicking.
func TestAttachCartridgeRejectsUnsupportedMBC(t *testing.T) {
	rom := newTestROM(2, 0, 0x00)
	rom[0x147] = 0xFE // unsupported mapper type
	gb := New()

	err := gb.AttachCartridge(rom, nil)
	assert.ErrorIs(t, err, cartridge.ErrUnsupportedMBC)
}

// StepFrame reports ErrNoCartridge before any cartridge is attached.
func TestStepFrameWithoutCartridge(t *testing.T) {
	gb := New()
	assert.ErrorIs(t, gb.StepFrame(), ErrNoCartridge)
}

// A program that triggers OAM DMA from FF46 must see all 160 bytes copied
// to OAM within the frame that triggers it: the orchestrator has to tick
// the DMA controller every T-cycle, not just the PPU and timer.
func TestStepFrameDrivesOAMDMAToCompletion(t *testing.T) {
	rom := make([]byte, 2*0x4000)
	rom[0x147] = byte(cartridge.ROM)
	rom[0x148] = 0x00
	// LD A,0xC0 ; LDH (FF46),A ; NOP forever.
	copy(rom[0x0100:], []byte{0x3E, 0xC0, 0xE0, 0x46})

	gb := newTestGameBoy(t, rom)
	for i := 0; i < 160; i++ {
		gb.mmu.Write(0xC000+uint16(i), uint8(i+1))
	}

	require.NoError(t, gb.StepFrame())

	for i := 0; i < 160; i++ {
		assert.Equal(t, uint8(i+1), gb.ppu.OAMRead(0xFE00+uint16(i)), "OAM byte %d was never copied", i)
	}
	assert.Equal(t, ErrNone, gb.LastError())
}
