package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMBC1ROM builds a minimal valid MBC1 ROM image of the given bank count,
// stamping each bank's first byte with its own bank number so reads can be
// told apart.
func newMBC1ROM(t *testing.T, romSizeCode, ramSizeCode uint8) []byte {
	t.Helper()
	bankCount := romBankCounts[romSizeCode]
	rom := make([]byte, bankCount*0x4000)
	rom[0x143] = 0x00 // DMG-only
	rom[0x147] = byte(MBC1RAMBATT)
	rom[0x148] = romSizeCode
	rom[0x149] = ramSizeCode
	for b := 0; b < bankCount; b++ {
		rom[b*0x4000] = byte(b)
	}
	return rom
}

// spec scenario 4: with a 512 KiB ROM, writing 0x00 to the bank-select
// register at 0x2000 still selects bank 1 at 0x4000-0x7FFF, never bank 0.
func TestMBC1ZeroWriteSelectsBankOne(t *testing.T) {
	rom := newMBC1ROM(t, 4, 0x02) // code 4 = 32 banks = 512 KiB
	c, err := New(rom, nil)
	require.NoError(t, err)

	c.Write(0x2000, 0x00)
	assert.Equal(t, uint8(1), c.Read(0x4000), "bank register 0 must remap to bank 1")

	c.Write(0x2000, 0x20) // low 5 bits also 0 after masking
	assert.Equal(t, uint8(1), c.Read(0x4000))
}

// Quantified invariant: for every possible 5-bit bank1 write, the effective
// ROM bank mapped at 0x4000 is never bank 0.
func TestMBC1Bank1NeverSelectsZero(t *testing.T) {
	rom := newMBC1ROM(t, 4, 0x00)
	c, err := New(rom, nil)
	require.NoError(t, err)

	for v := 0; v < 32; v++ {
		c.Write(0x2000, uint8(v))
		assert.NotZero(t, c.Read(0x4000), "bank1 write %#02x must not select bank 0", v)
	}
}

// Bank 0 (0x0000-0x3FFF) is always addressable regardless of the bank1
// register's value.
func TestMBC1ZeroBankFixedInNormalMode(t *testing.T) {
	rom := newMBC1ROM(t, 4, 0x00)
	c, err := New(rom, nil)
	require.NoError(t, err)

	c.Write(0x2000, 0x0F)
	assert.Equal(t, uint8(0), c.Read(0x0000))
}

// External RAM reads/writes are ignored until the 0x0A RAM-enable value is
// latched, and ignored again afterward once disabled.
func TestMBC1RAMEnableGating(t *testing.T) {
	rom := newMBC1ROM(t, 0, 0x02) // 8 KiB RAM
	c, err := New(rom, nil)
	require.NoError(t, err)

	c.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0xFF), c.Read(0xA000), "RAM reads as 0xFF while disabled")

	c.Write(0x0000, 0x0A) // enable
	c.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), c.Read(0xA000))

	c.Write(0x0000, 0x00) // disable
	assert.Equal(t, uint8(0xFF), c.Read(0xA000))
}

// SaveRAM/LoadRAM round-trip external RAM contents byte for byte.
func TestMBC1SaveLoadRAMRoundTrip(t *testing.T) {
	rom := newMBC1ROM(t, 0, 0x02)
	c, err := New(rom, nil)
	require.NoError(t, err)

	c.Write(0x0000, 0x0A)
	c.Write(0xA000, 0x99)
	c.Write(0xA001, 0x77)

	saved := c.SaveRAM()
	data := make([]byte, len(saved))
	copy(data, saved)

	c2, err := New(rom, data)
	require.NoError(t, err)
	c2.Write(0x0000, 0x0A)
	assert.Equal(t, uint8(0x99), c2.Read(0xA000))
	assert.Equal(t, uint8(0x77), c2.Read(0xA001))
}

// New rejects an unrecognized/oversized ROM-size header byte.
func TestNewRejectsOversizedROM(t *testing.T) {
	rom := newMBC1ROM(t, 0, 0x00)
	rom[0x148] = 0xFF // unrecognized size code
	_, err := New(rom, nil)
	assert.ErrorIs(t, err, ErrROMTooLarge)
}

// New rejects an unrecognized RAM-size header byte rather than silently
// treating it as no RAM.
func TestNewRejectsUnrecognizedRAMSizeCode(t *testing.T) {
	rom := newMBC1ROM(t, 0, 0x00)
	rom[0x149] = 0xFF // unrecognized ram size code
	_, err := New(rom, nil)
	assert.ErrorIs(t, err, ErrROMTooLarge)
}

// New rejects an unsupported cartridge type byte.
func TestNewRejectsUnsupportedMBC(t *testing.T) {
	rom := newMBC1ROM(t, 0, 0x00)
	rom[0x147] = 0xFE // not a recognized mapper type
	_, err := New(rom, nil)
	assert.ErrorIs(t, err, ErrUnsupportedMBC)
}
