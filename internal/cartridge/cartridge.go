// Package cartridge models the Game Boy cartridge: header parsing and the
// ROM/RAM bank routing performed by the mapper hardware (MBC1/2/3/5, or
// none at all).
package cartridge

import (
	"fmt"

	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

// MemoryBankController is the narrow interface the MMU talks to for
// addresses 0x0000-0x7FFF (ROM, with bank-select side effects) and
// 0xA000-0xBFFF (external RAM).
type MemoryBankController interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// RAMController is implemented by mappers that expose battery-backed or
// otherwise persistable external RAM.
type RAMController interface {
	SaveRAM() []byte
	LoadRAM([]byte)
}

// Cartridge owns the ROM image, the active mapper, and the parsed header.
type Cartridge struct {
	MemoryBankController
	header Header
}

// New parses rom's header and constructs the matching mapper. ramInitial,
// if non-nil, seeds external RAM (e.g. from a prior save_ram). It returns
// ErrTruncatedROM, ErrROMTooLarge, or ErrUnsupportedMBC per spec.md §7's
// CartridgeRejected condition.
func New(rom []byte, ramInitial []byte) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("%w: got %d bytes, need at least 0x150", ErrTruncatedROM, len(rom))
	}
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	if len(rom) < header.ROMBankCount*0x4000 {
		return nil, fmt.Errorf("%w: header claims %d banks, image has %d bytes",
			ErrTruncatedROM, header.ROMBankCount, len(rom))
	}

	var mbc MemoryBankController
	switch header.CartType {
	case ROM, ROMRAM, ROMRAMBATT:
		mbc = newROMOnly(rom, header)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		mbc = newMBC1(rom, header)
	case MBC2, MBC2BATT:
		mbc = newMBC2(rom, header)
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		mbc = newMBC3(rom, header)
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		mbc = newMBC5(rom, header)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMBC, header.CartType)
	}

	if ramInitial != nil {
		if rc, ok := mbc.(RAMController); ok {
			rc.LoadRAM(ramInitial)
		}
	}

	return &Cartridge{MemoryBankController: mbc, header: header}, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header {
	return c.header
}

// SaveRAM returns the cartridge's external RAM contents, or nil if the
// mapper has none.
func (c *Cartridge) SaveRAM() []byte {
	if rc, ok := c.MemoryBankController.(RAMController); ok {
		return rc.SaveRAM()
	}
	return nil
}

// LoadRAM restores external RAM contents previously returned by SaveRAM.
// It is a no-op if the mapper has no RAM.
func (c *Cartridge) LoadRAM(data []byte) {
	if rc, ok := c.MemoryBankController.(RAMController); ok {
		rc.LoadRAM(data)
	}
}

var _ types.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *types.State) {
	if st, ok := c.MemoryBankController.(types.Stater); ok {
		st.Save(s)
	}
}

func (c *Cartridge) Load(s *types.State) {
	if st, ok := c.MemoryBankController.(types.Stater); ok {
		st.Load(s)
	}
}
