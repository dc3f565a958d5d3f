package cartridge

import "fmt"

// Type identifies the mapper hardware declared at ROM offset 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATT        Type = 0x09
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
)

func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM"
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return "MBC1"
	case MBC2, MBC2BATT:
		return "MBC2"
	case ROMRAM, ROMRAMBATT:
		return "ROM+RAM"
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		return "MBC3"
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return "MBC5"
	default:
		return fmt.Sprintf("unknown(%#02x)", uint8(t))
	}
}

// hasRTC reports whether t is one of the MBC3 variants with a real-time
// clock.
func (t Type) hasRTC() bool {
	return t == MBC3TIMERBATT || t == MBC3TIMERRAMBATT
}

// hasBattery reports whether t persists RAM across sessions. The core
// doesn't currently distinguish this from any other RAM-bearing cartridge
// (save_ram/load_ram is offered unconditionally), but it's retained for
// header fidelity.
func (t Type) hasBattery() bool {
	switch t {
	case MBC1RAMBATT, MBC2BATT, ROMRAMBATT, MBC3RAMBATT, MBC3TIMERBATT,
		MBC3TIMERRAMBATT, MBC5RAMBATT, MBC5RUMBLERAMBATT:
		return true
	}
	return false
}

// GBMode is the hardware-compatibility byte at 0x0143.
type GBMode uint8

const (
	// ModeDMGOnly means the cartridge carries no CGB flag.
	ModeDMGOnly GBMode = iota
	// ModeCGBSupported means the cartridge runs on either DMG or CGB.
	ModeCGBSupported
	// ModeCGBOnly means the cartridge requires CGB hardware.
	ModeCGBOnly
)

var romBankCounts = [...]int{2, 4, 8, 16, 32, 64, 128, 256, 512}

var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024, // unofficial, some early header tables use it
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// maxROMBanks bounds how large a ROM attach_cartridge will accept, per
// spec.md §3/§7 (CartridgeRejected on an over-sized ROM).
const maxROMBanks = 512

// Header is the parsed contents of the cartridge header at
// 0x0100-0x014F.
type Header struct {
	Title        string
	GBMode       GBMode
	CartType     Type
	ROMBankCount int
	RAMSize      int
	HeaderChecksum uint8
	GlobalChecksum uint16
}

// ParseHeader extracts a Header from a full ROM image. rom must be at
// least 0x150 bytes; callers should reject shorter images before calling
// this.
func ParseHeader(rom []byte) (Header, error) {
	h := Header{}

	switch rom[0x143] {
	case 0x80:
		h.GBMode = ModeCGBSupported
	case 0xC0:
		h.GBMode = ModeCGBOnly
	default:
		h.GBMode = ModeDMGOnly
	}

	titleEnd := 0x144
	if h.GBMode != ModeDMGOnly {
		titleEnd = 0x143
	}
	h.Title = trimTitle(rom[0x134:titleEnd])

	h.CartType = Type(rom[0x147])

	romSizeCode := rom[0x148]
	if int(romSizeCode) >= len(romBankCounts) {
		return h, fmt.Errorf("%w: rom size code %#02x", ErrROMTooLarge, romSizeCode)
	}
	h.ROMBankCount = romBankCounts[romSizeCode]
	if h.ROMBankCount > maxROMBanks {
		return h, fmt.Errorf("%w: %d banks exceeds maximum of %d", ErrROMTooLarge, h.ROMBankCount, maxROMBanks)
	}

	ramSizeCode := rom[0x149]
	ramSize, ok := ramSizes[ramSizeCode]
	if !ok {
		return h, fmt.Errorf("%w: ram size code %#02x", ErrROMTooLarge, ramSizeCode)
	}
	h.RAMSize = ramSize
	h.HeaderChecksum = rom[0x14D]
	h.GlobalChecksum = uint16(rom[0x14E])<<8 | uint16(rom[0x14F])

	return h, nil
}

func trimTitle(b []byte) string {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}

// GameboyColor reports whether the cartridge declares any CGB support.
func (h Header) GameboyColor() bool {
	return h.GBMode != ModeDMGOnly
}

func (h Header) String() string {
	return fmt.Sprintf("%s (%s, %d ROM banks, %d bytes RAM)", h.Title, h.CartType, h.ROMBankCount, h.RAMSize)
}
