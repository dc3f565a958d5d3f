package cartridge

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// mbc2 implements the MBC2 mapper: up to 16 ROM banks selected by a 4-bit
// register, and 512x4-bit built-in RAM addressed by the low 9 bits of the
// address with the upper nibble of every byte left undefined (reads back
// as 1s).
type mbc2 struct {
	rom []byte
	ram [512]byte // only the low nibble of each byte is meaningful

	ramEnabled bool
	romBank    uint8

	romBanks int
}

func newMBC2(rom []byte, header Header) *mbc2 {
	return &mbc2{rom: rom, romBank: 1, romBanks: header.ROMBankCount}
}

func (m *mbc2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address < 0x8000:
		bank := int(m.romBank)
		if m.romBanks > 0 {
			bank %= m.romBanks
		}
		idx := bank*0x4000 + int(address-0x4000)
		if idx < len(m.rom) {
			return m.rom[idx]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address&0x1FF] | 0xF0
	}
	return 0xFF
}

func (m *mbc2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		// bit 8 of the address distinguishes a RAM-enable write (0) from a
		// ROM-bank-select write (1); both registers share the 0x0000-0x3FFF
		// range on real MBC2 hardware.
		if address&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
			return
		}
		bank := value & 0x0F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return
		}
		m.ram[address&0x1FF] = value & 0x0F
	}
}

func (m *mbc2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *mbc2) LoadRAM(d []byte) { copy(m.ram[:], d) }

var _ types.Stater = (*mbc2)(nil)

func (m *mbc2) Save(s *types.State) {
	s.WriteData(m.ram[:])
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
}

func (m *mbc2) Load(s *types.State) {
	s.ReadData(m.ram[:])
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
}
