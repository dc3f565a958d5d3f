package cartridge

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// mbc5 implements the MBC5 mapper: a 9-bit ROM bank register (allowing up
// to 512 banks) split across two write-only registers, and a 4-bit RAM
// bank register. Unlike MBC1/MBC3, bank 0 is selectable at 0x4000-0x7FFF
// like any other bank (no "bank 0 means bank 1" remap).
type mbc5 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBankLow uint8
	romBankHigh uint8
	ramBank    uint8

	romBanks int
}

func newMBC5(rom []byte, header Header) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, header.RAMSize), romBankLow: 1, romBanks: header.ROMBankCount}
}

func (m *mbc5) romBank() int {
	bank := int(m.romBankLow) | int(m.romBankHigh&0x01)<<8
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *mbc5) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address < 0x8000:
		idx := m.romBank()*0x4000 + int(address-0x4000)
		if idx < len(m.rom) {
			return m.rom[idx]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := int(m.ramBank&0x0F)*0x2000 + int(address-0xA000)
		return m.ram[offset%len(m.ram)]
	}
	return 0xFF
}

func (m *mbc5) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x3000:
		m.romBankLow = value
	case address < 0x4000:
		m.romBankHigh = value & 0x01
	case address < 0x6000:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := int(m.ramBank&0x0F)*0x2000 + int(address-0xA000)
		m.ram[offset%len(m.ram)] = value
	}
}

func (m *mbc5) SaveRAM() []byte  { return m.ram }
func (m *mbc5) LoadRAM(d []byte) { copy(m.ram, d) }

var _ types.Stater = (*mbc5)(nil)

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBankLow)
	s.Write8(m.romBankHigh)
	s.Write8(m.ramBank)
}

func (m *mbc5) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.romBankLow = s.Read8()
	m.romBankHigh = s.Read8()
	m.ramBank = s.Read8()
}
