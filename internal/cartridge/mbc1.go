package cartridge

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// mbc1 implements the MBC1 mapper: up to 125 usable ROM banks and up to
// 4 RAM banks of 8 KiB, selected by a 5-bit "bank1" register and a 2-bit
// "bank2" register whose meaning (upper ROM bits vs. RAM bank) depends on
// the banking mode latch.
type mbc1 struct {
	rom []byte
	ram []byte

	ramg bool  // 0x0000-0x1FFF: RAM enable latch
	bank1 uint8 // 0x2000-0x3FFF: lower 5 bits of the ROM bank number
	bank2 uint8 // 0x4000-0x5FFF: upper 2 bits of ROM bank, or RAM bank
	mode  bool  // 0x6000-0x7FFF: advanced (RAM) banking mode

	romBanks int
	isMultiCart bool
}

func newMBC1(rom []byte, header Header) *mbc1 {
	m := &mbc1{
		rom:      rom,
		ram:      make([]byte, header.RAMSize),
		bank1:    1,
		romBanks: header.ROMBankCount,
	}
	m.checkMultiCart()
	return m
}

// nintendoLogo is the 48-byte Nintendo logo every valid cartridge header
// repeats at 0x0104-0x0133; multicart compilations repeat it at the start
// of every constituent 256 KiB region.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// checkMultiCart applies the common heuristic for detecting MBC1M
// multicart ROMs: a 1 MiB ROM where the logo repeats at the start of more
// than one 256 KiB quadrant uses 4-bit (not 5-bit) bank1 addressing.
func (m *mbc1) checkMultiCart() {
	if len(m.rom) != 1024*1024 {
		return
	}
	matches := 0
	for bank := 0; bank < 4; bank++ {
		base := bank * 0x40000
		ok := true
		for i, want := range nintendoLogo {
			if m.rom[base+0x104+i] != want {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	m.isMultiCart = matches > 1
}

func (m *mbc1) bankShift() uint8 {
	if m.isMultiCart {
		return 4
	}
	return 5
}

func (m *mbc1) romBank() int {
	bank1 := m.bank1
	if m.isMultiCart {
		bank1 &= 0x0F
	} else {
		bank1 &= 0x1F
	}
	bank := int(bank1) | int(m.bank2)<<m.bankShift()
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

// zeroBank is the bank mapped at 0x0000-0x3FFF: normally bank 0, but in
// advanced banking mode on ROMs >= 1 MiB, bank2 also selects which of
// banks 0x00/0x20/0x40/0x60 appears there.
func (m *mbc1) zeroBank() int {
	if !m.mode || len(m.rom) < 1024*1024 {
		return 0
	}
	bank := int(m.bank2) << m.bankShift()
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *mbc1) ramBank() int {
	if !m.mode {
		return 0
	}
	return int(m.bank2 & 0x03)
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.romAt(m.zeroBank(), address)
	case address < 0x8000:
		return m.romAt(m.romBank(), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramg || len(m.ram) == 0 {
			return 0xFF
		}
		offset := m.ramBank()*0x2000 + int(address-0xA000)
		return m.ram[offset%len(m.ram)]
	}
	return 0xFF
}

func (m *mbc1) romAt(bank int, offset uint16) uint8 {
	idx := bank*0x4000 + int(offset)
	if idx >= len(m.rom) {
		return 0xFF
	}
	return m.rom[idx]
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramg = value&0x0F == 0x0A
	case address < 0x4000:
		v := value & 0x1F
		if v == 0 {
			v = 1
		}
		m.bank1 = v
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value&0x01 == 1
	case address >= 0xA000 && address < 0xC000:
		if !m.ramg || len(m.ram) == 0 {
			return
		}
		offset := m.ramBank()*0x2000 + int(address-0xA000)
		m.ram[offset%len(m.ram)] = value
	}
}

func (m *mbc1) SaveRAM() []byte   { return m.ram }
func (m *mbc1) LoadRAM(d []byte)  { copy(m.ram, d) }

var _ types.Stater = (*mbc1)(nil)

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramg)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
}

func (m *mbc1) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramg = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
}
