package cartridge

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// romOnly is the plain "no mapper" cartridge: a fixed bank 0 at
// 0x0000-0x3FFF, a fixed bank 1 at 0x4000-0x7FFF, and up to 8 KiB of
// unbanked external RAM with no enable latch.
type romOnly struct {
	rom []byte
	ram []byte
}

func newROMOnly(rom []byte, header Header) *romOnly {
	return &romOnly{rom: rom, ram: make([]byte, header.RAMSize)}
}

func (m *romOnly) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		if len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[(address-0xA000)%uint16(len(m.ram))]
	}
	return 0xFF
}

func (m *romOnly) Write(address uint16, value uint8) {
	if address >= 0xA000 && address < 0xC000 && len(m.ram) > 0 {
		m.ram[(address-0xA000)%uint16(len(m.ram))] = value
	}
	// writes to the ROM area are discarded; there is no mapper to program.
}

func (m *romOnly) SaveRAM() []byte { return m.ram }
func (m *romOnly) LoadRAM(d []byte) {
	copy(m.ram, d)
}

var _ types.Stater = (*romOnly)(nil)

func (m *romOnly) Save(s *types.State) { s.WriteData(m.ram) }
func (m *romOnly) Load(s *types.State) { s.ReadData(m.ram) }
