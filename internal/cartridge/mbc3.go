package cartridge

import "github.com/Caprini/ViboyColor-sub001/internal/types"

// rtc holds the MBC3 real-time clock's five latched registers: seconds,
// minutes, hours, and a 9-bit day counter split across DL/DH, plus the
// halt and day-carry bits packed into DH.
type rtc struct {
	seconds, minutes, hours uint8
	dayLow                  uint8
	dayHigh                 uint8 // bit0: day bit 8, bit6: halt, bit7: day carry

	latched   rtc0 // snapshot taken on the 0->1 latch write sequence
	latchPrev uint8
}

// rtc0 is the subset of rtc fields that get copied into the latch
// snapshot; kept distinct from rtc to avoid embedding the snapshot inside
// itself.
type rtc0 struct {
	seconds, minutes, hours, dayLow, dayHigh uint8
}

// mbc3 implements the MBC3 mapper: a 7-bit ROM bank register, and a
// RAM-bank-or-RTC-register selector in the same 0x4000-0x5FFF window.
type mbc3 struct {
	rom []byte
	ram []byte
	clock rtc

	ramRTCEnabled bool
	romBank       uint8
	ramBank       uint8 // 0x00-0x03 selects RAM; 0x08-0x0C selects an RTC register

	romBanks int
	hasRTC   bool
}

func newMBC3(rom []byte, header Header) *mbc3 {
	return &mbc3{
		rom:      rom,
		ram:      make([]byte, header.RAMSize),
		romBank:  1,
		romBanks: header.ROMBankCount,
		hasRTC:   header.CartType.hasRTC(),
	}
}

func (m *mbc3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address < 0x8000:
		bank := int(m.romBank)
		if bank == 0 {
			bank = 1
		}
		if m.romBanks > 0 {
			bank %= m.romBanks
		}
		idx := bank*0x4000 + int(address-0x4000)
		if idx < len(m.rom) {
			return m.rom[idx]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		if !m.ramRTCEnabled {
			return 0xFF
		}
		if m.ramBank <= 0x03 {
			if len(m.ram) == 0 {
				return 0xFF
			}
			offset := int(m.ramBank)*0x2000 + int(address-0xA000)
			return m.ram[offset%len(m.ram)]
		}
		if m.hasRTC {
			return m.readRTCRegister()
		}
		return 0xFF
	}
	return 0xFF
}

func (m *mbc3) readRTCRegister() uint8 {
	switch m.ramBank {
	case 0x08:
		return m.clock.latched.seconds
	case 0x09:
		return m.clock.latched.minutes
	case 0x0A:
		return m.clock.latched.hours
	case 0x0B:
		return m.clock.latched.dayLow
	case 0x0C:
		return m.clock.latched.dayHigh
	}
	return 0xFF
}

func (m *mbc3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramRTCEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address < 0x6000:
		m.ramBank = value
	case address < 0x8000:
		// the 0->1 transition latches the live registers into the
		// snapshot read back through readRTCRegister.
		if m.latchPrev == 0 && value == 1 {
			m.latch()
		}
		m.latchPrev = value
	case address >= 0xA000 && address < 0xC000:
		if !m.ramRTCEnabled {
			return
		}
		if m.ramBank <= 0x03 {
			if len(m.ram) == 0 {
				return
			}
			offset := int(m.ramBank)*0x2000 + int(address-0xA000)
			m.ram[offset%len(m.ram)] = value
			return
		}
		if m.hasRTC {
			m.writeRTCRegister(value)
		}
	}
}

func (m *mbc3) writeRTCRegister(value uint8) {
	switch m.ramBank {
	case 0x08:
		m.clock.seconds = value
	case 0x09:
		m.clock.minutes = value
	case 0x0A:
		m.clock.hours = value
	case 0x0B:
		m.clock.dayLow = value
	case 0x0C:
		m.clock.dayHigh = value & 0xC1
	}
}

func (m *mbc3) latch() {
	m.clock.latched = rtc0{
		seconds: m.clock.seconds,
		minutes: m.clock.minutes,
		hours:   m.clock.hours,
		dayLow:  m.clock.dayLow,
		dayHigh: m.clock.dayHigh,
	}
}

// Tick advances the RTC by the given number of whole seconds, rolling
// minutes/hours/days and setting the day-carry bit in dayHigh on overflow
// past the 9-bit day counter. It is a no-op while the halt bit is set or
// the cartridge has no RTC.
func (m *mbc3) Tick(seconds uint64) {
	if !m.hasRTC || m.clock.dayHigh&0x40 != 0 {
		return
	}
	for ; seconds > 0; seconds-- {
		m.clock.seconds++
		if m.clock.seconds < 60 {
			continue
		}
		m.clock.seconds = 0
		m.clock.minutes++
		if m.clock.minutes < 60 {
			continue
		}
		m.clock.minutes = 0
		m.clock.hours++
		if m.clock.hours < 24 {
			continue
		}
		m.clock.hours = 0
		m.clock.dayLow++
		if m.clock.dayLow != 0 {
			continue
		}
		if m.clock.dayHigh&0x01 == 0 {
			m.clock.dayHigh |= 0x01
		} else {
			m.clock.dayHigh &^= 0x01
			m.clock.dayHigh |= 0x80
		}
	}
}

func (m *mbc3) SaveRAM() []byte  { return m.ram }
func (m *mbc3) LoadRAM(d []byte) { copy(m.ram, d) }

var _ types.Stater = (*mbc3)(nil)

func (m *mbc3) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramRTCEnabled)
	s.Write8(m.romBank)
	s.Write8(m.ramBank)
	s.Write8(m.clock.seconds)
	s.Write8(m.clock.minutes)
	s.Write8(m.clock.hours)
	s.Write8(m.clock.dayLow)
	s.Write8(m.clock.dayHigh)
	s.Write8(m.clock.latched.seconds)
	s.Write8(m.clock.latched.minutes)
	s.Write8(m.clock.latched.hours)
	s.Write8(m.clock.latched.dayLow)
	s.Write8(m.clock.latched.dayHigh)
	s.Write8(m.latchPrev)
}

func (m *mbc3) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramRTCEnabled = s.ReadBool()
	m.romBank = s.Read8()
	m.ramBank = s.Read8()
	m.clock.seconds = s.Read8()
	m.clock.minutes = s.Read8()
	m.clock.hours = s.Read8()
	m.clock.dayLow = s.Read8()
	m.clock.dayHigh = s.Read8()
	m.clock.latched.seconds = s.Read8()
	m.clock.latched.minutes = s.Read8()
	m.clock.latched.hours = s.Read8()
	m.clock.latched.dayLow = s.Read8()
	m.clock.latched.dayHigh = s.Read8()
	m.latchPrev = s.Read8()
}
