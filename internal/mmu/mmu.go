// Package mmu provides the Game Boy's memory management unit: the full
// 64 KiB address decode, echo RAM mirroring, WRAM banking, and the
// PPU-mode/OAM-DMA blocking rules that gate VRAM/OAM visibility.
package mmu

import (
	"github.com/Caprini/ViboyColor-sub001/internal/cartridge"
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/joypad"
	"github.com/Caprini/ViboyColor-sub001/internal/ppu"
	"github.com/Caprini/ViboyColor-sub001/internal/ram"
	"github.com/Caprini/ViboyColor-sub001/internal/timer"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
	"github.com/Caprini/ViboyColor-sub001/pkg/log"
)

// CPU is the narrow surface the MMU needs for the CGB KEY1 speed-switch
// register; the cpu package satisfies it directly.
type CPU interface {
	SetSpeedSwitchArmed(bool)
	SpeedSwitchArmed() bool
	DoubleSpeed() bool
}

// MMU wires the cartridge, working RAM, and every other subsystem's
// register block into a single 64 KiB address space.
type MMU struct {
	Cart    *cartridge.Cartridge
	PPU     *ppu.PPU
	Timer   *timer.Controller
	Joypad  *joypad.State
	IRQ     *interrupts.Service
	cpu     CPU
	isCGB   bool
	Log     log.Logger

	wram     [8][0x1000]byte
	wramBank uint8
	hram     *ram.RAM // 0xFF80-0xFFFE, the 127-byte block accessible during OAM DMA

	sb, sc uint8
	sound  [0x30]byte // FF10-FF3F, stored but not acted on: the APU is a sibling subsystem this core does not specify
}

// New returns an MMU with every subsystem but the PPU wired; the PPU is
// attached afterward via AttachPPU, since the PPU's DMA/HDMA
// controllers need this MMU as their source bus (spec.md's "emulator
// context" cyclic-reference pattern: construct each side, then wire).
// cpu satisfies the CPU interface (KEY1 speed-switch forwarding); isCGB
// selects WRAM banking and the CGB-only register set.
func New(cart *cartridge.Cartridge, t *timer.Controller, j *joypad.State, irq *interrupts.Service, cpu CPU, isCGB bool, logger log.Logger) *MMU {
	return &MMU{
		Cart:   cart,
		Timer:  t,
		Joypad: j,
		IRQ:    irq,
		cpu:    cpu,
		isCGB:  isCGB,
		Log:    logger,
		hram:   ram.New(0x80),
	}
}

// AttachPPU wires the PPU into the address space. Must be called before
// any Read/Write.
func (m *MMU) AttachPPU(p *ppu.PPU) {
	m.PPU = p
}

func (m *MMU) wramHighBank() uint8 {
	if !m.isCGB {
		return 1
	}
	if m.wramBank == 0 {
		return 1
	}
	return m.wramBank
}

// Read implements the cpu.Bus and ppu.DMABus contracts.
func (m *MMU) Read(address uint16) uint8 {
	if m.PPU.DMA.Active() && address < 0xFF80 {
		return 0xFF
	}

	switch {
	case address <= 0x7FFF:
		return m.Cart.Read(address)
	case address <= 0x9FFF:
		if m.PPU.BlocksVRAM() {
			return 0xFF
		}
		return m.PPU.VRAMRead(address)
	case address <= 0xBFFF:
		return m.Cart.Read(address)
	case address <= 0xCFFF:
		return m.wram[0][address-0xC000]
	case address <= 0xDFFF:
		return m.wram[m.wramHighBank()][address-0xD000]
	case address <= 0xEFFF:
		return m.wram[0][address-0xE000]
	case address <= 0xFDFF:
		return m.wram[m.wramHighBank()][address-0xF000]
	case address <= 0xFE9F:
		if m.PPU.BlocksOAM() {
			return 0xFF
		}
		return m.PPU.OAMRead(address)
	case address <= 0xFEFF:
		return 0xFF
	case address == 0xFF00:
		return m.Joypad.Read(address)
	case address == 0xFF01:
		return m.sb
	case address == 0xFF02:
		return m.sc | 0x7E
	case address >= 0xFF04 && address <= 0xFF07:
		return m.Timer.Read(address)
	case address == 0xFF0F:
		return m.IRQ.Read(address)
	case address >= 0xFF10 && address <= 0xFF3F:
		return m.sound[address-0xFF10]
	case address >= 0xFF40 && address <= 0xFF4B:
		return m.PPU.Read(address)
	case address == 0xFF4D:
		if !m.isCGB {
			return 0xFF
		}
		v := uint8(0x7E)
		if m.cpu.DoubleSpeed() {
			v |= 0x80
		}
		if m.cpu.SpeedSwitchArmed() {
			v |= 0x01
		}
		return v
	case address == 0xFF4F, address >= 0xFF51 && address <= 0xFF55, address >= 0xFF68 && address <= 0xFF6B:
		if !m.isCGB {
			return 0xFF
		}
		return m.PPU.Read(address)
	case address == 0xFF70:
		if !m.isCGB {
			return 0xFF
		}
		return m.wramBank&0x07 | 0xF8
	case address == 0xFFFF:
		return m.IRQ.Read(address)
	case address >= 0xFF80:
		return m.hram.Read(address - 0xFF80)
	}
	return 0xFF
}

// Write implements the cpu.Bus contract.
func (m *MMU) Write(address uint16, value uint8) {
	if m.PPU.DMA.Active() && address < 0xFF80 {
		return
	}

	switch {
	case address <= 0x7FFF:
		m.Cart.Write(address, value)
	case address <= 0x9FFF:
		if m.PPU.BlocksVRAM() {
			return
		}
		m.PPU.VRAMWrite(address, value)
	case address <= 0xBFFF:
		m.Cart.Write(address, value)
	case address <= 0xCFFF:
		m.wram[0][address-0xC000] = value
	case address <= 0xDFFF:
		m.wram[m.wramHighBank()][address-0xD000] = value
	case address <= 0xEFFF:
		m.wram[0][address-0xE000] = value
	case address <= 0xFDFF:
		m.wram[m.wramHighBank()][address-0xF000] = value
	case address <= 0xFE9F:
		if m.PPU.BlocksOAM() {
			return
		}
		m.PPU.OAMWrite(address, value)
	case address <= 0xFEFF:
		return
	case address == 0xFF00:
		m.Joypad.Write(address, value)
	case address == 0xFF01:
		m.sb = value
	case address == 0xFF02:
		m.sc = value
	case address >= 0xFF04 && address <= 0xFF07:
		m.Timer.Write(address, value)
	case address == 0xFF0F:
		m.IRQ.Write(address, value)
	case address >= 0xFF10 && address <= 0xFF3F:
		m.sound[address-0xFF10] = value
	case address >= 0xFF40 && address <= 0xFF4B:
		m.PPU.Write(address, value)
	case address == 0xFF4D:
		if m.isCGB {
			m.cpu.SetSpeedSwitchArmed(value&0x01 != 0)
		}
	case address == 0xFF4F, address >= 0xFF51 && address <= 0xFF55, address >= 0xFF68 && address <= 0xFF6B:
		if m.isCGB {
			m.PPU.Write(address, value)
		}
	case address == 0xFF70:
		if m.isCGB {
			m.wramBank = value & 0x07
		}
	case address == 0xFFFF:
		m.IRQ.Write(address, value)
	case address >= 0xFF80:
		m.hram.Write(address-0xFF80, value)
	}
}

var _ types.Stater = (*MMU)(nil)

func (m *MMU) Save(s *types.State) {
	for i := range m.wram {
		s.WriteData(m.wram[i][:])
	}
	s.Write8(m.wramBank)
	s.WriteData(m.hram.Raw())
	s.Write8(m.sb)
	s.Write8(m.sc)
	s.WriteData(m.sound[:])
}

func (m *MMU) Load(s *types.State) {
	for i := range m.wram {
		s.ReadData(m.wram[i][:])
	}
	m.wramBank = s.Read8()
	s.ReadData(m.hram.Raw())
	m.sb = s.Read8()
	m.sc = s.Read8()
	s.ReadData(m.sound[:])
}
