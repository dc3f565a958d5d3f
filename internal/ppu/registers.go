package ppu

import "github.com/Caprini/ViboyColor-sub001/internal/types"

const (
	addrLCDC = 0xFF40
	addrSTAT = 0xFF41
	addrSCY  = 0xFF42
	addrSCX  = 0xFF43
	addrLY   = 0xFF44
	addrLYC  = 0xFF45
	addrDMA  = 0xFF46
	addrBGP  = 0xFF47
	addrOBP0 = 0xFF48
	addrOBP1 = 0xFF49
	addrWY   = 0xFF4A
	addrWX   = 0xFF4B
	addrVBK  = 0xFF4F

	addrHDMA1 = 0xFF51
	addrHDMA2 = 0xFF52
	addrHDMA3 = 0xFF53
	addrHDMA4 = 0xFF54
	addrHDMA5 = 0xFF55

	addrBCPS = 0xFF68
	addrBCPD = 0xFF69
	addrOCPS = 0xFF6A
	addrOCPD = 0xFF6B
)

// Read services the PPU's memory-mapped register block. The MMU routes
// FF40-FF4B, FF4F, FF51-FF55, and FF68-FF6B here.
func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case addrLCDC:
		return p.Controller.Read()
	case addrSTAT:
		return p.Status.Read()
	case addrSCY:
		return p.scy
	case addrSCX:
		return p.scx
	case addrLY:
		return p.ly
	case addrLYC:
		return p.lyc
	case addrDMA:
		return p.DMA.Read()
	case addrBGP:
		return p.bgp
	case addrOBP0:
		return p.obp0
	case addrOBP1:
		return p.obp1
	case addrWY:
		return p.wy
	case addrWX:
		return p.wx
	case addrVBK:
		return p.vbk | 0xFE
	case addrHDMA5:
		return p.HDMA.ReadControl()
	case addrBCPS:
		return p.bgpIndex | boolBit(p.bgpAutoInc, 7) | 0x40
	case addrBCPD:
		return p.bgPaletteRAM[p.bgpIndex]
	case addrOCPS:
		return p.objIndex | boolBit(p.objAutoInc, 7) | 0x40
	case addrOCPD:
		return p.objPaletteRAM[p.objIndex]
	}
	return 0xFF
}

// Write services the same register block for writes.
func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case addrLCDC:
		p.Controller.Write(value)
	case addrSTAT:
		p.Status.Write(value)
		p.checkStatLine()
	case addrSCY:
		p.scy = value
	case addrSCX:
		p.scx = value
	case addrLY:
		p.ly = 0
		p.checkLYC()
	case addrLYC:
		p.lyc = value
		p.checkLYC()
	case addrDMA:
		p.DMA.Write(value)
	case addrBGP:
		p.bgp = value
	case addrOBP0:
		p.obp0 = value
	case addrOBP1:
		p.obp1 = value
	case addrWY:
		p.wy = value
	case addrWX:
		p.wx = value
	case addrVBK:
		p.vbk = value & 0x01
	case addrHDMA1:
		p.HDMA.WriteSourceHigh(value)
	case addrHDMA2:
		p.HDMA.WriteSourceLow(value)
	case addrHDMA3:
		p.HDMA.WriteDestHigh(value)
	case addrHDMA4:
		p.HDMA.WriteDestLow(value)
	case addrHDMA5:
		p.HDMA.WriteControl(value)
	case addrBCPS:
		p.bgpIndex = value & 0x3F
		p.bgpAutoInc = value&0x80 != 0
	case addrBCPD:
		p.bgPaletteRAM[p.bgpIndex] = value
		if p.bgpAutoInc {
			p.bgpIndex = (p.bgpIndex + 1) & 0x3F
		}
	case addrOCPS:
		p.objIndex = value & 0x3F
		p.objAutoInc = value&0x80 != 0
	case addrOCPD:
		p.objPaletteRAM[p.objIndex] = value
		if p.objAutoInc {
			p.objIndex = (p.objIndex + 1) & 0x3F
		}
	}
}

func boolBit(v bool, bit uint8) uint8 {
	if v {
		return 1 << bit
	}
	return 0
}

func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[0][:])
	s.WriteData(p.vram[1][:])
	s.Write8(p.vbk)
	s.WriteData(p.bgPaletteRAM[:])
	s.WriteData(p.objPaletteRAM[:])
	s.Write8(p.bgpIndex)
	s.WriteBool(p.bgpAutoInc)
	s.Write8(p.objIndex)
	s.WriteBool(p.objAutoInc)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write8(p.windowLineCounter)
	s.Write16(p.dot)
	s.Write16(p.mode3Length)
	s.WriteBool(p.statLinePrev)
	s.WriteBool(p.frameDone)
	p.oam.Save(s)
	p.DMA.Save(s)
	p.HDMA.Save(s)
}

func (p *PPU) Load(s *types.State) {
	s.ReadData(p.vram[0][:])
	s.ReadData(p.vram[1][:])
	p.vbk = s.Read8()
	s.ReadData(p.bgPaletteRAM[:])
	s.ReadData(p.objPaletteRAM[:])
	p.bgpIndex = s.Read8()
	p.bgpAutoInc = s.ReadBool()
	p.objIndex = s.Read8()
	p.objAutoInc = s.ReadBool()
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	p.windowLineCounter = s.Read8()
	p.dot = s.Read16()
	p.mode3Length = s.Read16()
	p.statLinePrev = s.ReadBool()
	p.frameDone = s.ReadBool()
	p.oam.Load(s)
	p.DMA.Load(s)
	p.HDMA.Load(s)
}
