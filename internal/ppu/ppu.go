// Package ppu implements the scanline-accurate Game Boy picture
// processing unit: the LY/STAT state machine, OAM DMA, and the
// background/window/sprite compositor.
package ppu

import (
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/ppu/lcd"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine   = 456
	oamScanDots   = 80
	minDrawDots   = 172
	maxDrawDots   = 289
	vblankStartLY = 144
	lastLY        = 153
)

// Bus is the bus surface the PPU's DMA controllers read source bytes
// from. The MMU satisfies this directly.
type Bus interface {
	DMABus
}

// PPU owns VRAM, OAM, the LCDC/STAT register pair, and the CGB palette
// RAM, and drives the scanline state machine from T-cycles handed to it
// by the orchestrator.
type PPU struct {
	model types.Model

	Controller *lcd.Controller
	Status     *lcd.Status
	oam        *oam
	DMA        *DMA
	HDMA       *HDMA

	irq *interrupts.Service

	vram [2][0x2000]byte
	vbk  uint8

	bgPaletteRAM  [64]byte
	objPaletteRAM [64]byte
	bgpIndex      uint8
	bgpAutoInc    bool
	objIndex      uint8
	objAutoInc    bool

	ly, lyc        uint8
	scy, scx       uint8
	wy, wx         uint8
	bgp, obp0, obp1 uint8

	windowLineCounter   uint8
	windowTriggeredLine bool

	dot         uint16
	mode3Length uint16
	statLinePrev bool

	frame     [ScreenHeight][ScreenWidth]uint16
	frameDone bool

	spritesThisLine []sprite
}

func New(bus Bus, irq *interrupts.Service, model types.Model) *PPU {
	p := &PPU{
		model:      model,
		Controller: lcd.NewController(),
		Status:     lcd.NewStatus(),
		oam:        newOAM(),
		irq:        irq,
	}
	p.DMA = newDMA(bus, p.oam)
	p.HDMA = newHDMA(bus, p)
	return p
}

// Reset applies the documented post-boot register values (spec.md §6).
func (p *PPU) Reset() {
	p.Controller.Write(0x91)
	p.Status.Write(0x85)
	p.Status.Mode = lcd.ModeOAMScan
	p.ly = 0
	p.lyc = 0
	p.scy, p.scx = 0, 0
	p.wy, p.wx = 0, 0
	p.bgp = 0xFC
	p.obp0, p.obp1 = 0xFF, 0xFF
	p.dot = 0
	p.mode3Length = minDrawDots
	p.statLinePrev = false
	p.windowLineCounter = 0
	p.frameDone = false
}

// FrameDone reports whether the PPU has completed LY 153→0 since the
// last ClearFrameDone, the orchestrator's frame boundary.
func (p *PPU) FrameDone() bool { return p.frameDone }

func (p *PPU) ClearFrameDone() { p.frameDone = false }

// Frame returns the completed framebuffer: raw shade indices 0..3 for
// DMG, 15-bit BGR values for CGB. The core never mutates it between
// step_frame boundaries.
func (p *PPU) Frame() *[ScreenHeight][ScreenWidth]uint16 { return &p.frame }

// Tick advances the PPU state machine by t T-cycles.
func (p *PPU) Tick(t uint32) {
	if !p.Controller.Enabled {
		return
	}
	for i := uint32(0); i < t; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	switch p.Status.Mode {
	case lcd.ModeOAMScan:
		if p.dot == 0 {
			p.spritesThisLine = p.oam.scanLine(int(p.ly), int(p.Controller.SpriteHeight))
			p.mode3Length = p.estimateMode3Length()
		}
	case lcd.ModePixelTransfer:
		if p.dot == oamScanDots {
			p.renderScanline()
		}
	}

	p.dot++

	switch p.Status.Mode {
	case lcd.ModeOAMScan:
		if p.dot >= oamScanDots {
			p.setMode(lcd.ModePixelTransfer)
		}
	case lcd.ModePixelTransfer:
		if p.dot >= oamScanDots+p.mode3Length {
			p.setMode(lcd.ModeHBlank)
		}
	case lcd.ModeHBlank:
		if p.dot >= dotsPerLine {
			p.advanceLine()
		}
	case lcd.ModeVBlank:
		if p.dot >= dotsPerLine {
			p.advanceLine()
		}
	}
}

// estimateMode3Length follows spec.md §4.7's permitted fixed-duration
// approximation: the base 172 dots plus a penalty for sprite count and
// the SCX%8 fine-scroll fetch, capped at the documented maximum.
func (p *PPU) estimateMode3Length() uint16 {
	length := uint16(minDrawDots)
	length += uint16(p.scx % 8)
	length += uint16(len(p.spritesThisLine)) * 6
	if length > maxDrawDots {
		length = maxDrawDots
	}
	return length
}

func (p *PPU) setMode(m lcd.Mode) {
	p.Status.Mode = m
	if m == lcd.ModeHBlank {
		p.HDMA.NotifyHBlank()
	}
	p.checkStatLine()
}

// advanceLine moves LY forward by one, handling the 143→144 VBlank
// entry and the 153→0 frame-boundary wraparound.
func (p *PPU) advanceLine() {
	p.dot = 0
	if p.ly == vblankStartLY-1 {
		p.ly++
		p.setMode(lcd.ModeVBlank)
		p.irq.Request(interrupts.VBlankFlag)
		p.checkLYC()
		return
	}
	if p.ly == lastLY {
		p.ly = 0
		p.windowLineCounter = 0
		p.frameDone = true
		p.setMode(lcd.ModeOAMScan)
		p.checkLYC()
		return
	}
	p.ly++
	if p.ly < vblankStartLY {
		p.setMode(lcd.ModeOAMScan)
	}
	p.checkLYC()
}

func (p *PPU) checkLYC() {
	p.Status.Coincidence = p.ly == p.lyc
	p.checkStatLine()
}

// checkStatLine recomputes the STAT-line OR and raises the LCD
// interrupt only on a 0→1 transition (spec.md §4.7).
func (p *PPU) checkStatLine() {
	line := p.Status.InterruptLine()
	if line && !p.statLinePrev {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLinePrev = line
}

// BlocksVRAM reports whether the CPU-visible VRAM window should be
// opaque (read 0xFF, discard writes) right now.
func (p *PPU) BlocksVRAM() bool {
	return p.Controller.Enabled && p.Status.Mode == lcd.ModePixelTransfer
}

// BlocksOAM reports whether CPU-visible OAM should be opaque right now.
func (p *PPU) BlocksOAM() bool {
	if p.DMA.Active() {
		return true
	}
	return p.Controller.Enabled && (p.Status.Mode == lcd.ModeOAMScan || p.Status.Mode == lcd.ModePixelTransfer)
}

func (p *PPU) VRAMRead(address uint16) uint8 {
	return p.vram[p.vbk][address&0x1FFF]
}

func (p *PPU) VRAMWrite(address uint16, value uint8) {
	p.vram[p.vbk][address&0x1FFF] = value
}

func (p *PPU) OAMRead(address uint16) uint8  { return p.oam.Read(address) }
func (p *PPU) OAMWrite(address uint16, value uint8) { p.oam.Write(address, value) }

var _ types.Stater = (*PPU)(nil)
