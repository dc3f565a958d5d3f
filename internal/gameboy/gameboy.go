// Package gameboy is the public core API: it owns every subsystem,
// wires their cyclic back-references once at reset, and drives the
// single-threaded orchestrator loop described in spec.md §4.8.
package gameboy

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/Caprini/ViboyColor-sub001/internal/cartridge"
	"github.com/Caprini/ViboyColor-sub001/internal/cpu"
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/joypad"
	"github.com/Caprini/ViboyColor-sub001/internal/mmu"
	"github.com/Caprini/ViboyColor-sub001/internal/ppu"
	"github.com/Caprini/ViboyColor-sub001/internal/ppu/palette"
	"github.com/Caprini/ViboyColor-sub001/internal/timer"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
	"github.com/Caprini/ViboyColor-sub001/pkg/log"
)

// ClockSpeed is the LR35902's nominal single-speed clock, in Hz.
const ClockSpeed = 4194304

// GameBoy owns every subsystem and exposes the narrow core surface
// spec.md §6 defines: attach_cartridge, reset, step_frame, framebuffer,
// set_joypad, save_ram/load_ram.
type GameBoy struct {
	forcedModel types.Model
	model       types.Model
	log         log.Logger
	bootROM     []byte
	paletteID   palette.ID

	cart *cartridge.Cartridge

	irq    *interrupts.Service
	timer  *timer.Controller
	joypad *joypad.State
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	mmu    *mmu.MMU

	lastError LastError
}

// New returns a GameBoy with no cartridge attached; AttachCartridge must
// be called before StepFrame does anything.
func New(opts ...GameBoyOpt) *GameBoy {
	gb := &GameBoy{
		forcedModel: types.ModelAuto,
		log:         log.New(),
	}
	for _, opt := range opts {
		opt(gb)
	}
	return gb
}

// AttachCartridge parses rom's header, constructs the matching mapper
// (seeded with ramInitial if non-nil), and performs the same wiring
// Reset does. It returns the cartridge package's sentinel errors
// (ErrUnsupportedMBC, ErrROMTooLarge) wrapped per spec.md §7's
// CartridgeRejected condition.
func (gb *GameBoy) AttachCartridge(rom, ramInitial []byte) error {
	cart, err := cartridge.New(rom, ramInitial)
	if err != nil {
		gb.log.Errorf("cartridge rejected: %v", err)
		return fmt.Errorf("gameboy: cartridge rejected: %w", err)
	}
	gb.cart = cart
	gb.log.Infof("attached cartridge: %s", cart.Header())
	return gb.Reset(gb.forcedModel)
}

// Reset (re)constructs every subsystem and wires their cyclic back-
// references (spec.md §9's "emulator context" pattern), then synthesizes
// the documented post-boot register state. mode selects DMG, CGB, or
// ModelAuto (follow the cartridge header's CGB flag at 0x0143).
func (gb *GameBoy) Reset(mode types.Model) error {
	if gb.cart == nil {
		return ErrNoCartridge
	}

	effective := mode
	if effective == types.ModelAuto {
		if gb.cart.Header().GameboyColor() {
			effective = types.ModelCGB
		} else {
			effective = types.ModelDMG
		}
	}
	isCGB := effective == types.ModelCGB

	gb.irq = interrupts.NewService()
	gb.timer = timer.NewController(gb.irq)
	gb.joypad = joypad.New(gb.irq)
	gb.cpu = cpu.New(nil, gb.irq)
	gb.mmu = mmu.New(gb.cart, gb.timer, gb.joypad, gb.irq, gb.cpu, isCGB, gb.log)
	gb.ppu = ppu.New(gb.mmu, gb.irq, effective)
	gb.mmu.AttachPPU(gb.ppu)
	gb.cpu.SetBus(gb.mmu)

	gb.cpu.Reset(isCGB)
	gb.ppu.Reset()
	gb.model = effective
	gb.lastError = ErrNone

	return nil
}

// StepFrame runs the orchestrator loop of spec.md §4.8 until the PPU
// completes a frame (LY 153→0). It is a no-op once LastError reports
// ErrCPULockup, until Reset is called.
func (gb *GameBoy) StepFrame() error {
	if gb.cart == nil {
		return ErrNoCartridge
	}
	if gb.lastError == ErrCPULockup {
		return nil
	}

	gb.ppu.ClearFrameDone()
	for !gb.ppu.FrameDone() {
		t := gb.cpu.Step()
		if gb.cpu.Locked {
			gb.lastError = ErrCPULockup
			gb.log.Debugf("cpu lockup latched")
			return nil
		}

		for i := uint32(0); i < t; i++ {
			gb.timer.Tick()
			gb.ppu.DMA.Tick()
		}
		gb.ppu.Tick(t)

		if gb.cpu.DIVResetRequested {
			gb.timer.Reset()
			gb.cpu.DIVResetRequested = false
		}
	}
	return nil
}

// LastError reports the latched exceptional condition, if any.
func (gb *GameBoy) LastError() LastError { return gb.lastError }

// Model reports the hardware profile the last Reset resolved to.
func (gb *GameBoy) Model() types.Model { return gb.model }

// Framebuffer returns the core's raw output: shade indices 0..3 on DMG,
// 15-bit BGR on CGB. The core guarantees it is stable between StepFrame
// returns.
func (gb *GameBoy) Framebuffer() *[ppu.ScreenHeight][ppu.ScreenWidth]uint16 {
	return gb.ppu.Frame()
}

// FrameRGB is a host-presentation convenience that resolves the raw
// framebuffer to 24-bit RGB: via the selected DMG host palette, or via
// the CGB's own BGR555 palette RAM. step_frame never calls this.
func (gb *GameBoy) FrameRGB() [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8 {
	var out [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8
	frame := gb.ppu.Frame()
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			v := frame[y][x]
			if gb.model == types.ModelCGB {
				out[y][x] = bgr555ToRGB(v)
			} else {
				out[y][x] = palette.Color(gb.paletteID, uint8(v))
			}
		}
	}
	return out
}

func bgr555ToRGB(v uint16) [3]uint8 {
	r := uint8(v & 0x1F)
	g := uint8((v >> 5) & 0x1F)
	b := uint8((v >> 10) & 0x1F)
	scale := func(c uint8) uint8 { return uint8(uint16(c) * 255 / 31) }
	return [3]uint8{scale(r), scale(g), scale(b)}
}

// FrameHash computes spec.md §6's determinism-contract hash of the
// current framebuffer.
func (gb *GameBoy) FrameHash() uint64 {
	frame := gb.ppu.Frame()
	buf := make([]byte, 0, ppu.ScreenHeight*ppu.ScreenWidth*2)
	var tmp [2]byte
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			binary.LittleEndian.PutUint16(tmp[:], frame[y][x])
			buf = append(buf, tmp[:]...)
		}
	}
	return xxhash.Sum64(buf)
}

// SetJoypad applies the absolute state of all eight keys in one
// idempotent call, per spec.md §6.
func (gb *GameBoy) SetJoypad(up, down, left, right, a, b, start, selectButton bool) {
	gb.joypad.SetState(up, down, left, right, a, b, start, selectButton)
}

// SaveRAM returns the cartridge's external RAM, or nil if the attached
// mapper has none.
func (gb *GameBoy) SaveRAM() []byte {
	if gb.cart == nil {
		return nil
	}
	return gb.cart.SaveRAM()
}

// LoadRAM restores external RAM previously returned by SaveRAM.
func (gb *GameBoy) LoadRAM(data []byte) {
	if gb.cart == nil {
		return
	}
	gb.cart.LoadRAM(data)
}

// SaveState serializes the entire machine (CPU, MMU, PPU, timer,
// interrupts, joypad, cartridge/MBC), strictly more than save_ram: spec.md
// doesn't require this, but the teacher's types.Stater pattern makes it
// nearly free once every component implements it.
func (gb *GameBoy) SaveState() ([]byte, error) {
	if gb.cart == nil {
		return nil, ErrNoCartridge
	}
	s := types.NewState()
	gb.cpu.Save(s)
	gb.mmu.Save(s)
	gb.ppu.Save(s)
	gb.timer.Save(s)
	gb.irq.Save(s)
	gb.joypad.Save(s)
	gb.cart.Save(s)
	return s.Bytes(), nil
}

// LoadState restores a blob previously returned by SaveState, in the
// same order it was written.
func (gb *GameBoy) LoadState(data []byte) error {
	if gb.cart == nil {
		return ErrNoCartridge
	}
	s := types.StateFromBytes(data)
	gb.cpu.Load(s)
	gb.mmu.Load(s)
	gb.ppu.Load(s)
	gb.timer.Load(s)
	gb.irq.Load(s)
	gb.joypad.Load(s)
	gb.cart.Load(s)
	return nil
}
