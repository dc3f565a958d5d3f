// Package joypad implements the Game Boy's P1 (0xFF00) joypad register:
// an active-low 4-bit row selected by two select bits, plus edge-
// triggered interrupt generation.
package joypad

import (
	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
	"github.com/Caprini/ViboyColor-sub001/pkg/bits"
)

// Button identifies a single physical key.
type Button = uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

// State is the joypad's register plus the absolute state of every key.
type State struct {
	irq *interrupts.Service

	selector uint8 // bits 4-5 of P1, as last written by the host program
	keys     uint8 // bitmask of currently held buttons, 1 = pressed
}

// New returns a State with no keys selected and all keys released.
func New(irq *interrupts.Service) *State {
	return &State{irq: irq, selector: 0x30}
}

// Read returns the current value of P1. Unselected/unused bits read as 1.
func (s *State) Read(address uint16) uint8 {
	if address != 0xFF00 {
		panic("joypad: illegal read")
	}
	line := uint8(0x0F)
	if s.selector&0x10 == 0 { // directions selected
		line &^= (s.keys >> 4) & 0x0F
	}
	if s.selector&0x20 == 0 { // actions selected
		line &^= s.keys & 0x0F
	}
	return s.selector | line | 0xC0
}

// Write stores the host-program-controlled select bits of P1.
func (s *State) Write(address uint16, value uint8) {
	if address != 0xFF00 {
		panic("joypad: illegal write")
	}
	s.selector = (s.selector & 0xCF) | (value & 0x30)
}

// SetState applies the absolute pressed/released state of all eight keys
// in one idempotent call, matching the core's set_joypad host port
// (spec.md §6). It raises the joypad IRQ on any newly pressed key whose
// row is currently selected.
func (s *State) SetState(up, down, left, right, a, b, start, select_ bool) {
	var next uint8
	setIf := func(pressed bool, bit Button) {
		if pressed {
			next |= bit
		}
	}
	setIf(a, ButtonA)
	setIf(b, ButtonB)
	setIf(select_, ButtonSelect)
	setIf(start, ButtonStart)
	setIf(right, ButtonRight)
	setIf(left, ButtonLeft)
	setIf(up, ButtonUp)
	setIf(down, ButtonDown)

	newlyPressed := next &^ s.keys
	s.keys = next

	if newlyPressed == 0 {
		return
	}
	if s.selector&0x10 == 0 && newlyPressed&0xF0 != 0 {
		s.irq.Request(interrupts.JoypadFlag)
	}
	if s.selector&0x20 == 0 && newlyPressed&0x0F != 0 {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

// Pressed reports whether a single button is currently held.
func (s *State) Pressed(b Button) bool {
	return bits.Test(s.keys, bitIndex(b))
}

func bitIndex(b Button) uint8 {
	i := uint8(0)
	for b > 1 {
		b >>= 1
		i++
	}
	return i
}

var _ types.Stater = (*State)(nil)

func (s *State) Save(st *types.State) {
	st.Write8(s.selector)
	st.Write8(s.keys)
}

func (s *State) Load(st *types.State) {
	s.selector = st.Read8()
	s.keys = st.Read8()
}
