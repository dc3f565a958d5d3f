package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Caprini/ViboyColor-sub001/internal/interrupts"
)

// With neither row selected, P1 reads back as all 1s in the low nibble
// regardless of held keys.
func TestReadWithNoRowSelected(t *testing.T) {
	irq := interrupts.NewService()
	s := New(irq)
	s.SetState(true, true, true, true, true, true, true, true)

	assert.Equal(t, uint8(0xFF), s.Read(0xFF00), "unused bits 6-7 and the unselected low nibble all read as 1")
}

// Selecting the action row reports pressed buttons as 0 bits, active-low.
func TestReadActiveLowActionRow(t *testing.T) {
	irq := interrupts.NewService()
	s := New(irq)
	s.Write(0xFF00, 0x10) // select actions (bit 5=0), directions deselected (bit4=1)
	s.SetState(false, false, false, false, true, false, false, true)

	v := s.Read(0xFF00)
	assert.Equal(t, uint8(0), v&0x01, "A pressed reads as 0")
	assert.Equal(t, uint8(0x08), v&0x08, "Start not pressed reads as 1")
}

// A newly pressed key in a currently selected row raises the Joypad
// interrupt; an already-held key does not re-raise it.
func TestSetStateEdgeTriggeredIRQ(t *testing.T) {
	irq := interrupts.NewService()
	irq.Enable = 1 << interrupts.JoypadFlag
	s := New(irq)
	s.Write(0xFF00, 0x20) // select directions only

	s.SetState(true, false, false, false, false, false, false, false)
	assert.True(t, irq.HasPending())

	irq.Clear(interrupts.JoypadFlag)
	s.SetState(true, false, false, false, false, false, false, false) // Up still held, no new edge
	assert.False(t, irq.HasPending())
}

// No key transition when the affected row isn't selected raises no IRQ.
func TestSetStateNoIRQWhenRowUnselected(t *testing.T) {
	irq := interrupts.NewService()
	irq.Enable = 1 << interrupts.JoypadFlag
	s := New(irq)
	s.Write(0xFF00, 0x10) // actions selected, directions deselected

	s.SetState(true, false, false, false, false, false, false, false) // Up newly pressed, directions unselected
	assert.False(t, irq.HasPending())
}

// SetState is idempotent: calling it twice with the same absolute state
// produces the same Pressed results and no additional IRQ.
func TestSetStateIdempotent(t *testing.T) {
	irq := interrupts.NewService()
	irq.Enable = 1 << interrupts.JoypadFlag
	s := New(irq)
	s.SetState(false, false, false, false, true, true, false, false)
	irq.Clear(interrupts.JoypadFlag)

	s.SetState(false, false, false, false, true, true, false, false)

	assert.True(t, s.Pressed(ButtonA))
	assert.True(t, s.Pressed(ButtonB))
	assert.False(t, s.Pressed(ButtonUp))
	assert.False(t, irq.HasPending())
}
