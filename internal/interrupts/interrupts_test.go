package interrupts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteMasking(t *testing.T) {
	s := NewService()
	s.Write(FlagRegister, 0xFF)
	assert.Equal(t, uint8(0xFF), s.Read(FlagRegister), "unused IF bits read back as 1")
	assert.Equal(t, uint8(0x1F), s.Flag, "only the low 5 bits are stored")

	s.Write(EnableRegister, 0xAA)
	assert.Equal(t, uint8(0xAA), s.Read(EnableRegister))
}

// NextFlag resolves simultaneous pending interrupts in fixed priority
// order: VBlank, LCD, Timer, Serial, Joypad.
func TestNextFlagPriorityOrder(t *testing.T) {
	s := NewService()
	s.Enable = 0x1F
	s.Flag = 0

	s.Request(JoypadFlag)
	s.Request(TimerFlag)
	f, ok := s.NextFlag()
	assert.True(t, ok)
	assert.Equal(t, TimerFlag, f)

	s.Clear(TimerFlag)
	s.Request(VBlankFlag)
	f, ok = s.NextFlag()
	assert.True(t, ok)
	assert.Equal(t, VBlankFlag, f)
}

func TestNextFlagNoneWhenNotEnabled(t *testing.T) {
	s := NewService()
	s.Enable = 0
	s.Request(VBlankFlag)

	_, ok := s.NextFlag()
	assert.False(t, ok)
	assert.False(t, s.HasPending())
}

func TestVectorTable(t *testing.T) {
	assert.Equal(t, uint16(0x0040), Vector(VBlankFlag))
	assert.Equal(t, uint16(0x0048), Vector(LCDFlag))
	assert.Equal(t, uint16(0x0050), Vector(TimerFlag))
	assert.Equal(t, uint16(0x0058), Vector(SerialFlag))
	assert.Equal(t, uint16(0x0060), Vector(JoypadFlag))
}

func TestRequestClearRoundTrip(t *testing.T) {
	s := NewService()
	s.Request(LCDFlag)
	assert.NotZero(t, s.Flag&(1<<LCDFlag))

	s.Clear(LCDFlag)
	assert.Zero(t, s.Flag&(1<<LCDFlag))
}
