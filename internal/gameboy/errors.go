package gameboy

import "errors"

// LastError identifies the latched, reset-only-recoverable condition
// surfaced by GameBoy.LastError, per spec.md §7.
type LastError uint8

const (
	// ErrNone means nothing is wrong.
	ErrNone LastError = iota
	// ErrCPULockup means a documented-invalid opcode was executed;
	// StepFrame is a no-op until Reset.
	ErrCPULockup
	// ErrIntegrityViolation means a runtime assertion about a
	// subsystem's invariant failed (PPU mode out of range, SP outside
	// any writable region while pushing an interrupt).
	ErrIntegrityViolation
)

func (e LastError) String() string {
	switch e {
	case ErrCPULockup:
		return "cpu lockup"
	case ErrIntegrityViolation:
		return "integrity violation"
	default:
		return "none"
	}
}

// ErrNoCartridge is returned by StepFrame, Reset, SaveState and LoadState
// when no cartridge has been attached yet.
var ErrNoCartridge = errors.New("gameboy: no cartridge attached")
