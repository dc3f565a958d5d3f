package cartridge

import "errors"

// ErrUnsupportedMBC is returned by New when the header declares a mapper
// type this core does not implement. Together with ErrROMTooLarge, it
// implements spec.md §7's CartridgeRejected condition.
var ErrUnsupportedMBC = errors.New("cartridge: unsupported memory bank controller")

// ErrROMTooLarge is returned by New when the header declares a ROM or RAM
// size this core is not configured to address.
var ErrROMTooLarge = errors.New("cartridge: rom/ram size exceeds configured maximum")

// ErrTruncatedROM is returned when the supplied ROM image is shorter than
// its own header claims, or shorter than the minimum header size.
var ErrTruncatedROM = errors.New("cartridge: rom image is truncated")
