package types

// Model selects which hardware profile the core emulates.
type Model uint8

const (
	// ModelAuto selects CGB iff the cartridge header requests it.
	ModelAuto Model = iota
	// ModelDMG forces original monochrome Game Boy behaviour.
	ModelDMG
	// ModelCGB forces Game Boy Color behaviour.
	ModelCGB
)

func (m Model) String() string {
	switch m {
	case ModelDMG:
		return "DMG"
	case ModelCGB:
		return "CGB"
	default:
		return "AUTO"
	}
}
