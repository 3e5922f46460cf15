package models

// Building is one structure on a commander's home base. Known types
// are miner_drone, gas_siphon, chronos_collider, shipyard and
// warp_gate, but unknown types are stored as-is.
type Building struct {
	ID            uint   `json:"-" gorm:"primaryKey"`
	PlayerAddress string `json:"-" gorm:"index;not null"`
	Type          string `json:"type"`
	Level         int    `json:"level"`
}

// EffectiveLevel treats an absent or zero level as level 1.
func (b Building) EffectiveLevel() int {
	if b.Level < 1 {
		return 1
	}
	return b.Level
}
