package game

// AnimalStats holds the four catalog attributes that make up a combatant's
// combat power.
type AnimalStats struct {
	Power        int `json:"power"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
	Intelligence int `json:"intelligence"`
}

// CombatPower is the sum of the four attributes.
func (s AnimalStats) CombatPower() int {
	return s.Power + s.Defense + s.Speed + s.Intelligence
}

// Animal is one catalog entry loaded from the config file. Animals are
// never persisted; characters reference them by name.
type Animal struct {
	Name  string      `json:"name"`
	Stats AnimalStats `json:"stats"`
	// BattleCry seeds the battle text of the NPC character created for
	// this animal.
	BattleCry string `json:"battle_cry"`
}
