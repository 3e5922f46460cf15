package models

// Fleet is an ordered group of ship stacks owned by one commander.
type Fleet struct {
	ID            string `json:"id" gorm:"primaryKey"`
	PlayerAddress string `json:"-" gorm:"index;not null"`
	Name          string `json:"name"`
	Ships         []Ship `json:"ships" gorm:"foreignKey:FleetID;references:ID;constraint:OnDelete:CASCADE"`
}

// Ship is a stack of identical ships inside a fleet. Quantity never
// goes negative; combat losses clamp at zero.
type Ship struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	FleetID  string `json:"-" gorm:"index;not null"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// TotalShips counts every ship in the fleet.
func (f *Fleet) TotalShips() int {
	total := 0
	for _, ship := range f.Ships {
		total += ship.Quantity
	}
	return total
}
