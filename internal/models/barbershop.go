package models

import "time"

type Barbershop struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64" json:"timezone"`

	// MinAdvanceMinutes is the forward safety margin: a slot starting at or
	// before now+margin is no longer bookable.
	MinAdvanceMinutes   int `gorm:"default:1" json:"min_advance_minutes"`
	SlotIntervalMinutes int `gorm:"default:15" json:"slot_interval_minutes"`

	FailOpenOnUnloadedConfig bool `gorm:"default:true" json:"fail_open_on_unloaded_config"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
