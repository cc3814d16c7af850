package models

import "time"

// OpeningHours is one configured weekday of a barbershop. Weekday holds the
// lowercase English day name ("monday").
type OpeningHours struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"uniqueIndex:idx_opening_hours_shop_day" json:"barbershop_id"`

	Weekday string `gorm:"size:10;uniqueIndex:idx_opening_hours_shop_day" json:"weekday"`
	Open    string `gorm:"size:5" json:"open"`
	Close   string `gorm:"size:5" json:"close"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
