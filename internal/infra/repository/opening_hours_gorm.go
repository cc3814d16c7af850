package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

// LoadOpeningHours returns nil when the barbershop has no rows, which the
// resolver treats as unloaded configuration.
func LoadOpeningHours(ctx context.Context, db *gorm.DB, barbershopID uint) (domain.OpeningHours, error) {
	var rows []models.OpeningHours
	if err := db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	hours := make(domain.OpeningHours, len(rows))
	for _, r := range rows {
		hours[r.Weekday] = &domain.DayHours{Open: r.Open, Close: r.Close}
	}
	return hours, nil
}

// ReplaceOpeningHours swaps the whole weekly configuration. Days missing
// from hours (or nil) are stored as closed rows, so a saved configuration
// stays loaded even when every day is closed.
func ReplaceOpeningHours(ctx context.Context, db *gorm.DB, barbershopID uint, hours domain.OpeningHours) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barbershop_id = ?", barbershopID).
			Delete(&models.OpeningHours{}).Error; err != nil {
			return err
		}

		toCreate := make([]models.OpeningHours, 0, len(domain.Weekdays))
		for _, day := range domain.Weekdays {
			row := models.OpeningHours{BarbershopID: barbershopID, Weekday: day}
			if h := hours[day]; h != nil {
				row.Open = h.Open
				row.Close = h.Close
			}
			toCreate = append(toCreate, row)
		}

		return tx.Create(&toCreate).Error
	})
}
