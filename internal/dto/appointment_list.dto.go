package dto

import (
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	BarberID    uint      `json:"barber_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceName string    `json:"service_name"`
	TotalPrice  float64   `json:"total_price"`
}

func AppointmentList(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			BarberID:    ap.BarberID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
			ServiceName: ap.Service.Name,
			TotalPrice:  ap.TotalPrice,
		})
	}
	return out
}
