package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

// Channel is the Postgres NOTIFY channel fed by the appointments trigger.
const Channel = "appointments_changed"

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change is one appointment row change as broadcast by the database.
type Change struct {
	Op           Op        `json:"op"`
	ID           uint      `json:"id"`
	BarbershopID uint      `json:"barbershop_id"`
	BarberID     uint      `json:"barber_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
}

func DecodeChange(payload []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(payload, &c); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	switch c.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return Change{}, fmt.Errorf("decode change: unknown op %q", c.Op)
	}
	if c.ID == 0 {
		return Change{}, fmt.Errorf("decode change: missing id")
	}
	return c, nil
}

func ChangeFromModel(op Op, ap *models.Appointment) Change {
	return Change{
		Op:           op,
		ID:           ap.ID,
		BarbershopID: ap.BarbershopID,
		BarberID:     ap.BarberID,
		StartTime:    ap.StartTime,
		EndTime:      ap.EndTime,
		Status:       ap.Status,
	}
}

func (c Change) Appointment() models.Appointment {
	return models.Appointment{
		ID:           c.ID,
		BarbershopID: c.BarbershopID,
		BarberID:     c.BarberID,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		Status:       c.Status,
	}
}
