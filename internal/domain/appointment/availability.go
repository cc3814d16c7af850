package appointment

import "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"

type AvailabilityInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint
	Date         timezone.Date
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func TimeSlots(slots []timezone.Clock, durationMin int) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeSlot{
			Start: s.String(),
			End:   s.Add(durationMin).String(),
		})
	}
	return out
}
