package appointment

import (
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// Record is the validated view of an appointment the engine reasons over.
// Start and End are wall-clock minutes of Date, the same scale slots are
// generated on; an End past 24:00 means the appointment runs over midnight.
type Record struct {
	ID       uint
	BarberID uint
	Date     timezone.Date
	Start    timezone.Clock
	End      timezone.Clock
	Status   Status
}

// Valid is false for corrupt rows (end not after start).
func (r Record) Valid() bool {
	return r.End > r.Start
}

// RecordFromModel converts a stored row to a Record in the shop location.
func RecordFromModel(ap models.Appointment, loc *time.Location) Record {
	date := timezone.DateOf(ap.StartTime, loc)
	start, end := wallSpan(ap.StartTime, ap.EndTime, date, loc)

	status, ok := ParseStatus(ap.Status)
	if !ok {
		// unknown statuses never block
		status = StatusCancelled
	}

	return Record{
		ID:       ap.ID,
		BarberID: ap.BarberID,
		Date:     date,
		Start:    start,
		End:      end,
		Status:   status,
	}
}

// wallSpan reads both instants as local wall clocks relative to date.
// Elapsed minutes since midnight would drift by the DST shift on changeover
// days. When the wall clocks do not advance (end not after start, or an
// interval inside the repeated fall-back hour) the elapsed duration is used,
// so corrupt rows stay corrupt and real ones keep a positive length.
func wallSpan(startAt, endAt time.Time, date timezone.Date, loc *time.Location) (timezone.Clock, timezone.Clock) {
	start := timezone.ClockOf(startAt, loc)
	elapsed := int(endAt.Sub(startAt) / time.Minute)

	end := timezone.ClockOf(endAt, loc) +
		timezone.Clock(date.DaysUntil(timezone.DateOf(endAt, loc))*timezone.MinutesPerDay)

	if elapsed <= 0 || end <= start {
		end = start.Add(elapsed)
	}
	return start, end
}

func RecordsFromModels(aps []models.Appointment, loc *time.Location) []Record {
	out := make([]Record, 0, len(aps))
	for _, ap := range aps {
		out = append(out, RecordFromModel(ap, loc))
	}
	return out
}

// ShiftTo re-expresses r relative to midnight of d, so records that started
// the day before (and run past midnight) compare against d's clocks.
func (r Record) ShiftTo(d timezone.Date) Record {
	if r.Date == d {
		return r
	}
	offset := timezone.Clock(d.DaysUntil(r.Date) * timezone.MinutesPerDay)

	r.Start += offset
	r.End += offset
	r.Date = d
	return r
}
