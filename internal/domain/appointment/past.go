package appointment

import (
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

const DefaultSafetyMarginMinutes = 1

// IsPast reports whether the slot (date, clock) in loc starts at or before
// now + marginMin.
func IsPast(date timezone.Date, clock timezone.Clock, now time.Time, marginMin int, loc *time.Location) bool {
	candidate := timezone.Combine(date, clock, loc)
	limit := now.Add(time.Duration(marginMin) * time.Minute)
	return !candidate.After(limit)
}
