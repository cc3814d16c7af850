package appointment

import "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"

// GenerateSlots enumerates start times from w.Open every intervalMin
// minutes while the service still ends at or before w.Close.
func GenerateSlots(w Window, intervalMin, durationMin int) []timezone.Clock {
	slots := []timezone.Clock{}
	if intervalMin <= 0 || durationMin <= 0 || w.Close <= w.Open {
		return slots
	}

	for s := w.Open; s.Add(durationMin) <= w.Close; s = s.Add(intervalMin) {
		slots = append(slots, s)
	}
	return slots
}

// FitsWindow reports whether [start, start+duration) lies inside w.
func FitsWindow(w Window, start timezone.Clock, durationMin int) bool {
	return durationMin > 0 && start >= w.Open && start.Add(durationMin) <= w.Close
}

func FormatSlots(slots []timezone.Clock) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}
