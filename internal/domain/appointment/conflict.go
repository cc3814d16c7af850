package appointment

import "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"

// CorruptReporter is told about every record excluded for having
// end <= start.
type CorruptReporter func(Record)

// ActiveIntervals keeps the records that occupy time: active status and a
// sane interval. Corrupt records are reported and dropped, never fatal.
func ActiveIntervals(snapshot []Record, report CorruptReporter) []Record {
	active := make([]Record, 0, len(snapshot))
	for _, r := range snapshot {
		if !r.Valid() {
			if report != nil {
				report(r)
			}
			continue
		}
		if !r.Status.IsActive() {
			continue
		}
		active = append(active, r)
	}
	return active
}

// Overlaps is the half-open test: [s1,e1) and [s2,e2) conflict iff
// s1 < e2 && s2 < e1. Touching endpoints do not conflict.
func Overlaps(s1, e1, s2, e2 timezone.Clock) bool {
	return s1 < e2 && s2 < e1
}

// HasConflict checks [start, start+duration) against active records. The
// records are expected to come from ActiveIntervals; inactive or corrupt
// ones are ignored anyway.
func HasConflict(active []Record, start timezone.Clock, durationMin int) bool {
	end := start.Add(durationMin)
	for _, r := range active {
		if !r.Valid() || !r.Status.IsActive() {
			continue
		}
		if Overlaps(start, end, r.Start, r.End) {
			return true
		}
	}
	return false
}
