package squad

import "time"

// ComputeAge returns completed years between birth and today. A birthday
// later in the year than today's month/day has not been completed yet.
// Birth dates after today yield 0.
func ComputeAge(birth, today time.Time) int {
	by, bm, bd := birth.Date()
	ty, tm, td := today.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
