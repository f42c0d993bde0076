package mutations

import "time"

const dateLayout = "2006-01-02"

// serviceYears implements spec §4.5/§4.8's years formula: whole days
// between start and end divided by the 365.25-day calendar-accurate
// average year, clamped at 0.
func serviceYears(start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	years := days / 365.25
	if years < 0 {
		return 0
	}
	return years
}

// calendarAge returns the participant's age at target, as a calendar-year
// difference adjusted for whether target falls before the birthday in
// that year. Distinct from serviceYears — age uses whole calendar years,
// service uses a continuous 365.25-day divisor (spec §9).
func calendarAge(birth, target time.Time) int {
	age := target.Year() - birth.Year()
	if target.Month() < birth.Month() ||
		(target.Month() == birth.Month() && target.Day() < birth.Day()) {
		age--
	}
	return age
}

// parseDate parses "YYYY-MM-DD" directly off the byte layout rather than
// through time.Parse's generic layout matcher — every mutation handler
// parses at least one date per call, so this stays on the hot path.
func parseDate(s string) (time.Time, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, false
	}
	y := int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
	m := time.Month(int(s[5]-'0')*10 + int(s[6]-'0'))
	d := int(s[8]-'0')*10 + int(s[9]-'0')
	for _, c := range []byte{s[0], s[1], s[2], s[3], s[5], s[6], s[8], s[9]} {
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}
