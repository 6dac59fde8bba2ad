// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"
)

// Schools run on South African time unless configured otherwise.
const DefaultSchoolTimezone = "Africa/Johannesburg"

// LoadSchoolLocation resolves a school timezone:
// 1) the given IANA name
// 2) DefaultSchoolTimezone
// 3) time.UTC
func LoadSchoolLocation(name string) *time.Location {
	if name = strings.TrimSpace(name); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultSchoolTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// SchoolClock returns "now in the school timezone", so month boundaries
// roll over at local midnight rather than UTC midnight.
func SchoolClock(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// ToSchoolTime converts a DB timestamp (usually UTC) to the school timezone.
// A zero time is returned as is.
func ToSchoolTime(loc *time.Location, t time.Time) time.Time {
	if t.IsZero() || loc == nil {
		return t
	}
	return t.In(loc)
}
