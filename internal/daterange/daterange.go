// Package daterange normalizes range endpoints before they are sent to
// Elasticsearch.
//
// Elasticsearch rounds date-math values server side (gte on 2020-03-08 means
// 2020-03-08T00:00:00.000, lte means 2020-03-08T23:59:59.999) and does so in
// UTC unless a time_zone accompanies the range. Date-only and naive datetime
// inputs therefore need the caller's zone attached or day boundaries shift for
// every non-UTC deployment.
package daterange

import (
	"regexp"
	"strconv"
	"time"
)

// Layouts used for parsing and rendering.
const (
	// DateLayout is the only date-only form Elasticsearch accepts.
	DateLayout = "2006-01-02"
	// OffsetLayout renders a timestamp with an explicit offset.
	OffsetLayout = "2006-01-02T15:04:05Z07:00"
)

var (
	datePattern     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	datetimePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2}) (\d{1,2}):(\d{1,2}):(\d{1,2})$`)
)

// Normalize rewrites a single range endpoint into a form Elasticsearch parses
// unambiguously. The returned bool reports whether the range clause must carry
// a time_zone parameter. Naive datetimes are interpreted in loc; a nil loc
// means time.Local.
//
// Rules, first match wins:
//  1. time.Time: formatted with its offset, zone needed.
//  2. any non-string: unchanged, no zone.
//  3. RFC 3339 string with offset: unchanged, zone needed for rounding.
//  4. YYYY-M-D: zero padded to YYYY-MM-DD, zone needed.
//  5. YYYY-MM-DD HH:MM:SS: rendered with loc's offset, zone needed.
//  6. anything else: unchanged, no zone.
func Normalize(input any, loc *time.Location) (any, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch v := input.(type) {
	case time.Time:
		return v.Format(OffsetLayout), true
	case *time.Time:
		if v == nil {
			return input, false
		}
		return v.Format(OffsetLayout), true
	case string:
		return normalizeString(v, loc)
	default:
		return input, false
	}
}

func normalizeString(s string, loc *time.Location) (any, bool) {
	if _, err := time.Parse(OffsetLayout, s); err == nil {
		return s, true
	}

	if m := datePattern.FindStringSubmatch(s); m != nil {
		// time.Date normalizes overflow (2020-2-30 becomes 2020-03-01),
		// matching how lenient calendar parsers treat these inputs.
		d := time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), 0, 0, 0, 0, loc)
		return d.Format(DateLayout), true
	}

	if m := datetimePattern.FindStringSubmatch(s); m != nil {
		d := time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]),
			atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, loc)
		return d.Format(OffsetLayout), true
	}

	return s, false
}

// atoi is only called on regexp-validated digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ZoneName returns the value to send as a range clause's time_zone.
// Locations loaded from the zone database are sent by IANA name so DST
// transitions resolve server side. Any other location (time.Local, or a
// time.FixedZone whose name is only a label) is sent as its current offset.
func ZoneName(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	now := time.Now()
	if name := loc.String(); name != "Local" && name != "" {
		if known, err := time.LoadLocation(name); err == nil && sameOffset(known, loc, now) {
			return name
		}
	}
	return now.In(loc).Format("-07:00")
}

// sameOffset guards against labels that collide with a database zone, such
// as a FixedZone named "EST" with a +08:00 offset.
func sameOffset(a, b *time.Location, at time.Time) bool {
	_, ao := at.In(a).Zone()
	_, bo := at.In(b).Zone()
	return ao == bo
}
