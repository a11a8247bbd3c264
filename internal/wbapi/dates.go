package wbapi

import (
	"time"
)

// TimeLayout is the zone-less local timestamp WB uses in feeds and
// cursor parameters.
const TimeLayout = "2006-01-02T15:04:05"

// DayLayout is the plain calendar date used by range parameters.
const DayLayout = "2006-01-02"

// ParseWBTime parses the handful of timestamp shapes WB responses mix.
// Zone-less values are interpreted in the marketplace's civil timezone.
func ParseWBTime(s string, loc *time.Location) (time.Time, bool) {
	layouts := []string{
		TimeLayout,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999Z07:00",
		DayLayout,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WindowBounds expands a date pair to [start 00:00, end 23:59:59.999999]
// in the given civil timezone.
func WindowBounds(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999000, loc)
	return start, end
}

// DateRange is one inclusive sub-window produced by ChunkRanges.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ChunkRanges splits [from, to] into inclusive sub-windows of at most
// days calendar days each, respecting provider per-call limits.
func ChunkRanges(from, to time.Time, days int) []DateRange {
	var chunks []DateRange
	cur := from
	for !cur.After(to) {
		chunkEnd := cur.AddDate(0, 0, days-1)
		if chunkEnd.After(to) {
			chunkEnd = to
		}
		chunks = append(chunks, DateRange{From: cur, To: chunkEnd})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return chunks
}

// DayKey truncates a WB timestamp to its calendar date part.
func DayKey(s string) string {
	if len(s) < len(DayLayout) {
		return s
	}
	return s[:len(DayLayout)]
}
