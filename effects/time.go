package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is a start instant plus a duration.
type TimeSpan = timespan.TimeSpan

// NewTimeSpan spans from and to, in either order.
func NewTimeSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}

// instantRadius is how far an Instant reaches on either side of its moment.
const instantRadius = time.Millisecond

// Instant is the span of an event without measurable duration at t.
func Instant(t time.Time) TimeSpan {
	return timespan.BetweenTimes(t.Add(-instantRadius), t.Add(instantRadius))
}

// TimeBounded records know the span they cover.
type TimeBounded interface {
	TimeSpan() TimeSpan
}
