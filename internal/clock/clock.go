package clock

import "time"

// Clock abstracts time.Now so timestamp-sensitive logic stays testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
