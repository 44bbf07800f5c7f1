package postgres

import "time"

// SystemClock satisfies the service clock port in production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
