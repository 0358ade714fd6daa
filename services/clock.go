package services

import "time"

// Clock supplies "now" to the due calculation so it can be pinned in tests.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}
