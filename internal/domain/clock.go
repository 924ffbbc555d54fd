package domain

import "time"

// Clock abstracts time retrieval so time-relative rules are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the actual current time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
