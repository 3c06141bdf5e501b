package utils

import "time"

// Clock is the time source of the services. Tests replace it with MockClock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// SetYear moves the mock clock to January 1st of the given year, UTC.
func (m *MockClock) SetYear(year int) {
	m.FixedNow = time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)
}
