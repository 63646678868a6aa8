package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Montreal")
	if err != nil {
		panic(err)
	}
}

// every omnivox portal lives in quebec, dates scraped off of it are
// interpreted in montreal time regardless of where the scraper runs,
// otherwise <time.Time>.Year() can be off by one around new year.
func Now() time.Time {
	return time.Now().In(Location)
}

// Clock is the interface that anything depending on the system clock should use.
type Clock interface {
	Now() time.Time
}

// StandardClock reads the system clock in Location.
type StandardClock struct{}

func (StandardClock) Now() time.Time {
	return Now()
}

// FixedClock always returns the same instant, it is meant for tests.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time.In(Location)
}

// Date returns midnight of the given day in Location.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Location)
}
