// pkg/suncalc/suncalc.go

package suncalc

import (
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"
)

// ErrNoSunEvent is returned when the sun does not rise or set at a location on a date
var ErrNoSunEvent = errors.New("no sunrise or sunset")

// Period is the day/night classification of a clock time
type Period int

const (
	Day Period = iota
	Night
)

func (p Period) String() string {
	if p == Night {
		return "night"
	}
	return "day"
}

// SunTimes holds sunrise and sunset for a date, in UTC, rounded to the minute
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

type sunEventFunc func(observer astral.Observer, date time.Time) (time.Time, error)

// SunCalc computes sun events and remembers them per location and date
type SunCalc struct {
	cache   *cache.Cache
	sunrise sunEventFunc
	sunset  sunEventFunc
}

// NewSunCalc creates a new SunCalc instance
func NewSunCalc() *SunCalc {
	return &SunCalc{
		cache:   cache.New(cache.NoExpiration, 0),
		sunrise: astral.Sunrise,
		sunset:  astral.Sunset,
	}
}

// SunTimes returns sunrise and sunset at the given coordinate on the calendar day of date
func (sc *SunCalc) SunTimes(latitude, longitude float64, date time.Time) (SunTimes, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	key := fmt.Sprintf("%.6f,%.6f,%s", latitude, longitude, day.Format("2006-01-02"))

	if cached, ok := sc.cache.Get(key); ok {
		return cached.(SunTimes), nil
	}

	observer := astral.Observer{Latitude: latitude, Longitude: longitude}

	sunrise, err := sc.sunrise(observer, day)
	if err != nil {
		return SunTimes{}, fmt.Errorf("%w: failed to calculate sunrise at (%v, %v) on %s: %v", ErrNoSunEvent, latitude, longitude, day.Format("2006-01-02"), err)
	}

	sunset, err := sc.sunset(observer, day)
	if err != nil {
		return SunTimes{}, fmt.Errorf("%w: failed to calculate sunset at (%v, %v) on %s: %v", ErrNoSunEvent, latitude, longitude, day.Format("2006-01-02"), err)
	}

	if sunrise.IsZero() || sunset.IsZero() {
		return SunTimes{}, fmt.Errorf("%w: at (%v, %v) on %s", ErrNoSunEvent, latitude, longitude, day.Format("2006-01-02"))
	}

	times := SunTimes{
		Sunrise: sunrise.UTC().Round(time.Minute),
		Sunset:  sunset.UTC().Round(time.Minute),
	}
	sc.cache.Set(key, times, cache.NoExpiration)

	return times, nil
}

// Classify compares clock times only. A time strictly before sunrise or
// strictly after sunset is night; a time equal to either bound is day.
func Classify(clock, sunrise, sunset time.Time) Period {
	t := clockOf(clock)
	if t < clockOf(sunrise) || t > clockOf(sunset) {
		return Night
	}
	return Day
}

func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}
