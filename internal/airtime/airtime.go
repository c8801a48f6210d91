// Package airtime converts broadcaster-local air dates into the derived
// forms the archiver records: ISO date, epoch seconds, a display string, and
// the timestamp format expected by the metadata tagger.
package airtime

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrAmbiguousLocalTime reports an air time that falls into a DST transition
// gap or overlap and cannot be localized unambiguously. The archiver aborts
// the episode rather than guessing an offset.
var ErrAmbiguousLocalTime = errors.New("ambiguous local time")

// Site times are civil Europe/Berlin times, e.g. "14.01.2020 20:00".
const (
	zoneName    = "Europe/Berlin"
	inputLayout = "02.01.2006 15:04"
)

// Normalized carries the derived forms of one air time.
type Normalized struct {
	// Date is the ISO calendar date, e.g. "2020-01-14". Used in filenames.
	Date string
	// Unix is the epoch timestamp in seconds.
	Unix int64
	// Display is the catalog datetime column value, "2020-01-14 20:00".
	Display string
	// Meta is the metadata-embedding timestamp with an explicit UTC offset,
	// "2020:01:14 20:00:00+01:00".
	Meta string
}

var (
	zoneOnce sync.Once
	zone     *time.Location
	zoneErr  error
)

func location() (*time.Location, error) {
	zoneOnce.Do(func() {
		zone, zoneErr = time.LoadLocation(zoneName)
	})
	return zone, zoneErr
}

// Normalize parses a "DD.MM.YYYY HH:MM" string as Europe/Berlin civil time.
func Normalize(value string) (Normalized, error) {
	loc, err := location()
	if err != nil {
		return Normalized{}, fmt.Errorf("load %s zone data: %w", zoneName, err)
	}

	trimmed := strings.TrimSpace(value)
	parsed, err := time.ParseInLocation(inputLayout, trimmed, loc)
	if err != nil {
		return Normalized{}, fmt.Errorf("parse air time %q: %w", trimmed, err)
	}

	// A wall clock inside a spring-forward gap gets shifted during parsing;
	// a round-trip mismatch exposes it.
	if parsed.Format(inputLayout) != trimmed {
		return Normalized{}, fmt.Errorf("%w: %q does not exist in %s", ErrAmbiguousLocalTime, trimmed, zoneName)
	}

	// A wall clock inside a fall-back overlap maps to two instants one hour
	// apart. If a neighboring instant shows the same wall clock, refuse.
	for _, delta := range []time.Duration{-time.Hour, time.Hour} {
		if parsed.Add(delta).In(loc).Format(inputLayout) == trimmed {
			return Normalized{}, fmt.Errorf("%w: %q occurs twice in %s", ErrAmbiguousLocalTime, trimmed, zoneName)
		}
	}

	return Normalized{
		Date:    parsed.Format("2006-01-02"),
		Unix:    parsed.Unix(),
		Display: parsed.Format("2006-01-02 15:04"),
		Meta:    parsed.Format("2006:01:02 15:04") + ":00" + parsed.Format("-07:00"),
	}, nil
}
