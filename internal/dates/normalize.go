// Package dates turns the date shapes walks arrive in into canonical
// YYYY-MM-DD calendar-day keys.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// KeyLayout canonical calendar-day key
const KeyLayout = "2006-01-02"

// ErrInvalidDate input could not be read as a calendar date
var ErrInvalidDate = errors.New("invalid date")

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Layouts carrying their own offset. The instant is moved into the
// normalizer's location before the day is read.
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"Mon Jan 02 2006 15:04:05 GMT-0700", // JavaScript Date.prototype.toString
	time.RFC1123Z,
}

// Layouts without offset, read as wall-clock time in the normalizer's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC1123,
}

// Normalizer builds day keys from local calendar fields of a fixed location.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer yeni normalizer oluşturur. nil location means time.Local.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Location normalizer'ın takvim lokasyonu
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize returns the canonical key for input.
// A well-formed YYYY-MM-DD key is returned unchanged.
func (n *Normalizer) Normalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidDate)
	}

	if keyPattern.MatchString(s) {
		if _, err := time.Parse(KeyLayout, s); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		return s, nil
	}

	// "Mon Jun 03 2024 10:00:00 GMT-0700 (Pacific Daylight Time)"
	if idx := strings.Index(s, " ("); idx > 0 {
		s = s[:idx]
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return n.Key(t), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return n.Key(t), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

// Key formats t with the year, month and day it has in the normalizer's location.
func (n *Normalizer) Key(t time.Time) string {
	return t.In(n.loc).Format(KeyLayout)
}

// StartOfDay returns midnight of the key's day in the normalizer's location.
func (n *Normalizer) StartOfDay(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

// AddDays calendar arithmetic on keys; immune to DST because it never
// touches wall-clock hours.
func AddDays(key string, days int) (string, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t.AddDate(0, 0, days).Format(KeyLayout), nil
}
