package dates

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Normalize(t *testing.T) {
	la := time.FixedZone("PDT", -7*60*60)
	n := NewNormalizer(la)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical key unchanged", input: "2024-06-03", want: "2024-06-03"},
		{name: "surrounding spaces trimmed", input: "  2024-06-03 ", want: "2024-06-03"},
		{name: "utc instant late evening local", input: "2024-06-03T02:00:00Z", want: "2024-06-02"},
		{name: "utc instant same day", input: "2024-06-03T19:00:00Z", want: "2024-06-03"},
		{name: "offset kept as instant", input: "2024-06-03T23:30:00-07:00", want: "2024-06-03"},
		{name: "fractional seconds", input: "2024-06-03T07:00:00.123Z", want: "2024-06-03"},
		{name: "wall clock without offset", input: "2024-06-03T23:30:00", want: "2024-06-03"},
		{name: "wall clock with space", input: "2024-06-03 08:15:00", want: "2024-06-03"},
		{name: "javascript toString", input: "Mon Jun 03 2024 22:00:00 GMT-0700 (Pacific Daylight Time)", want: "2024-06-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_Normalize_Invalid(t *testing.T) {
	n := NewNormalizer(time.UTC)

	for _, input := range []string{"", "   ", "not a date", "2024-02-30", "2024-13-01", "03/06/2024"} {
		t.Run(input, func(t *testing.T) {
			got, err := n.Normalize(input)
			assert.ErrorIs(t, err, ErrInvalidDate)
			assert.Empty(t, got)
		})
	}
}

func TestNormalizer_DSTDayIsStableAcrossZones(t *testing.T) {
	zones := []string{"America/New_York", "America/Los_Angeles", "UTC", "Asia/Tokyo", "Pacific/Kiritimati", "Pacific/Pago_Pago"}

	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)

		got, err := NewNormalizer(loc).Normalize("2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", got, name)
	}
}

func TestNormalizer_KeyUsesLocalFields(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	n := NewNormalizer(ny)

	// 03:30 UTC on the 4th is still the evening of the 3rd in New York.
	instant := time.Date(2024, 6, 4, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-03", n.Key(instant))
	assert.Equal(t, "2024-06-04", NewNormalizer(time.UTC).Key(instant))
}

func TestNormalizer_StartOfDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	n := NewNormalizer(ny)

	start, err := n.StartOfDay("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, "2024-03-10", n.Key(start))

	_, err = n.StartOfDay("2024-03-xx")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		key  string
		days int
		want string
	}{
		{"2024-06-03", 6, "2024-06-09"},
		{"2024-02-27", 3, "2024-03-01"},
		{"2024-12-29", 5, "2025-01-03"},
		{"2024-03-09", 1, "2024-03-10"},
		{"2024-11-02", 2, "2024-11-04"},
	}

	for _, tt := range tests {
		got, err := AddDays(tt.key, tt.days)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := AddDays("bogus", 1)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNewNormalizer_NilLocationDefaultsToLocal(t *testing.T) {
	assert.Equal(t, time.Local, NewNormalizer(nil).Location())
}
