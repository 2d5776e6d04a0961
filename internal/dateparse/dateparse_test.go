package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var denver = time.FixedZone("UTC-6", -6*3600)

// Monday morning reference point.
func monday9am() time.Time {
	return time.Date(2025, time.October, 20, 9, 0, 0, 0, denver)
}

func TestResolveRelative(t *testing.T) {
	now := monday9am()

	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"in 90 minutes", now.Add(90 * time.Minute)},
		{"in 1 min", now.Add(time.Minute)},
		{"in 2 hours", now.Add(2 * time.Hour)},
		{"in 3 days", now.Add(72 * time.Hour)},
		{"in 1 week", now.Add(7 * 24 * time.Hour)},
		{"remind me in 10 minutes", now.Add(10 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := Resolve(tt.phrase, now, denver)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestResolveDayAnchors(t *testing.T) {
	now := monday9am()

	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"today", time.Date(2025, time.October, 20, 9, 0, 0, 0, denver)},
		{"today 5pm", time.Date(2025, time.October, 20, 17, 0, 0, 0, denver)},
		{"tomorrow", time.Date(2025, time.October, 21, 9, 0, 0, 0, denver)},
		{"tomorrow 5pm", time.Date(2025, time.October, 21, 17, 0, 0, 0, denver)},
		{"tomorrow 5:30pm", time.Date(2025, time.October, 21, 17, 30, 0, 0, denver)},
		{"friday", time.Date(2025, time.October, 24, 9, 0, 0, 0, denver)},
		{"friday 17:00", time.Date(2025, time.October, 24, 17, 0, 0, 0, denver)},
		// A bare weekday matching today means next week, never today.
		{"monday", time.Date(2025, time.October, 27, 9, 0, 0, 0, denver)},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := Resolve(tt.phrase, now, denver)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestResolveNextWeekday(t *testing.T) {
	// Saturday, so "next monday" lands two days out.
	saturday := time.Date(2025, time.October, 18, 12, 0, 0, 0, denver)

	got, err := Resolve("next monday 8am", saturday, denver)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.October, 20, 8, 0, 0, 0, denver)))

	// From Monday, "next monday" is a full week out.
	got, err = Resolve("next monday", monday9am(), denver)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.October, 27, 9, 0, 0, 0, denver)))
}

func TestResolveExplicitDates(t *testing.T) {
	now := monday9am()

	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"2025-12-01", time.Date(2025, time.December, 1, 9, 0, 0, 0, denver)},
		{"2025-12-01 18", time.Date(2025, time.December, 1, 18, 0, 0, 0, denver)},
		{"2025-12-01 18:30", time.Date(2025, time.December, 1, 18, 30, 0, 0, denver)},
		{"12/1", time.Date(2025, time.December, 1, 9, 0, 0, 0, denver)},
		{"12/1 6pm", time.Date(2025, time.December, 1, 18, 0, 0, 0, denver)},
		// Month/day earlier than today rolls to next year.
		{"3/5", time.Date(2026, time.March, 5, 9, 0, 0, 0, denver)},
		{"10/20", time.Date(2025, time.October, 20, 9, 0, 0, 0, denver)},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := Resolve(tt.phrase, now, denver)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestResolveBareTime(t *testing.T) {
	now := monday9am()

	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"5pm", time.Date(2025, time.October, 20, 17, 0, 0, 0, denver)},
		// Strictly in the past rolls to tomorrow.
		{"8am", time.Date(2025, time.October, 21, 8, 0, 0, 0, denver)},
		{"12am", time.Date(2025, time.October, 21, 0, 0, 0, 0, denver)},
		{"12pm", time.Date(2025, time.October, 20, 12, 0, 0, 0, denver)},
		{"17:30", time.Date(2025, time.October, 20, 17, 30, 0, 0, denver)},
		{"0930", time.Date(2025, time.October, 20, 9, 30, 0, 0, denver)},
		// Exactly now stays today.
		{"9:00", time.Date(2025, time.October, 20, 9, 0, 0, 0, denver)},
		{"9am", time.Date(2025, time.October, 20, 9, 0, 0, 0, denver)},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := Resolve(tt.phrase, now, denver)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestResolveUnparseable(t *testing.T) {
	now := monday9am()

	for _, phrase := range []string{"", "   ", "whenever", "25:00", "2025-13-40", "2/30"} {
		t.Run(phrase, func(t *testing.T) {
			_, err := Resolve(phrase, now, denver)
			require.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestExtractDuePhrase(t *testing.T) {
	tests := []struct {
		raw, title, phrase string
	}{
		{"buy milk tomorrow 5pm", "buy milk", "tomorrow 5pm"},
		{"call mom next friday", "call mom", "next friday"},
		{"submit report 2025-12-01 18:30", "submit report", "2025-12-01 18:30"},
		{"water plants in 2 hours", "water plants", "in 2 hours"},
		{"pay rent 12/1", "pay rent", "12/1"},
		{"standup 9am", "standup", "9am"},
		{"buy milk", "buy milk", ""},
		// Whole input is a phrase: keep it as the title too.
		{"tomorrow 5pm", "tomorrow 5pm", "tomorrow 5pm"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			title, phrase := ExtractDuePhrase(tt.raw)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.phrase, phrase)
		})
	}
}
