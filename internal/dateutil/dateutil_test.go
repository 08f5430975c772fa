package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange("2025-01-15", "2025-01-17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days := r.Days(); len(days) != 3 {
		t.Errorf("got %d days, want 3", len(days))
	}

	r, err = NewDateRange("2025-01-15", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Start.Equal(r.End) {
		t.Errorf("empty end should default to start, got %v", r.End)
	}

	if _, err := NewDateRange("2025-01-15", "2025-01-14"); !errors.Is(err, ErrEndDateBeforeStart) {
		t.Errorf("got error %v, want %v", err, ErrEndDateBeforeStart)
	}
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2025, 1, 15, 14, 30, 45, 100, time.UTC)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := TruncateToDay(in); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, a.Add(23*time.Hour+59*time.Minute)) {
		t.Error("expected same day")
	}
	if SameDay(a, a.Add(24*time.Hour)) {
		t.Error("expected different days")
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Wednesday
	ref := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{input: "", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{input: "Today", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{input: "tomorrow", want: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)},
		{input: "yesterday", want: time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)},
		{input: "friday", want: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{input: "wednesday", want: time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
		{input: "last-monday", want: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{input: "last-wednesday", want: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)},
		{input: "2024-12-31", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	ref := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for _, input := range []string{"someday", "last-week", "15/01/2025"} {
		if _, err := ParseRelativeDate(input, ref); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ParseRelativeDate(%q) error = %v, want %v", input, err, ErrInvalidDateFormat)
		}
	}
}
