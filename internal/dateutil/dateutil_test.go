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
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
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
	t.Run("valid date range", func(t *testing.T) {
		dr, err := NewDateRange("2025-01-15", "2025-01-20")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expectedStart := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		expectedEnd := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
		if !dr.Start.Equal(expectedStart) {
			t.Errorf("got start %v, want %v", dr.Start, expectedStart)
		}
		if !dr.End.Equal(expectedEnd) {
			t.Errorf("got end %v, want %v", dr.End, expectedEnd)
		}
	})

	t.Run("empty end defaults to start", func(t *testing.T) {
		dr, err := NewDateRange("2025-01-15", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.Start.Equal(dr.End) {
			t.Errorf("expected start and end to be equal, got %v and %v", dr.Start, dr.End)
		}
	})
}

func TestNewDateRange_Errors(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		wantErr   error
	}{
		{
			name:      "invalid start date format",
			startDate: "01-15-2025",
			endDate:   "",
			wantErr:   ErrInvalidDateFormat,
		},
		{
			name:      "invalid end date format",
			startDate: "2025-01-15",
			endDate:   "01-20-2025",
			wantErr:   ErrInvalidDateFormat,
		},
		{
			name:      "end date before start date",
			startDate: "2025-01-20",
			endDate:   "2025-01-15",
			wantErr:   ErrEndDateBeforeStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateRange(tt.startDate, tt.endDate)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		input      time.Time
		wantMonday time.Time
		wantSunday time.Time
	}{
		{
			name:       "Monday input returns same Monday",
			input:      time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC),
			wantMonday: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "Sunday returns previous Monday and same Sunday",
			input:      time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC),
			wantMonday: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "Friday returns previous Monday",
			input:      time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			wantMonday: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMonday, gotSunday := WeekRange(tt.input)
			if !gotMonday.Equal(tt.wantMonday) {
				t.Errorf("monday: got %v, want %v", gotMonday, tt.wantMonday)
			}
			if !gotSunday.Equal(tt.wantSunday) {
				t.Errorf("sunday: got %v, want %v", gotSunday, tt.wantSunday)
			}
		})
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "mid-month, 31-day month",
			input:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			wantFirst: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "leap February",
			input:     time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			wantFirst: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := MonthRange(tt.input)
			if !first.Equal(tt.wantFirst) {
				t.Errorf("first: got %v, want %v", first, tt.wantFirst)
			}
			if !last.Equal(tt.wantLast) {
				t.Errorf("last: got %v, want %v", last, tt.wantLast)
			}
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	got := TruncateToDay(input)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveToday(t *testing.T) {
	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)

	t.Run("current-date override", func(t *testing.T) {
		got, err := ResolveToday("Europe/Moscow", "2025-01-01", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("unrecognized timezone falls back to UTC", func(t *testing.T) {
		got, err := ResolveToday("Not/A/Zone", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := TruncateToDay(now)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("named timezone shifts the day", func(t *testing.T) {
		got, err := ResolveToday("America/Los_Angeles", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}
