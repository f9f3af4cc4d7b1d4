package period

import (
	"testing"
	"time"
)

func TestWeek_StartsOnMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 6, 4, 23, 59, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Week(tt.in)
			if !w.Start.Equal(tt.want) {
				t.Errorf("Week(%v).Start = %v, want %v", tt.in, w.Start, tt.want)
			}
			if !w.End.Equal(tt.want.AddDate(0, 0, 7)) {
				t.Errorf("Week(%v).End = %v, want %v", tt.in, w.End, tt.want.AddDate(0, 0, 7))
			}
			if !w.Contains(tt.in) {
				t.Errorf("Week(%v) does not contain its input", tt.in)
			}
		})
	}
}

func TestDayAndMonth(t *testing.T) {
	ts := time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC)

	day := Day(ts)
	if !day.Start.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) || !day.End.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day(%v) = %+v", ts, day)
	}

	month := Month(ts)
	if !month.Start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) || !month.End.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Month(%v) = %+v", ts, month)
	}
	if month.Contains(month.End) {
		t.Error("window must exclude its end")
	}
}

func TestDay_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 20:00 UTC on June 1 is already June 2 in UTC+7.
	ts := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC).In(loc)

	w := Day(ts).UTC()
	if !w.Start.Equal(time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v, want 2025-06-01T17:00:00Z", w.Start)
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)

	got, err := ParseDate("2025-06-01", loc)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(time.Date(2025, 5, 31, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(plain) = %v", got.UTC())
	}

	got, err = ParseDate("2025-06-01T10:00:00Z", loc)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(rfc3339) = %v", got)
	}

	for _, bad := range []string{"", "tomorrow", "2025-13-01"} {
		if _, err := ParseDate(bad, loc); err != ErrInvalidDate {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestSameOrBeforeDay(t *testing.T) {
	start := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	sameDayEarlier := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	if !SameOrBeforeDay(start, sameDayEarlier, time.UTC) {
		t.Error("same calendar day must compare as not after")
	}
	if SameOrBeforeDay(start, start.AddDate(0, 0, -1), time.UTC) {
		t.Error("a later day must compare as after")
	}
}
