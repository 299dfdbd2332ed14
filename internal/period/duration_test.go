package period

import (
	"testing"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
)

func TestCalculateDuration(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same instant", day1, day1, 0},
		{"five days", day1, day1.AddDate(0, 0, 5), 5},
		{"one millisecond rounds up", day1, day1.Add(time.Millisecond), 1},
		{"single stored day", StartOfDay(day1), EndOfDay(day1), 1},
		{"three stored days", StartOfDay(day1), EndOfDay(day1.AddDate(0, 0, 2)), 3},
		{"negative rounds toward zero", day1, day1.Add(-36 * time.Hour), -1},
	}
	for _, tc := range cases {
		got, err := CalculateDuration(tc.start, tc.end)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCalculateDurationMissingDate(t *testing.T) {
	_, err := CalculateDuration(time.Time{}, time.Now())
	if !apperr.Is(err, apperr.BadInput) {
		t.Fatalf("expected BadInput, got %v", err)
	}
	_, err = CalculateDuration(time.Now(), time.Time{})
	if !apperr.Is(err, apperr.BadInput) {
		t.Fatalf("expected BadInput, got %v", err)
	}
}

func TestComputeDurationFloorsToOne(t *testing.T) {
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := ComputeDuration(d, d)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}
