package period

import (
	"testing"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

func fixedClock(y int, m time.Month, d int) Clock {
	return ClockFunc(func() time.Time { return time.Date(y, m, d, 15, 4, 5, 0, time.UTC) })
}

func str(s string) *string { return &s }

func TestNormalizeDatePair(t *testing.T) {
	n := NewNormalizer(fixedClock(2024, 3, 1))
	p, err := n.NormalizeDatePair(str("2024-03-01"), str("2024-03-10"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", p.Start)
	}
	if !p.End.Equal(time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Errorf("end = %v", p.End)
	}
}

func TestNormalizeDatePairErrors(t *testing.T) {
	n := NewNormalizer(fixedClock(2024, 3, 1))
	cases := []struct {
		name       string
		start, end *string
		msg        string
	}{
		{"missing start", nil, str("2024-03-10"), "Start and end reservation date are required."},
		{"blank end", str("2024-03-10"), str("  "), "Start and end reservation date are required."},
		{"bad format", str("01/03/2024"), str("2024-03-10"), "Invalid date format."},
		{"impossible day", str("2024-03-02"), str("2024-02-30"), "Invalid date format."},
		{"reversed", str("2024-03-10"), str("2024-03-09"), "Start reservation date must occur before end reservation date."},
		{"yesterday", str("2024-02-29"), str("2024-03-09"), "Start reservation date must occur in the future."},
	}
	for _, tc := range cases {
		_, err := n.NormalizeDatePair(tc.start, tc.end, nil)
		ae, ok := err.(*apperr.Error)
		if !ok || ae.Kind != apperr.BadInput {
			t.Fatalf("%s: expected BadInput, got %v", tc.name, err)
		}
		if ae.Message != tc.msg {
			t.Errorf("%s: message %q, want %q", tc.name, ae.Message, tc.msg)
		}
	}
}

func TestNormalizeDatePairSameDay(t *testing.T) {
	n := NewNormalizer(fixedClock(2024, 3, 1))
	p, err := n.NormalizeDatePair(str("2024-03-01"), str("2024-03-01"), nil)
	if err != nil {
		t.Fatalf("today to today should be accepted: %v", err)
	}
	if d, _ := ComputeDuration(p.Start, p.End); d != 1 {
		t.Fatalf("duration = %d, want 1", d)
	}
}

func TestNormalizeDatePairBackfill(t *testing.T) {
	n := NewNormalizer(fixedClock(2024, 3, 1))
	existing := &model.Reservation{
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 4, 5, 23, 59, 59, 999_000_000, time.UTC),
	}

	p, err := n.NormalizeDatePair(nil, str("2024-04-08"), existing)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Start.Equal(existing.StartDate) {
		t.Errorf("start not back-filled: %v", p.Start)
	}
	if FormatCalendarDate(p.End) != "2024-04-08" {
		t.Errorf("end = %v", p.End)
	}

	// a back-filled end still has to follow the new start
	_, err = n.NormalizeDatePair(str("2024-04-06"), nil, existing)
	if !apperr.Is(err, apperr.BadInput) {
		t.Fatalf("expected BadInput for start after back-filled end, got %v", err)
	}
}
