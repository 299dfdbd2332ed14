package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

func sampleEvent() ReservationEvent {
	r := &model.Reservation{
		ID:           12,
		CatwayNumber: 3,
		ClientName:   "Anne",
		BoatName:     "Belle-Île",
		StartDate:    time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 7, 4, 23, 59, 59, 999_000_000, time.UTC),
		Duration:     4,
	}
	return NewReservationEvent(ReservationCreated, r, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
}

func TestNewReservationEvent(t *testing.T) {
	ev := sampleEvent()
	if ev.EventID == "" {
		t.Fatal("expected an event id")
	}
	if ev.StartDate != "2024-07-01" || ev.EndDate != "2024-07-04" {
		t.Fatalf("dates = %s..%s", ev.StartDate, ev.EndDate)
	}
	if ev.OccurredAt != "2024-06-01T09:00:00Z" {
		t.Fatalf("occurred_at = %s", ev.OccurredAt)
	}
}

func TestConsumerHandleAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reservations.log")
	c := NewConsumer("", path, nil)

	ev := sampleEvent()
	body, _ := json.Marshal(ev)
	if err := c.Handle(body); err != nil {
		t.Fatal(err)
	}
	if err := c.Handle(body); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "reservation.created") || !strings.Contains(lines[0], "catway=3") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestConsumerHandleRejectsGarbage(t *testing.T) {
	c := NewConsumer("", filepath.Join(t.TempDir(), "r.log"), nil)
	if err := c.Handle([]byte("not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if err := c.Handle([]byte(`{"type":""}`)); err == nil {
		t.Fatal("expected incomplete event error")
	}
}
