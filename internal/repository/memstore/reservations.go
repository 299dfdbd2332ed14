// Package memstore provides in-memory implementations of the catway,
// reservation, user and revoked-token stores used by the service, handler
// and middleware tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
)

// Reservations keeps reservations indexed by id and by catway number.
type Reservations struct {
	mu       sync.RWMutex
	byID     map[uint64]*model.Reservation
	byCatway map[int][]uint64
	nextID   uint64
	now      func() time.Time
}

func NewReservations() *Reservations {
	return &Reservations{
		byID:     make(map[uint64]*model.Reservation),
		byCatway: make(map[int][]uint64),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FindOverlapping returns the first reservation on catwayNumber, by start
// date, for which start_date < end and end_date > start.
func (s *Reservations) FindOverlapping(ctx context.Context, catwayNumber int, start, end time.Time, excludeID uint64) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hit *model.Reservation
	for _, id := range s.byCatway[catwayNumber] {
		r := s.byID[id]
		if id == excludeID {
			continue
		}
		if r.StartDate.Before(end) && r.EndDate.After(start) {
			if hit == nil || r.StartDate.Before(hit.StartDate) {
				hit = r
			}
		}
	}
	if hit == nil {
		return nil, nil
	}
	cp := *hit
	return &cp, nil
}

func (s *Reservations) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Reservations) ListByCatway(ctx context.Context, catwayNumber int) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Reservation, 0, len(s.byCatway[catwayNumber]))
	for _, id := range s.byCatway[catwayNumber] {
		cp := *s.byID[id]
		out = append(out, &cp)
	}
	sortByStart(out)
	return out, nil
}

func (s *Reservations) List(ctx context.Context) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Reservation, 0, len(s.byID))
	for _, r := range s.byID {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CatwayNumber != out[j].CatwayNumber {
			return out[i].CatwayNumber < out[j].CatwayNumber
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// Create stores r and fills its ID and timestamps.
func (s *Reservations) Create(ctx context.Context, r *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.now()
	r.ID = s.nextID
	r.CreatedAt, r.UpdatedAt = now, now
	cp := *r
	s.byID[r.ID] = &cp
	s.byCatway[r.CatwayNumber] = append(s.byCatway[r.CatwayNumber], r.ID)
	return nil
}

func (s *Reservations) UpdateDates(ctx context.Context, id uint64, start, end time.Time, duration int) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	r.StartDate, r.EndDate, r.Duration = start, end, duration
	r.UpdatedAt = s.now()
	cp := *r
	return &cp, nil
}

func (s *Reservations) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	ids := s.byCatway[r.CatwayNumber]
	for i, v := range ids {
		if v == id {
			s.byCatway[r.CatwayNumber] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byCatway[r.CatwayNumber]) == 0 {
		delete(s.byCatway, r.CatwayNumber)
	}
	delete(s.byID, id)
	return nil
}

// CountByCatway reports how many reservations reference catwayNumber.
func (s *Reservations) CountByCatway(ctx context.Context, catwayNumber int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCatway[catwayNumber]), nil
}

func sortByStart(rs []*model.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].StartDate.Equal(rs[j].StartDate) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].StartDate.Before(rs[j].StartDate)
	})
}
