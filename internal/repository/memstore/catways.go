package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
)

// Catways keeps catways keyed by number.  When reservations is set, Delete
// refuses catways that still have reservations, like the foreign key does
// in MySQL.
type Catways struct {
	mu           sync.RWMutex
	byNumber     map[int]*model.Catway
	nextID       uint64
	reservations *Reservations
}

func NewCatways(reservations *Reservations) *Catways {
	return &Catways{byNumber: make(map[int]*model.Catway), reservations: reservations}
}

func (s *Catways) GetByNumber(ctx context.Context, number int) (*model.Catway, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byNumber[number]
	if !ok {
		return nil, repository.ErrCatwayNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Catways) List(ctx context.Context) ([]*model.Catway, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Catway, 0, len(s.byNumber))
	for _, c := range s.byNumber {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *Catways) Create(ctx context.Context, c *model.Catway) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byNumber[c.Number]; ok {
		return repository.ErrCatwayExists
	}
	s.nextID++
	now := time.Now().UTC()
	c.ID = s.nextID
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	s.byNumber[c.Number] = &cp
	return nil
}

func (s *Catways) UpdateState(ctx context.Context, number int, state string) (*model.Catway, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byNumber[number]
	if !ok {
		return nil, repository.ErrCatwayNotFound
	}
	c.State = state
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (s *Catways) Delete(ctx context.Context, number int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byNumber[number]; !ok {
		return repository.ErrCatwayNotFound
	}
	if s.reservations != nil {
		n, err := s.reservations.CountByCatway(ctx, number)
		if err != nil {
			return err
		}
		if n > 0 {
			return repository.ErrConflict
		}
	}
	delete(s.byNumber, number)
	return nil
}
