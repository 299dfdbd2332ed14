package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
)

// CatwayService manages the berths of the marina.
type CatwayService struct {
	store CatwayStore
	log   *zap.Logger
}

func NewCatwayService(store CatwayStore, log *zap.Logger) *CatwayService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatwayService{store: store, log: log}
}

// Create registers a new catway.  Numbers run from 1 to 999.
func (s *CatwayService) Create(ctx context.Context, number int, catwayType, state string) (*model.Catway, error) {
	if number < 1 || number > 999 {
		return nil, apperr.New(apperr.BadInput, "Catway number must be between 1 and 999.")
	}
	if catwayType != model.CatwayLong && catwayType != model.CatwayShort {
		return nil, apperr.New(apperr.BadInput, "Catway type must be long or short.")
	}
	c := &model.Catway{Number: number, Type: catwayType, State: state}
	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCatwayExists) {
			return nil, apperr.New(apperr.Conflict, "This catway already exist.").
				WithDetails(map[string]any{"catwayNumber": number})
		}
		return nil, s.failure("Catway could not be created.", err, number)
	}
	return c, nil
}

func (s *CatwayService) List(ctx context.Context) ([]*model.Catway, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, s.failure("Catways could not be listed.", err, 0)
	}
	return out, nil
}

func (s *CatwayService) Get(ctx context.Context, number int) (*model.Catway, error) {
	c, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return nil, s.mapNotFound(err, number)
	}
	return c, nil
}

// UpdateState changes the only mutable attribute of a catway.
func (s *CatwayService) UpdateState(ctx context.Context, number int, state string) (*model.Catway, error) {
	c, err := s.store.UpdateState(ctx, number, state)
	if err != nil {
		return nil, s.mapNotFound(err, number)
	}
	return c, nil
}

// Delete removes a catway that no longer has reservations.
func (s *CatwayService) Delete(ctx context.Context, number int) error {
	err := s.store.Delete(ctx, number)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrConflict):
		return apperr.New(apperr.Conflict, "Catway still has reservations.").
			WithDetails(map[string]any{"catwayNumber": number})
	default:
		return s.mapNotFound(err, number)
	}
}

func (s *CatwayService) mapNotFound(err error, number int) error {
	if errors.Is(err, repository.ErrCatwayNotFound) {
		return apperr.New(apperr.NotFound, "Catway not found.").
			WithDetails(map[string]any{"catwayNumber": number})
	}
	return s.failure("Catway store failure.", err, number)
}

func (s *CatwayService) failure(msg string, err error, number int) error {
	s.log.Error(msg, zap.Int("catway", number), zap.Error(err))
	return apperr.Wrap(apperr.StoreFailure, msg, err)
}
