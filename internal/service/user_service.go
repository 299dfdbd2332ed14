package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/utils"
)

// NewUser holds the fields of a registration.
type NewUser struct {
	Name      string
	Firstname string
	Username  string
	Email     string
	Password  string
}

// UserPatch holds the fields to change; nil leaves a field untouched.
type UserPatch struct {
	Name      *string
	Firstname *string
	Username  *string
	Email     *string
	Password  *string
}

// UserService manages accounts and verifies credentials.
type UserService struct {
	store      UserStore
	bcryptCost int
	log        *zap.Logger
}

func NewUserService(store UserStore, bcryptCost int, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{store: store, bcryptCost: bcryptCost, log: log}
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*model.User, error) {
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, s.failure("Password could not be hashed.", err, in.Email)
	}
	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Firstname:    strings.TrimSpace(in.Firstname),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, apperr.New(apperr.Conflict, "User already exists with this email or username.")
		}
		return nil, s.failure("User could not be created.", err, in.Email)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, s.failure("Users could not be listed.", err, "")
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, email string) (*model.User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.mapErr(err, email)
	}
	return u, nil
}

// Update applies patch to the user identified by email.  A new password
// is hashed before it reaches the store.
func (s *UserService) Update(ctx context.Context, email string, patch UserPatch) (*model.User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.mapErr(err, email)
	}
	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Firstname != nil {
		u.Firstname = strings.TrimSpace(*patch.Firstname)
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := utils.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, s.failure("Password could not be hashed.", err, email)
		}
		u.PasswordHash = hash
	}
	if err := s.store.Update(ctx, email, u); err != nil {
		return nil, s.mapErr(err, email)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, email string) error {
	if err := s.store.Delete(ctx, email); err != nil {
		return s.mapErr(err, email)
	}
	return nil
}

// Authenticate returns the user owning email when password matches.
// Unknown users and wrong passwords are reported the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
		}
		return nil, s.failure("User lookup failed.", err, email)
	}
	if u.PasswordHash == "" {
		return nil, s.failure("User password not found in database.", errors.New("empty password hash"), email)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	return u, nil
}

func (s *UserService) mapErr(err error, email string) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return apperr.New(apperr.NotFound, "User not found.")
	case errors.Is(err, repository.ErrUserExists):
		return apperr.New(apperr.Conflict, "User already exists with this email or username.")
	}
	return s.failure("User store failure.", err, email)
}

func (s *UserService) failure(msg string, err error, email string) error {
	s.log.Error(msg, zap.String("email", email), zap.Error(err))
	return apperr.Wrap(apperr.StoreFailure, msg, err)
}
