package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
)

// Users keeps users keyed by lower-cased email.
type Users struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
	nextID  uint64
}

func NewUsers() *Users {
	return &Users{byEmail: make(map[string]*model.User)}
}

func (s *Users) Create(ctx context.Context, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = normalize(u.Email)
	u.Username = normalize(u.Username)
	if s.takenLocked(u.Email, u.Username, "") {
		return repository.ErrUserExists
	}
	s.nextID++
	now := time.Now().UTC()
	u.ID = s.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	s.byEmail[u.Email] = &cp
	return nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[normalize(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Users) List(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.User, 0, len(s.byEmail))
	for _, u := range s.byEmail {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces the user stored under email with u, which may carry a
// new email.
func (s *Users) Update(ctx context.Context, email string, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalize(email)
	cur, ok := s.byEmail[key]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Email = normalize(u.Email)
	u.Username = normalize(u.Username)
	if s.takenLocked(u.Email, u.Username, key) {
		return repository.ErrUserExists
	}
	u.ID, u.CreatedAt = cur.ID, cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	delete(s.byEmail, key)
	cp := *u
	s.byEmail[u.Email] = &cp
	return nil
}

func (s *Users) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalize(email)
	if _, ok := s.byEmail[key]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.byEmail, key)
	return nil
}

func (s *Users) takenLocked(email, username, self string) bool {
	for k, u := range s.byEmail {
		if k == self {
			continue
		}
		if k == email || (username != "" && u.Username == username) {
			return true
		}
	}
	return false
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
