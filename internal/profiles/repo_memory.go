package profiles

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) UpsertIdentity(ctx context.Context, id Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p, ok := r.profiles[id.UserID]
	if !ok {
		p.CreatedAt = now
	}
	p.Identity = id
	p.UpdatedAt = now
	r.profiles[id.UserID] = p
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// Save replaces the profile, behavior and current tools, keeping the stored identity
// when p carries none.
func (r *MemoryRepo) Save(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.profiles[p.UserID]
	if ok {
		p.CreatedAt = existing.CreatedAt
		if p.Email == "" && p.FullName == "" && p.PictureURL == "" {
			p.Identity = existing.Identity
		}
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.profiles[p.UserID] = p
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
