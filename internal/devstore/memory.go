package devstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"avtoelon/internal/domain/chat"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

// MemoryStore keeps every collection in memory. Not suitable for anything
// beyond local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    []user.User
	messages []chat.Message
	listings map[listing.Category][]listing.Listing
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{listings: make(map[listing.Category][]listing.Listing)}
}

func (s *MemoryStore) Users(ctx context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]user.User, 0, len(s.users))
	for i := range s.users {
		out = append(out, *s.users[i].Clone())
	}
	return out, nil
}

func (s *MemoryStore) UserByID(ctx context.Context, id user.ID) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			return *s.users[i].Clone(), nil
		}
	}
	return user.User{}, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = user.ID(uuid.NewString())
	}
	if u.LikedIDs == nil {
		u.LikedIDs = []string{}
	}
	s.users = append(s.users, *u.Clone())
	return u, nil
}

func (s *MemoryStore) ReplaceUser(ctx context.Context, id user.ID, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		u.ID = id
		s.users[i] = *u.Clone()
		return u, nil
	}
	return user.User{}, ErrNotFound
}

func (s *MemoryStore) Messages(ctx context.Context) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chat.Message(nil), s.messages...), nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *MemoryStore) Listings(ctx context.Context, cat listing.Category) ([]listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]listing.Listing(nil), s.listings[cat]...), nil
}

func (s *MemoryStore) ListingByID(ctx context.Context, cat listing.Category, id string) (listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.listings[cat] {
		if l.ID == id {
			return l, nil
		}
	}
	return listing.Listing{}, ErrNotFound
}

func (s *MemoryStore) CreateListing(ctx context.Context, cat listing.Category, l listing.Listing) (listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.listings[cat] = append(s.listings[cat], l)
	return l, nil
}

func (s *MemoryStore) ReplaceListing(ctx context.Context, cat listing.Category, id string, l listing.Listing) (listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.listings[cat]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		l.ID = id
		items[i] = l
		return l, nil
	}
	return listing.Listing{}, ErrNotFound
}

var _ Store = (*MemoryStore)(nil)
