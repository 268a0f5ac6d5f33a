package listings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

// Store is the slice of the record-store client the listing screens need.
type Store interface {
	Users(ctx context.Context) ([]user.User, error)
	Listings(ctx context.Context, cat listing.Category) ([]listing.Listing, error)
	ListingsByBrand(ctx context.Context, cat listing.Category, brand string) ([]listing.Listing, error)
	Listing(ctx context.Context, cat listing.Category, id string) (listing.Listing, error)
}

// Service fetches listing collections for display. Every method refetches;
// there is no cross-screen cache, so independently stale copies of the same
// record may coexist. Freshness is best effort.
type Service struct {
	Store  Store
	Logger *slog.Logger
}

// Detail is the data a listing detail screen needs: the record itself plus
// the users snapshot the like toggle resolves the current user from.
type Detail struct {
	Listing listing.Listing
	Users   []user.User
}

// ByCategory fetches one category collection.
func (s *Service) ByCategory(ctx context.Context, cat listing.Category) ([]listing.Listing, error) {
	items, err := s.Store.Listings(ctx, cat)
	if err != nil {
		s.logError("category fetch failed", string(cat), err)
		return nil, fmt.Errorf("listings: fetch %s: %w", cat, err)
	}
	return items, nil
}

// Detail fetches the listing and the users collection concurrently and
// waits for both; either failure fails the load.
func (s *Service) Detail(ctx context.Context, cat listing.Category, id string) (Detail, error) {
	var (
		wg       sync.WaitGroup
		item     listing.Listing
		users    []user.User
		itemErr  error
		usersErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		item, itemErr = s.Store.Listing(ctx, cat, id)
	}()
	go func() {
		defer wg.Done()
		users, usersErr = s.Store.Users(ctx)
	}()
	wg.Wait()

	if itemErr != nil {
		s.logError("detail fetch failed", id, itemErr)
		return Detail{}, fmt.Errorf("listings: fetch %s/%s: %w", cat, id, itemErr)
	}
	if usersErr != nil {
		s.logError("users fetch failed", id, usersErr)
		return Detail{}, fmt.Errorf("listings: fetch users: %w", usersErr)
	}
	return Detail{Listing: item, Users: users}, nil
}

// Saved re-reads the current user from the store and fans out over all
// category collections concurrently, keeping the records whose id appears in
// the user's liked set. Order follows the category fan-out, then each
// collection's own order.
func (s *Service) Saved(ctx context.Context, current *user.User) ([]listing.Listing, error) {
	if current == nil {
		return nil, user.ErrNotFound
	}
	users, err := s.Store.Users(ctx)
	if err != nil {
		s.logError("users fetch failed", current.Phone, err)
		return nil, fmt.Errorf("listings: fetch users: %w", err)
	}
	fresh, err := user.FindByPhone(users, current.Phone)
	if err != nil {
		s.logError("user missing from store", current.Phone, err)
		return nil, err
	}
	if len(fresh.LikedIDs) == 0 {
		return []listing.Listing{}, nil
	}

	categories := listing.Categories()
	results := make([][]listing.Listing, len(categories))
	errs := make([]error, len(categories))
	var wg sync.WaitGroup
	for i, cat := range categories {
		wg.Add(1)
		go func(i int, cat listing.Category) {
			defer wg.Done()
			results[i], errs[i] = s.Store.Listings(ctx, cat)
		}(i, cat)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			s.logError("saved fan-out failed", string(categories[i]), err)
			return nil, fmt.Errorf("listings: fetch %s: %w", categories[i], err)
		}
	}

	liked := make(map[string]struct{}, len(fresh.LikedIDs))
	for _, id := range fresh.LikedIDs {
		liked[id] = struct{}{}
	}
	saved := make([]listing.Listing, 0, len(fresh.LikedIDs))
	for _, items := range results {
		for _, item := range items {
			if _, ok := liked[item.ID]; ok {
				saved = append(saved, item)
			}
		}
	}
	return saved, nil
}

// AveragePrice fetches the category records sharing a brand and averages
// their parsed prices. Recomputed in full on every call, nothing cached.
func (s *Service) AveragePrice(ctx context.Context, cat listing.Category, brand string) (float64, error) {
	items, err := s.Store.ListingsByBrand(ctx, cat, brand)
	if err != nil {
		s.logError("brand fetch failed", brand, err)
		return 0, fmt.Errorf("listings: fetch %s by brand: %w", cat, err)
	}
	return listing.AveragePrice(items), nil
}

func (s *Service) logError(msg, key string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Error(msg, "key", key, "error", err)
}
