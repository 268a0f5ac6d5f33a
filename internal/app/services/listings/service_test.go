package listings

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

type fakeStore struct {
	users      []user.User
	byCategory map[listing.Category][]listing.Listing
	usersErr   error
	listErr    error
	fetches    atomic.Int64
}

func (f *fakeStore) Users(ctx context.Context) ([]user.User, error) {
	f.fetches.Add(1)
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]user.User(nil), f.users...), nil
}

func (f *fakeStore) Listings(ctx context.Context, cat listing.Category) ([]listing.Listing, error) {
	f.fetches.Add(1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]listing.Listing(nil), f.byCategory[cat]...), nil
}

func (f *fakeStore) ListingsByBrand(ctx context.Context, cat listing.Category, brand string) ([]listing.Listing, error) {
	items := make([]listing.Listing, 0)
	for _, item := range f.byCategory[cat] {
		if item.Brand == brand {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) Listing(ctx context.Context, cat listing.Category, id string) (listing.Listing, error) {
	for _, item := range f.byCategory[cat] {
		if item.ID == id {
			return item, nil
		}
	}
	return listing.Listing{}, listing.ErrNotFound
}

func TestDetailFetchesListingAndUsers(t *testing.T) {
	store := &fakeStore{
		users: []user.User{{ID: "u1", Phone: "+998901234567"}},
		byCategory: map[listing.Category][]listing.Listing{
			listing.CategoryVehicles: {{ID: "L1", Brand: "Nexia"}},
		},
	}
	svc := &Service{Store: store}

	detail, err := svc.Detail(context.Background(), listing.CategoryVehicles, "L1")
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if detail.Listing.ID != "L1" {
		t.Fatalf("listing = %+v", detail.Listing)
	}
	if len(detail.Users) != 1 {
		t.Fatalf("users = %d, want 1", len(detail.Users))
	}
}

func TestDetailFailsWhenEitherFetchFails(t *testing.T) {
	store := &fakeStore{
		usersErr: errors.New("offline"),
		byCategory: map[listing.Category][]listing.Listing{
			listing.CategoryVehicles: {{ID: "L1"}},
		},
	}
	svc := &Service{Store: store}
	if _, err := svc.Detail(context.Background(), listing.CategoryVehicles, "L1"); err == nil {
		t.Fatalf("expected users fetch error")
	}

	store = &fakeStore{users: []user.User{{ID: "u1"}}}
	svc = &Service{Store: store}
	if _, err := svc.Detail(context.Background(), listing.CategoryVehicles, "missing"); err == nil {
		t.Fatalf("expected listing fetch error")
	}
}

func TestSavedFansOutAllCategories(t *testing.T) {
	store := &fakeStore{
		users: []user.User{{
			ID: "u1", Phone: "+998901234567",
			LikedIDs: []string{"L1", "P7"},
		}},
		byCategory: map[listing.Category][]listing.Listing{
			listing.CategoryVehicles:  {{ID: "L1", Brand: "Nexia"}, {ID: "L2", Brand: "Damas"}},
			listing.CategoryMachinery: {{ID: "M1"}},
			listing.CategoryParts:     {{ID: "P7", Brand: "Bosch"}},
			listing.CategoryServices:  {{ID: "S1"}},
		},
	}
	svc := &Service{Store: store}
	current := &user.User{Phone: "+998901234567"}

	saved, err := svc.Saved(context.Background(), current)
	if err != nil {
		t.Fatalf("Saved failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved = %d items, want 2", len(saved))
	}
	if saved[0].ID != "L1" || saved[1].ID != "P7" {
		t.Fatalf("saved order = %+v", saved)
	}
}

func TestSavedUsesFreshLikedSetFromStore(t *testing.T) {
	// session copy says nothing is liked; the store record disagrees and
	// wins, because Saved re-reads the user
	store := &fakeStore{
		users: []user.User{{ID: "u1", Phone: "+998901234567", LikedIDs: []string{"L1"}}},
		byCategory: map[listing.Category][]listing.Listing{
			listing.CategoryVehicles: {{ID: "L1"}},
		},
	}
	svc := &Service{Store: store}
	stale := &user.User{Phone: "+998901234567"}

	saved, err := svc.Saved(context.Background(), stale)
	if err != nil {
		t.Fatalf("Saved failed: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved = %d, want 1 from fresh record", len(saved))
	}
}

func TestSavedEmptyLikedSetSkipsFanOut(t *testing.T) {
	store := &fakeStore{
		users: []user.User{{ID: "u1", Phone: "+998901234567"}},
	}
	svc := &Service{Store: store}

	saved, err := svc.Saved(context.Background(), &user.User{Phone: "+998901234567"})
	if err != nil {
		t.Fatalf("Saved failed: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("saved = %d, want 0", len(saved))
	}
	// only the users fetch happened
	if got := store.fetches.Load(); got != 1 {
		t.Fatalf("fetches = %d, want 1", got)
	}
}

func TestSavedNoSession(t *testing.T) {
	svc := &Service{Store: &fakeStore{}}
	if _, err := svc.Saved(context.Background(), nil); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("error = %v, want user.ErrNotFound", err)
	}
}

func TestAveragePrice(t *testing.T) {
	store := &fakeStore{
		byCategory: map[listing.Category][]listing.Listing{
			listing.CategoryVehicles: {
				{ID: "L1", Brand: "X", Price: "12 000 000 so'm"},
				{ID: "L2", Brand: "X", Price: "8500000"},
				{ID: "L3", Brand: "X", Price: ""},
				{ID: "L4", Brand: "Y", Price: "999"},
			},
		},
	}
	svc := &Service{Store: store}

	avg, err := svc.AveragePrice(context.Background(), listing.CategoryVehicles, "X")
	if err != nil {
		t.Fatalf("AveragePrice failed: %v", err)
	}
	want := float64(12000000+8500000) / 3
	if avg != want {
		t.Fatalf("avg = %.2f, want %.2f", avg, want)
	}
}

func TestAveragePriceNoMatches(t *testing.T) {
	store := &fakeStore{byCategory: map[listing.Category][]listing.Listing{}}
	svc := &Service{Store: store}
	avg, err := svc.AveragePrice(context.Background(), listing.CategoryVehicles, "Nobody")
	if err != nil {
		t.Fatalf("AveragePrice failed: %v", err)
	}
	if avg != 0 {
		t.Fatalf("avg = %f, want 0", avg)
	}
}
