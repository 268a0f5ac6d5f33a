// Package devstore is the local stand-in for the hosted flat record store
// the mobile client talks to: three independent collections (users, messages,
// one per listing category) behind plain JSON-over-HTTP, with no shared
// backend logic. It exists for development and integration tests.
package devstore

import (
	"context"
	"errors"

	"avtoelon/internal/domain/chat"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

var ErrNotFound = errors.New("devstore: record not found")

// Store is the persistence behind the router. Implementations assign ids on
// create and replace records wholesale on update, matching the unopinionated
// semantics of the hosted store.
type Store interface {
	Users(ctx context.Context) ([]user.User, error)
	UserByID(ctx context.Context, id user.ID) (user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	ReplaceUser(ctx context.Context, id user.ID, u user.User) (user.User, error)

	Messages(ctx context.Context) ([]chat.Message, error)
	AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	Listings(ctx context.Context, cat listing.Category) ([]listing.Listing, error)
	ListingByID(ctx context.Context, cat listing.Category, id string) (listing.Listing, error)
	CreateListing(ctx context.Context, cat listing.Category, l listing.Listing) (listing.Listing, error)
	ReplaceListing(ctx context.Context, cat listing.Category, id string, l listing.Listing) (listing.Listing, error)
}
