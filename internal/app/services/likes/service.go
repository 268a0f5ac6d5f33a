package likes

import (
	"context"
	"errors"
	"log/slog"

	"avtoelon/internal/app/saga"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

// ErrAuthRequired rejects a toggle attempted with no logged-in user. No
// network call is made in that case.
var ErrAuthRequired = errors.New("likes: login required")

// BalanceUnit is the fixed number of points a like adds to (and an unlike
// removes from) the user's balance. A business rule, not configuration.
const BalanceUnit = 1000

// Store is the slice of the record-store client the toggle needs: the two
// independently-written resources of the dual mutation.
type Store interface {
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateListing(ctx context.Context, cat listing.Category, l listing.Listing) (listing.Listing, error)
}

// Service flips favorite membership for one listing and keeps the user's
// balance and the listing's aggregate like count semantically consistent
// across two non-transactional remote writes. The user side is written
// first; if the listing side fails, a compensating write reverts the user
// record. A failed compensation leaves the two remote records disagreeing,
// which is logged but never silently repaired.
type Service struct {
	Store  Store
	Logger *slog.Logger
}

// Result carries the post-toggle records to commit into local view state.
// On any error the caller keeps its pre-toggle snapshot; no partial state is
// ever handed back.
type Result struct {
	User    *user.User
	Listing listing.Listing
	Liked   bool
}

// Toggle inverts the liked state of item for the current user. The user
// record is resolved from the caller's previously-fetched users snapshot;
// absence there is a logic error, not a retry case.
func (s *Service) Toggle(ctx context.Context, current *user.User, users []user.User, cat listing.Category, item listing.Listing) (Result, error) {
	if current == nil {
		return Result{}, ErrAuthRequired
	}
	before, err := user.FindByPhone(users, current.Phone)
	if err != nil {
		s.logError("user missing from snapshot", item.ID, err)
		return Result{}, err
	}

	wasLiked := before.Likes(item.ID)
	after := before.WithLike(item.ID, !wasLiked)
	if wasLiked {
		after.Balance -= BalanceUnit
	} else {
		after.Balance += BalanceUnit
	}
	delta := 1
	if wasLiked {
		delta = -1
	}
	updatedItem := item.WithLikeCount(item.LikeCount + delta)

	err = saga.Run(ctx, s.Logger,
		saga.Func{
			StepName: "user balance and membership",
			Exec: func(ctx context.Context) error {
				_, err := s.Store.UpdateUser(ctx, *after)
				return err
			},
			Comp: func(ctx context.Context) error {
				_, err := s.Store.UpdateUser(ctx, *before)
				return err
			},
		},
		saga.Func{
			StepName: "listing like count",
			Exec: func(ctx context.Context) error {
				_, err := s.Store.UpdateListing(ctx, cat, updatedItem)
				return err
			},
		},
	)
	if err != nil {
		s.logError("like toggle failed", item.ID, err)
		return Result{}, err
	}

	if s.Logger != nil {
		s.Logger.Info("like toggled",
			"listing_id", item.ID, "liked", !wasLiked, "balance", after.Balance)
	}
	return Result{User: after, Listing: updatedItem, Liked: !wasLiked}, nil
}

// LikedStates derives the per-listing liked flags for the current user, the
// transient map screens keep in lockstep with likedListingIds.
func LikedStates(current *user.User, listings []listing.Listing) map[string]bool {
	states := make(map[string]bool, len(listings))
	if current == nil {
		return states
	}
	for _, l := range listings {
		states[l.ID] = current.Likes(l.ID)
	}
	return states
}

func (s *Service) logError(msg, listingID string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Error(msg, "listing_id", listingID, "error", err)
}
