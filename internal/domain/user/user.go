package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrPhoneRequired    = errors.New("user: phone number is required")
	ErrInvalidPhone     = errors.New("user: phone number must be +998 followed by 9 digits")
	ErrPasswordTooShort = errors.New("user: password must be at least 4 characters")
	ErrPhoneTaken       = errors.New("user: phone number already registered")
	ErrNotFound         = errors.New("user: not found")
)

// MinPasswordLen is the minimum accepted password length at sign-up.
const MinPasswordLen = 4

var phonePattern = regexp.MustCompile(`^\+998\d{9}$`)

// ID is the server-assigned record identifier.
type ID string

// User is the account record as stored by the remote record store. Passwords
// are stored and compared in plain text; that is the wire contract of the
// store, not a choice this package makes.
type User struct {
	ID       ID       `json:"id,omitempty"`
	Phone    string   `json:"phoneNumber"`
	Password string   `json:"password,omitempty"`
	Balance  int      `json:"balance"`
	LikedIDs []string `json:"likedListingIds"`
}

// ValidatePhone checks the canonical +998XXXXXXXXX form.
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return ErrPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidatePassword checks the minimum sign-up length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Likes reports whether the listing id is in the user's liked set.
func (u *User) Likes(listingID string) bool {
	for _, id := range u.LikedIDs {
		if id == listingID {
			return true
		}
	}
	return false
}

// WithLike returns a copy of the user with the listing id added to or removed
// from the liked set. The receiver is not modified.
func (u *User) WithLike(listingID string, liked bool) *User {
	next := u.Clone()
	if liked {
		if !next.Likes(listingID) {
			next.LikedIDs = append(next.LikedIDs, listingID)
		}
		return next
	}
	kept := next.LikedIDs[:0]
	for _, id := range next.LikedIDs {
		if id != listingID {
			kept = append(kept, id)
		}
	}
	next.LikedIDs = kept
	return next
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	next := *u
	next.LikedIDs = append([]string(nil), u.LikedIDs...)
	return &next
}

// FindByPhone locates the user with the given phone number in a snapshot.
func FindByPhone(users []User, phone string) (*User, error) {
	for i := range users {
		if users[i].Phone == phone {
			return users[i].Clone(), nil
		}
	}
	return nil, ErrNotFound
}
