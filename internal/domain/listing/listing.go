package listing

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("listing: unknown category")
	ErrNotFound        = errors.New("listing: not found")
)

// Category names one of the flat record collections on the remote store. The
// category value doubles as the collection path segment.
type Category string

const (
	CategoryVehicles  Category = "vehicles"
	CategoryMachinery Category = "machinery"
	CategoryParts     Category = "parts"
	CategoryServices  Category = "services"
)

// Categories lists every collection, in the order the saved-items screen
// fans out over them.
func Categories() []Category {
	return []Category{CategoryVehicles, CategoryMachinery, CategoryParts, CategoryServices}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryVehicles, CategoryMachinery, CategoryParts, CategoryServices:
		return true
	}
	return false
}

// ParseCategory validates a user-supplied category name.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// Listing is an advert record. Price is free text as entered by the seller
// ("12 000 000 so'm"); use PriceValue for arithmetic. Every field beyond id,
// brand, price and likeCount is optional display data.
type Listing struct {
	ID          string   `json:"id,omitempty"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model,omitempty"`
	Price       string   `json:"price"`
	LikeCount   int      `json:"likeCount"`
	Year        string   `json:"year,omitempty"`
	City        string   `json:"city,omitempty"`
	Fuel        string   `json:"fuel,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	VIP         bool     `json:"vip,omitempty"`
}

// PriceValue extracts the numeric part of a price string by dropping every
// non-digit rune. An empty or unparseable remainder counts as zero.
func PriceValue(price string) int {
	var digits strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// AveragePrice is the arithmetic mean of PriceValue over the set, zero for an
// empty set. Listings with unparseable prices contribute zero to the sum but
// still count toward the divisor.
func AveragePrice(listings []Listing) float64 {
	if len(listings) == 0 {
		return 0
	}
	total := 0
	for _, l := range listings {
		total += PriceValue(l.Price)
	}
	return float64(total) / float64(len(listings))
}

// WithLikeCount returns a copy with the aggregate like counter replaced.
func (l Listing) WithLikeCount(count int) Listing {
	next := l
	next.Images = append([]string(nil), l.Images...)
	next.LikeCount = count
	return next
}
