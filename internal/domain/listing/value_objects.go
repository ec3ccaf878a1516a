package listing

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidPrice    = errors.New("price per night must be a positive amount of at most 1000000")
	ErrInvalidTitle    = errors.New("title is required and must be at most 120 characters")
	ErrInvalidText     = errors.New("description and location are required")
	ErrTooManyImages   = errors.New("a listing can hold at most 20 images")
	ErrNotOwnedByActor = errors.New("listing is owned by another user")
)

const (
	maxTitleLength = 120
	MaxImages      = 20

	// MaxPriceCents is 1,000,000 currency units per night.
	MaxPriceCents int64 = 100_000_000
)

// Price is a nightly rate in minor currency units.
type Price struct {
	cents int64
}

func NewPrice(cents int64) (Price, error) {
	if cents <= 0 || cents > MaxPriceCents {
		return Price{}, ErrInvalidPrice
	}
	return Price{cents: cents}, nil
}

// NewPriceFromDecimal accepts major units, e.g. 99.5, rounded to the nearest cent.
func NewPriceFromDecimal(amount float64) (Price, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Price{}, ErrInvalidPrice
	}
	// bound before converting: float to int64 is undefined outside int64's range
	cents := math.Round(amount * 100)
	if cents <= 0 || cents > float64(MaxPriceCents) {
		return Price{}, ErrInvalidPrice
	}
	return NewPrice(int64(cents))
}

func ParsePrice(s string) (Price, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Price{}, ErrInvalidPrice
	}
	return NewPriceFromDecimal(amount)
}

func (p Price) Cents() int64 {
	return p.cents
}

func (p Price) Decimal() float64 {
	return float64(p.cents) / 100
}
