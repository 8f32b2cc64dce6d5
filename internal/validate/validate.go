package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/sidereusnuntius/readfed/internal/federation"
)

const (
	MaxNameLen = 255
	MinRating  = 0
	MaxRating  = 5
)

// Review validates the fields of a review received from a remote server and returns its rating, which is nil
// when the review has none. Every returned error wraps federation.ErrValidation.
func Review(name, bookKey string, rating json.Number) (*int, error) {
	var errs = []error{}

	errs = append(errs, Name(name))

	errs = append(errs, BookKey(bookKey))

	r, err := Rating(rating)
	errs = append(errs, err)

	if err = errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", federation.ErrValidation, err)
	}
	return r, nil
}

func Name(name string) error {
	if l := utf8.RuneCountInString(name); l == 0 {
		return errors.New("empty name")
	} else if l > MaxNameLen {
		return fmt.Errorf("name too long; max %d characters", MaxNameLen)
	}
	return nil
}

func BookKey(key string) error {
	if key == "" {
		return errors.New("empty book reference")
	}
	return nil
}

// Rating accepts integral ratings between MinRating and MaxRating, written either as a number or a numeric
// string. A fractional rating such as 4.0 is accepted if it is a whole number.
func Rating(rating json.Number) (*int, error) {
	if rating == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(rating.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("rating %q is not a number", rating)
	}

	r := int(f)
	switch {
	case float64(r) != f:
		return nil, fmt.Errorf("rating %s is not a whole number", rating)
	case r < MinRating || r > MaxRating:
		return nil, fmt.Errorf("rating out of range; must be between %d and %d", MinRating, MaxRating)
	}
	return &r, nil
}
