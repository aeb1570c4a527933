package models

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidPrice is returned when a price can't be parsed as a non-negative
// amount with at most 7 digits, 2 of them after the decimal point.
var ErrInvalidPrice = errors.New("invalid price")

var priceRE = regexp.MustCompile(`^\d{1,5}(\.\d{1,2})?$`)

// Price is a fixed-point currency amount stored as cents. Storing cents as
// an integer keeps equality filters and ORDER BY exact in SQLite; the JSON
// representation is the usual two-decimal string (e.g. "100.00").
type Price int64

// ParsePrice parses a decimal string into a Price.
func ParsePrice(s string) (Price, error) {
	if !priceRE.MatchString(s) {
		return 0, errors.WithStack(ErrInvalidPrice)
	}

	whole, frac, _ := strings.Cut(s, ".")
	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errors.WithStack(ErrInvalidPrice)
	}
	cents *= 100

	if frac != "" {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errors.WithStack(ErrInvalidPrice)
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents += f
	}

	return Price(cents), nil
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts both a JSON string ("100.00") and a bare number
// (100.00), since clients send either.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText lets query-param decoding handle ?price=100.00 directly.
func (p *Price) UnmarshalText(text []byte) error {
	parsed, err := ParsePrice(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*p = Price(v)
		return nil
	case nil:
		*p = 0
		return nil
	default:
		return errors.Errorf("cannot scan %T into Price", src)
	}
}
