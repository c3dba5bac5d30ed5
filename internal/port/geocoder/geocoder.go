package geocoder

import (
	"context"
	"errors"
)

// ErrZeroResults is returned when the geocoding service cannot match the
// address at all. The address has to be corrected before retrying.
var ErrZeroResults = errors.New("geocoder: zero results for address")

type Result struct {
	FormattedAddress string
	Lat              float64
	Lng              float64
}

type Geocoder interface {
	Resolve(ctx context.Context, address string) (*Result, error)
}
