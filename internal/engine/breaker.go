package engine

import (
	"errors"

	"github.com/piwi3910/CircuitSizer/internal/tables"
)

var ErrBreakerUnresolved = errors.New("no standardized breaker between Ib and Iz")

// SelectBreaker returns the smallest standardized rating with ib <= rating <= iz.
func SelectBreaker(ib, iz float64) (int, error) {
	for _, rating := range tables.BreakerRatings {
		r := float64(rating)
		if r >= ib && r <= iz {
			return rating, nil
		}
	}
	return 0, ErrBreakerUnresolved
}
