package sdss

import (
	"errors"

	"github.com/mohammed-shakir/skyquery/internal/model"
)

// TimeoutError is returned for any network or streaming-read deadline
// expiry, regardless of which transport hit it.
type TimeoutError = model.TimeoutError

// InvalidInputError is returned for malformed caller input.
type InvalidInputError = model.InvalidInputError

// NotFoundError reports an unknown name where the contract allows one.
type NotFoundError = model.NotFoundError

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
