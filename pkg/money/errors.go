package money

import "errors"

var ErrTooManyPlaces = errors.New("value has more than 2 decimal places")
