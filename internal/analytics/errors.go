package analytics

import "errors"

var errInvalidTimeframe = errors.New("timeframe must be a positive number of days")
