package domain

import "errors"

var (
	// ErrDataUnavailable marks a scenario whose source could not be read or parsed.
	ErrDataUnavailable = errors.New("scenario data unavailable")
	// ErrUnknownWarehouse marks a package that references a warehouse absent from its scenario.
	ErrUnknownWarehouse = errors.New("unknown warehouse")
	// ErrEmptyFleet marks a package that could not be served because no agent exists.
	ErrEmptyFleet = errors.New("no agent available")
	// ErrDistanceOverflow marks a package whose trip or running total is not a finite number.
	ErrDistanceOverflow = errors.New("distance overflow")
)
