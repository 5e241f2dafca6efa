package frame

import "errors"

var (
	// ErrSeriesNotFound is returned when a named series is not in the frame
	ErrSeriesNotFound = errors.New("series not found")

	// ErrLabelNotFound is returned when a label is not in the frame
	ErrLabelNotFound = errors.New("label not found")

	// ErrSeriesExists is returned when a series name is already taken
	ErrSeriesExists = errors.New("series already exists")

	// ErrLabelExists is returned when a label is already taken
	ErrLabelExists = errors.New("label already exists")

	// ErrSeriesMismatch is returned when two frames must share series names and do not
	ErrSeriesMismatch = errors.New("series names do not match")

	// ErrLengthMismatch is returned when values and labels differ in length
	ErrLengthMismatch = errors.New("values and labels differ in length")

	// ErrInvariant is returned by Validate when a row does not match the series count
	ErrInvariant = errors.New("row length does not match series count")

	// ErrUnknownCastType is returned for a cast type outside the supported set
	ErrUnknownCastType = errors.New("unknown cast type")

	// ErrUnknownCastPolicy is returned for an unknown cast error policy
	ErrUnknownCastPolicy = errors.New("unknown cast error policy")
)
