package domain

import "errors"

var (
	// ErrStationMismatch means a record's embedded station codes disagree
	// with the codes derived from the filename. The file is treated as
	// corrupt and the rest of it is skipped.
	ErrStationMismatch = errors.New("station code mismatch")

	// ErrRangeViolation means a structurally required field decoded to a
	// value outside its documented hard bounds.
	ErrRangeViolation = errors.New("required field out of range")

	// ErrRecordTooShort means a line is shorter than the schema extent.
	ErrRecordTooShort = errors.New("record shorter than schema")

	// ErrGeometry means a station inside the requested bounding box
	// projected to a pixel outside the image, which indicates a box/station
	// mismatch bug rather than bad input.
	ErrGeometry = errors.New("projected pixel outside image bounds")
)
