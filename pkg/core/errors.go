package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when an adapter is used before Connect.
	ErrNotConnected = errors.New("database connection not established")

	// ErrSpectraShape is returned when a measurement does not carry exactly one spectrum.
	ErrSpectraShape = errors.New("measurement must contain exactly one spectrum")

	// ErrSampleMismatch is returned when Wavelengths and Counts differ in length.
	ErrSampleMismatch = errors.New("wavelengths and counts differ in length")

	// ErrDuplicateSample is returned by the pivot when a cell receives more than one value.
	ErrDuplicateSample = errors.New("duplicate sample for pivot cell")

	// ErrInvalidChannel is returned for a channel outside Channels.
	ErrInvalidChannel = errors.New("invalid channel")
)

// ShapeError ties a shaping failure to the measurement that caused it.
type ShapeError struct {
	SpectraUUID string
	Err         error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("measurement %s: %v", e.SpectraUUID, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}
