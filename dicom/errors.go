// Package dicom adapts the blocked MICO codec to go-dicom's codec
// interface so DICOM pixel data can travel under a private transfer
// syntax. Each 2-D grayscale frame is mapped to an integer block,
// compressed by MICO and stored back as an encapsulated frame.
package dicom

import "errors"

var (
	// ErrInvalidLagrangian is returned for negative lambda values.
	ErrInvalidLagrangian = errors.New("invalid lagrangian (must be >= 0)")

	// ErrInvalidBlockSize is returned for block sizes outside [0, 65535].
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrUnsupportedSamples is returned for multi-component frames;
	// the adapter codes grayscale only.
	ErrUnsupportedSamples = errors.New("unsupported samples per pixel (grayscale only)")

	// ErrUnsupportedBitDepth is returned when bits allocated is
	// neither 8 nor 16.
	ErrUnsupportedBitDepth = errors.New("unsupported bits allocated (8 or 16)")
)
