package codestream

import "errors"

var (
	// ErrBadDimensionality is returned for dimensionality 0 or above
	// MaxDimensions.
	ErrBadDimensionality = errors.New("unsupported dimensionality")

	// ErrBadShape is returned for zero-sized axes.
	ErrBadShape = errors.New("invalid shape")

	// ErrBadBlockSize is returned for block sizes outside [1, 65535].
	ErrBadBlockSize = errors.New("invalid block size")

	// ErrBadBitplane is returned for bitplane fields outside [0, 255].
	ErrBadBitplane = errors.New("invalid bitplane")

	// ErrTruncatedPayload is returned when the concatenated block
	// payloads are shorter than the lengths the header declares.
	ErrTruncatedPayload = errors.New("payload shorter than declared block lengths")

	// ErrBlockCountMismatch is returned when the declared block count
	// does not match the tiling of the declared shape.
	ErrBlockCountMismatch = errors.New("block count does not match tiling")
)
