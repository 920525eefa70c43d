package codec

import "github.com/andrefpf/pig/block"

// Codec is the universal interface for the block-based image codecs
type Codec interface {
	// Encode compresses an integer sample block into a framed stream
	Encode(params EncodeParams) ([]byte, error)

	// Decode reconstructs the sample block from a framed stream
	Decode(data []byte) (*DecodeResult, error)

	// Name returns a human-readable codec name
	Name() string
}

// EncodeParams contains parameters for encoding
type EncodeParams struct {
	Block      *block.Block // N-D integer samples
	BitDepth   int          // Bits per sample (8, 12, 16, etc.)
	Lagrangian float64      // Rate-distortion trade-off multiplier
	BlockSize  int          // Tile edge; 0 selects the codec default
	Options    Options      // Codec-specific options
}

// Options is an interface for codec-specific encoding options
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// DecodeResult contains the result of decoding
type DecodeResult struct {
	Block    *block.Block // Decoded samples
	BitDepth int          // Bits per sample
}

// BaseOptions provides common options for all codecs
type BaseOptions struct {
	// Quality factor for the fixed-quantization codecs (1-100, scales
	// the quantization step); unused by the Lagrangian codecs
	Quality int
}

// Validate validates base options
func (o *BaseOptions) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return ErrInvalidQuality
	}
	return nil
}
