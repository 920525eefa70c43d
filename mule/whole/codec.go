// Package whole provides the un-tiled MULE codec: the entire image is
// transformed and entropy-coded as a single block behind a minimal
// header: dimensionality, shape, upper bitplane and bit depth.
package whole

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
	"github.com/andrefpf/pig/codec"
	"github.com/andrefpf/pig/codestream"
	"github.com/andrefpf/pig/mule"
	"github.com/andrefpf/pig/transform"
)

const wholeImageMuleName = "whole-image-mule"

var _ codec.Codec = (*Codec)(nil)

// Codec implements the whole-image MULE codec.
type Codec struct{}

// NewCodec creates a whole-image MULE codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return wholeImageMuleName
}

// Encode compresses the whole block at once. The top bitplane is
// derived from the transformed content and framed in the header.
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.Block == nil {
		return nil, codec.ErrInvalidParameter
	}
	data := params.Block
	if data.NDim() == 0 || data.NDim() > codestream.MaxDimensions {
		return nil, codestream.ErrBadDimensionality
	}
	bitDepth := params.BitDepth
	if bitDepth == 0 {
		bitDepth = 8
	}

	coeffs := transform.ForwardBlock(data, data.Full())
	upperBitplane := coeffs.MaxBitplane(coeffs.Full())

	encoder := mule.NewEncoder()
	stream, err := encoder.EncodeWithUpperBitplane(coeffs, params.Lagrangian, upperBitplane)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	if err := bw.WriteBits(uint64(data.NDim()), 8); err != nil {
		return nil, err
	}
	for _, size := range data.Shape() {
		if err := bw.WriteBits(uint64(size), 32); err != nil {
			return nil, err
		}
	}
	if err := bw.WriteBits(uint64(upperBitplane), 8); err != nil {
		return nil, err
	}
	if err := bw.WriteBits(uint64(bitDepth), 8); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}

	return append(buf.Bytes(), stream.Bytes()...), nil
}

// Decode reconstructs the block.
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	reader := bytes.NewReader(data)
	br := bitio.NewReader(reader)

	ndim, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	if ndim == 0 || ndim > codestream.MaxDimensions {
		return nil, codestream.ErrBadDimensionality
	}

	shape := make([]int, ndim)
	for i := range shape {
		size, err := br.ReadBits(32)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return nil, codestream.ErrBadShape
		}
		shape[i] = int(size)
	}
	upperBitplane, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	bitDepth, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}

	payload := data[len(data)-reader.Len():]
	decoder := mule.NewDecoder()
	coeffs, err := decoder.Decode(cabac.FromBytes(payload), shape, int(upperBitplane))
	if err != nil {
		return nil, err
	}

	decoded := block.New(shape...)
	transform.InverseBlock(coeffs, decoded, decoded.Full())
	return &codec.DecodeResult{Block: decoded, BitDepth: int(bitDepth)}, nil
}

func init() {
	codec.Register(NewCodec())
}
