// Package whole provides the un-tiled MICO codec: the entire image is
// transformed and entropy-coded as a single self-describing block
// behind a minimal header: dimensionality, shape and bit depth.
package whole

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
	"github.com/andrefpf/pig/codec"
	"github.com/andrefpf/pig/codestream"
	"github.com/andrefpf/pig/mico"
	"github.com/andrefpf/pig/transform"
)

const wholeImageMicoName = "whole-image-mico"

var _ codec.Codec = (*Codec)(nil)

// Codec implements the whole-image MICO codec.
type Codec struct{}

// NewCodec creates a whole-image MICO codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return wholeImageMicoName
}

// Encode compresses the whole block at once.
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

	encoder := mico.NewEncoder()
	stream, err := encoder.Encode(coeffs, params.Lagrangian)
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
	bitDepth, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}

	payload := data[len(data)-reader.Len():]
	decoder := mico.NewDecoder()
	coeffs, err := decoder.Decode(cabac.FromBytes(payload), shape)
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
