// Package quantized provides the fixed-quantization MICO variant: DCT
// coefficients are divided by a position-dependent step matrix scaled
// by a quality factor, then entropy-coded with MICO at a tiny lambda
// so the tree search degenerates to plain coding. No rate-distortion
// optimization happens here; quality alone sets the trade-off.
package quantized

import (
	"bytes"
	"math"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
	"github.com/andrefpf/pig/codec"
	"github.com/andrefpf/pig/codestream"
	"github.com/andrefpf/pig/mico"
	"github.com/andrefpf/pig/transform"
)

const quantizedMicoName = "blocked-mico-quantized"

// DefaultBlockSize is the tile edge used when the caller does not pick
// one.
const DefaultBlockSize = 8

// DefaultQuality is used when the caller does not pick a quality.
const DefaultQuality = 50

// treeLagrangian keeps the MICO search effectively lossless while
// still exercising the full decision tree.
const treeLagrangian = 1e-6

var _ codec.Codec = (*Codec)(nil)

// Codec implements the quantized MICO codec.
type Codec struct{}

// NewCodec creates a quantized MICO codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return quantizedMicoName
}

// Encode compresses a sample block under a quality factor in [1, 100]
// taken from Options (codec.BaseOptions) or DefaultQuality.
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.Block == nil {
		return nil, codec.ErrInvalidParameter
	}
	blockSize := params.BlockSize
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}

	quality := DefaultQuality
	if options, ok := params.Options.(*codec.BaseOptions); ok && options != nil {
		if err := options.Validate(); err != nil {
			return nil, err
		}
		if options.Quality != 0 {
			quality = options.Quality
		}
	}

	data := params.Block
	matrix := NewQuantizationMatrix(blockSize, data.NDim(), quality)

	var payload bytes.Buffer
	var blockLengths []int
	for _, tile := range block.Tiles(data.Shape(), blockSize) {
		coeffs := quantizeForward(data, tile, matrix)

		encoder := mico.NewEncoder()
		stream, err := encoder.Encode(coeffs, treeLagrangian)
		if err != nil {
			return nil, err
		}

		encoded := stream.Bytes()
		payload.Write(encoded)
		blockLengths = append(blockLengths, len(encoded))
	}

	header := &codestream.Header{
		Shape:        data.Shape(),
		BlockSize:    blockSize,
		BlockLengths: blockLengths,
		Params:       []byte{byte(quality)},
	}
	framed, err := header.Encode()
	if err != nil {
		return nil, err
	}
	return append(framed, payload.Bytes()...), nil
}

// Decode reconstructs a sample block.
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	header, offset, err := codestream.Decode(data, 1)
	if err != nil {
		return nil, err
	}
	quality := int(header.Params[0])
	if quality < 1 || quality > 100 {
		return nil, codec.ErrInvalidQuality
	}

	payload := data[offset:]
	if len(payload) < header.PayloadLength() {
		return nil, codestream.ErrTruncatedPayload
	}

	tiles := block.Tiles(header.Shape, header.BlockSize)
	if len(tiles) != len(header.BlockLengths) {
		return nil, codestream.ErrBlockCountMismatch
	}

	matrix := NewQuantizationMatrix(header.BlockSize, len(header.Shape), quality)

	decoded := block.New(header.Shape...)
	position := 0
	for i, tile := range tiles {
		length := header.BlockLengths[i]
		chunk := payload[position : position+length]
		position += length

		decoder := mico.NewDecoder()
		coeffs, err := decoder.Decode(cabac.FromBytes(chunk), tile.Shape())
		if err != nil {
			return nil, err
		}
		dequantizeInverse(coeffs, decoded, tile, matrix)
	}

	return &codec.DecodeResult{Block: decoded, BitDepth: 8}, nil
}

// quantizeForward extracts a tile, transforms it and divides by the
// step matrix before rounding.
func quantizeForward(b *block.Block, tile block.Region, matrix *QuantizationMatrix) *block.Block {
	shape := tile.Shape()
	data := transform.Extract(b, tile)
	transform.DCTN(data, shape)

	coeffs := block.New(shape...)
	values := coeffs.Data()
	local := make([]int, len(shape))
	for i := range data {
		values[i] = int32(math.Round(data[i] / matrix.At(local)))
		advance(local, shape)
	}
	return coeffs
}

// dequantizeInverse multiplies decoded coefficients back by the step
// matrix and inverse-transforms them into the destination region.
func dequantizeInverse(coeffs *block.Block, dst *block.Block, tile block.Region, matrix *QuantizationMatrix) {
	shape := coeffs.Shape()
	data := make([]float64, coeffs.Size())
	local := make([]int, len(shape))
	for i, v := range coeffs.Data() {
		data[i] = float64(v) * matrix.At(local)
		advance(local, shape)
	}
	transform.IDCTN(data, shape)

	i := 0
	dst.ForEach(tile, func(idx int, _ []int, _ int32) {
		dst.Data()[idx] = int32(math.Round(data[i]))
		i++
	})
}

// advance steps a local position through a shape in row-major order.
func advance(pos, shape []int) {
	for axis := len(pos) - 1; axis >= 0; axis-- {
		pos[axis]++
		if pos[axis] < shape[axis] {
			return
		}
		pos[axis] = 0
	}
}

func init() {
	codec.Register(NewCodec())
}
