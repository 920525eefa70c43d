// Package blocked provides the tiled MICO image codec. Tiles are
// level-shifted, DCT-decorrelated and entropy-coded independently;
// each tile stream carries its own quantization floor and level
// bitplane table.
package blocked

import (
	"bytes"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
	"github.com/andrefpf/pig/codec"
	"github.com/andrefpf/pig/codestream"
	"github.com/andrefpf/pig/mico"
	"github.com/andrefpf/pig/transform"
)

const blockedMicoName = "blocked-mico"

// DefaultBlockSize is the tile edge used when the caller does not pick
// one.
const DefaultBlockSize = 16

// DefaultBitDepth is assumed when the caller does not state one.
const DefaultBitDepth = 8

var _ codec.Codec = (*Codec)(nil)

// Codec implements the blocked MICO codec.
type Codec struct{}

// NewCodec creates a blocked MICO codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return blockedMicoName
}

// Encode compresses a sample block.
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.Block == nil {
		return nil, codec.ErrInvalidParameter
	}
	bitDepth := params.BitDepth
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	blockSize := params.BlockSize
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}

	shifted := levelShift(params.Block, -(int32(1) << uint(bitDepth-1)))

	var payload bytes.Buffer
	var blockLengths []int
	for _, tile := range block.Tiles(shifted.Shape(), blockSize) {
		coeffs := transform.ForwardBlock(shifted, tile)

		encoder := mico.NewEncoder()
		stream, err := encoder.Encode(coeffs, params.Lagrangian)
		if err != nil {
			return nil, err
		}

		encoded := stream.Bytes()
		payload.Write(encoded)
		blockLengths = append(blockLengths, len(encoded))
	}

	// MICO streams describe their own bitplanes, the shared field
	// stays zero
	header := &codestream.Header{
		Shape:        params.Block.Shape(),
		BlockSize:    blockSize,
		BlockLengths: blockLengths,
		Params:       []byte{byte(bitDepth)},
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
	bitDepth := int(header.Params[0])

	payload := data[offset:]
	if len(payload) < header.PayloadLength() {
		return nil, codestream.ErrTruncatedPayload
	}

	tiles := block.Tiles(header.Shape, header.BlockSize)
	if len(tiles) != len(header.BlockLengths) {
		return nil, codestream.ErrBlockCountMismatch
	}

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
		transform.InverseBlock(coeffs, decoded, tile)
	}

	restored := levelShift(decoded, int32(1)<<uint(bitDepth-1))
	return &codec.DecodeResult{Block: restored, BitDepth: bitDepth}, nil
}

func levelShift(b *block.Block, offset int32) *block.Block {
	out := b.Copy()
	data := out.Data()
	for i := range data {
		data[i] += offset
	}
	return out
}

func init() {
	codec.Register(NewCodec())
}
