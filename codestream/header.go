// Package codestream frames the self-describing image header shared
// by the blocked codecs: dimensionality, shape, block size, per-block
// payload lengths and the variant parameters, all big-endian.
package codestream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// MaxDimensions bounds the supported dimensionality.
const MaxDimensions = 8

// MaxBlockSize is the largest tile edge the 16-bit field can carry.
const MaxBlockSize = 1<<16 - 1

// Header describes a framed multi-block stream.
type Header struct {
	// Shape is the full image shape, one 32-bit size per axis.
	Shape []int

	// BlockSize is the tile edge used along every axis.
	BlockSize int

	// BlockLengths holds the byte length of every per-block payload in
	// tile order.
	BlockLengths []int

	// UpperBitplane is the shared top bitplane, zero for codecs whose
	// streams describe their own.
	UpperBitplane int

	// Params carries variant-specific bytes (bit depth, quality, ...).
	Params []byte
}

// Validate checks the header against the field widths.
func (h *Header) Validate() error {
	if len(h.Shape) == 0 || len(h.Shape) > MaxDimensions {
		return ErrBadDimensionality
	}
	for _, size := range h.Shape {
		if size <= 0 {
			return ErrBadShape
		}
	}
	if h.BlockSize <= 0 || h.BlockSize > MaxBlockSize {
		return ErrBadBlockSize
	}
	if h.UpperBitplane < 0 || h.UpperBitplane > 255 {
		return ErrBadBitplane
	}
	return nil
}

// Write emits the header fields in order.
func (h *Header) Write(w io.Writer) error {
	if err := h.Validate(); err != nil {
		return err
	}

	bw := bitio.NewWriter(w)
	if err := bw.WriteBits(uint64(len(h.Shape)), 8); err != nil {
		return err
	}
	for _, size := range h.Shape {
		if err := bw.WriteBits(uint64(size), 32); err != nil {
			return err
		}
	}
	if err := bw.WriteBits(uint64(h.BlockSize), 16); err != nil {
		return err
	}
	if err := bw.WriteBits(uint64(len(h.BlockLengths)), 32); err != nil {
		return err
	}
	for _, length := range h.BlockLengths {
		if err := bw.WriteBits(uint64(length), 32); err != nil {
			return err
		}
	}
	if err := bw.WriteBits(uint64(h.UpperBitplane), 8); err != nil {
		return err
	}
	for _, param := range h.Params {
		if err := bw.WriteBits(uint64(param), 8); err != nil {
			return err
		}
	}
	return bw.Close()
}

// Encode renders the header to bytes.
func (h *Header) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := h.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read parses a header with numParams variant bytes.
func Read(r io.Reader, numParams int) (*Header, error) {
	br := bitio.NewReader(r)

	ndim, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	if ndim == 0 || ndim > MaxDimensions {
		return nil, ErrBadDimensionality
	}

	h := &Header{Shape: make([]int, ndim)}
	for i := range h.Shape {
		size, err := br.ReadBits(32)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return nil, ErrBadShape
		}
		h.Shape[i] = int(size)
	}

	blockSize, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	if blockSize == 0 {
		return nil, ErrBadBlockSize
	}
	h.BlockSize = int(blockSize)

	numBlocks, err := br.ReadBits(32)
	if err != nil {
		return nil, err
	}
	h.BlockLengths = make([]int, numBlocks)
	for i := range h.BlockLengths {
		length, err := br.ReadBits(32)
		if err != nil {
			return nil, err
		}
		h.BlockLengths[i] = int(length)
	}

	upper, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	h.UpperBitplane = int(upper)

	h.Params = make([]byte, numParams)
	for i := range h.Params {
		param, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		h.Params[i] = byte(param)
	}

	return h, nil
}

// Decode parses a header from bytes and returns the byte offset where
// the block payloads begin.
func Decode(data []byte, numParams int) (*Header, int, error) {
	reader := bytes.NewReader(data)
	h, err := Read(reader, numParams)
	if err != nil {
		return nil, 0, err
	}
	return h, len(data) - reader.Len(), nil
}

// PayloadLength returns the total byte length the per-block payloads
// declare.
func (h *Header) PayloadLength() int {
	total := 0
	for _, length := range h.BlockLengths {
		total += length
	}
	return total
}
