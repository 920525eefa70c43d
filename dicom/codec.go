package dicom

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/andrefpf/pig/block"
	pigcodec "github.com/andrefpf/pig/codec"
	micoblocked "github.com/andrefpf/pig/mico/blocked"
)

var _ codec.Codec = (*Codec)(nil)

const micoCodecName = "PIG MICO"

// Codec implements go-dicom's codec interface on top of the blocked
// MICO codec. The transfer syntax is supplied by the caller, since
// MICO streams travel under a private syntax.
type Codec struct {
	transferSyntax *transfer.Syntax
}

// NewCodecWithTransferSyntax constructs the codec for the given
// (typically private) transfer syntax.
func NewCodecWithTransferSyntax(ts *transfer.Syntax) *Codec {
	return &Codec{
		transferSyntax: ts,
	}
}

// Name returns the codec name
func (c *Codec) Name() string {
	return micoCodecName
}

// TransferSyntax returns the transfer syntax this codec handles
func (c *Codec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// GetDefaultParameters returns the default codec parameters
func (c *Codec) GetDefaultParameters() codec.Parameters {
	return NewParameters()
}

// Encode compresses every frame of the source pixel data with MICO
// and appends the encapsulated frames to the destination.
func (c *Codec) Encode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	frameInfo, err := validateInputs(oldPixelData, newPixelData)
	if err != nil {
		return err
	}
	micoParams := c.extractParameters(parameters)
	if err := micoParams.Validate(); err != nil {
		return fmt.Errorf("invalid MICO parameters: %w", err)
	}

	frameCount := oldPixelData.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("source pixel data is empty (no frames)")
	}

	inner := micoblocked.NewCodec()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		samples, err := frameToBlock(frameData, frameInfo)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frameIndex, err)
		}

		encoded, err := inner.Encode(pigcodec.EncodeParams{
			Block:      samples,
			BitDepth:   int(frameInfo.BitsStored),
			Lagrangian: micoParams.Lagrangian,
			BlockSize:  micoParams.BlockSize,
		})
		if err != nil {
			return fmt.Errorf("MICO encode failed for frame %d: %w", frameIndex, err)
		}
		if err := newPixelData.AddFrame(encoded); err != nil {
			return fmt.Errorf("failed to add encoded frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// Decode reconstructs every MICO frame back to raw pixel data.
func (c *Codec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, _ codec.Parameters) error {
	frameInfo, err := validateInputs(oldPixelData, newPixelData)
	if err != nil {
		return err
	}

	frameCount := oldPixelData.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("source pixel data is empty (no frames)")
	}

	inner := micoblocked.NewCodec()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}

		result, err := inner.Decode(frameData)
		if err != nil {
			return fmt.Errorf("MICO decode failed for frame %d: %w", frameIndex, err)
		}

		raw, err := blockToFrame(result.Block, frameInfo)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frameIndex, err)
		}
		if err := newPixelData.AddFrame(raw); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// Register registers the codec in go-dicom's global registry under the
// supplied private transfer syntax.
func Register(ts *transfer.Syntax) {
	registry := codec.GetGlobalRegistry()
	registry.RegisterCodec(ts, NewCodecWithTransferSyntax(ts))
}

func validateInputs(oldPixelData, newPixelData imagetypes.PixelData) (*imagetypes.FrameInfo, error) {
	if oldPixelData == nil || newPixelData == nil {
		return nil, fmt.Errorf("source and destination PixelData cannot be nil")
	}
	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return nil, fmt.Errorf("failed to get frame info from source pixel data")
	}
	if int(frameInfo.SamplesPerPixel) != 1 {
		return nil, ErrUnsupportedSamples
	}
	if b := int(frameInfo.BitsAllocated); b != 8 && b != 16 {
		return nil, ErrUnsupportedBitDepth
	}
	return frameInfo, nil
}

func (c *Codec) extractParameters(parameters codec.Parameters) *Parameters {
	if parameters == nil {
		return NewParameters()
	}
	if mp, ok := parameters.(*Parameters); ok {
		return mp
	}
	micoParams := NewParameters()
	if v := parameters.GetParameter("lagrangian"); v != nil {
		micoParams.SetParameter("lagrangian", v)
	}
	if v := parameters.GetParameter("blockSize"); v != nil {
		micoParams.SetParameter("blockSize", v)
	}
	return micoParams
}

// frameToBlock unpacks a raw grayscale frame (little-endian for 16
// bits) into a height x width integer block.
func frameToBlock(frameData []byte, frameInfo *imagetypes.FrameInfo) (*block.Block, error) {
	width := int(frameInfo.Width)
	height := int(frameInfo.Height)
	bytesPerSample := int(frameInfo.BitsAllocated) / 8
	signed := frameInfo.PixelRepresentation != 0

	if len(frameData) < width*height*bytesPerSample {
		return nil, fmt.Errorf("frame data too short: %d bytes for %dx%d", len(frameData), width, height)
	}

	samples := block.New(height, width)
	data := samples.Data()
	for i := range data {
		switch bytesPerSample {
		case 1:
			v := int32(frameData[i])
			if signed {
				v = int32(int8(frameData[i]))
			}
			data[i] = v
		case 2:
			raw := uint16(frameData[2*i]) | uint16(frameData[2*i+1])<<8
			v := int32(raw)
			if signed {
				v = int32(int16(raw))
			}
			data[i] = v
		}
	}
	return samples, nil
}

// blockToFrame packs a decoded block back into the raw frame layout.
func blockToFrame(samples *block.Block, frameInfo *imagetypes.FrameInfo) ([]byte, error) {
	width := int(frameInfo.Width)
	height := int(frameInfo.Height)
	bytesPerSample := int(frameInfo.BitsAllocated) / 8

	shape := samples.Shape()
	if len(shape) != 2 || shape[0] != height || shape[1] != width {
		return nil, fmt.Errorf("decoded shape %v does not match %dx%d frame", shape, width, height)
	}

	raw := make([]byte, width*height*bytesPerSample)
	for i, v := range samples.Data() {
		switch bytesPerSample {
		case 1:
			raw[i] = byte(clampSample(v, frameInfo.PixelRepresentation != 0, 8))
		case 2:
			clamped := clampSample(v, frameInfo.PixelRepresentation != 0, 16)
			raw[2*i] = byte(clamped)
			raw[2*i+1] = byte(clamped >> 8)
		}
	}
	return raw, nil
}

// clampSample bounds a reconstructed sample to the representable range
// so lossy decodes never wrap around.
func clampSample(v int32, signed bool, bits int) uint32 {
	if signed {
		min := -(int32(1) << uint(bits-1))
		max := int32(1)<<uint(bits-1) - 1
		if v < min {
			v = min
		}
		if v > max {
			v = max
		}
		return uint32(v) & (1<<uint(bits) - 1)
	}
	max := int32(1)<<uint(bits) - 1
	if v < 0 {
		v = 0
	}
	if v > max {
		v = max
	}
	return uint32(v)
}
