package blocked

import (
	"math/rand"
	"testing"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/codec"
	"github.com/andrefpf/pig/codestream"
	"github.com/andrefpf/pig/metrics"
)

func randomVolume(rng *rand.Rand, shape []int, maxValue int) *block.Block {
	b := block.New(shape...)
	data := b.Data()
	for i := range data {
		data[i] = int32(rng.Intn(maxValue + 1))
	}
	return b
}

func TestRoundTripNearLossless(t *testing.T) {
	original := codec.GradientBlock(40, 24, 8)

	c := NewCodec()
	compressed, err := c.Encode(codec.EncodeParams{
		Block:      original,
		BitDepth:   8,
		Lagrangian: 0,
		BlockSize:  8,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	result, err := c.Decode(compressed)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mse := metrics.MSE(original, result.Block); mse > 1.0 {
		t.Errorf("MSE too high for lambda 0: %v", mse)
	}
	if result.BitDepth != 8 {
		t.Errorf("bit depth: got %d, want 8", result.BitDepth)
	}
}

func TestPartialBoundaryTiles(t *testing.T) {
	original := codec.GradientBlock(21, 11, 8)

	c := NewCodec()
	compressed, err := c.Encode(codec.EncodeParams{
		Block:     original,
		BitDepth:  8,
		BlockSize: 8,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	result, err := c.Decode(compressed)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mse := metrics.MSE(original, result.Block); mse > 1.0 {
		t.Errorf("MSE too high: %v", mse)
	}
}

func TestUpperBitplaneFieldStaysSelfDescribing(t *testing.T) {
	original := codec.GradientBlock(16, 16, 8)

	compressed, err := NewCodec().Encode(codec.EncodeParams{
		Block:     original,
		BitDepth:  8,
		BlockSize: 8,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	header, _, err := codestream.Decode(compressed, 1)
	if err != nil {
		t.Fatalf("header parse failed: %v", err)
	}
	// per-block streams carry their own bitplane tables
	if header.UpperBitplane != 0 {
		t.Errorf("shared upper bitplane should stay 0, got %d", header.UpperBitplane)
	}
	if len(header.BlockLengths) != 4 {
		t.Errorf("block count: %d, want 4", len(header.BlockLengths))
	}
}

func TestThreeDimensionalVolume(t *testing.T) {
	rng := rand.New(rand.NewSource(53))
	original := randomVolume(rng, []int{5, 9, 7}, 255)

	c := NewCodec()
	compressed, err := c.Encode(codec.EncodeParams{
		Block:     original,
		BitDepth:  8,
		BlockSize: 4,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	result, err := c.Decode(compressed)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mse := metrics.MSE(original, result.Block); mse > 1.0 {
		t.Errorf("MSE too high: %v", mse)
	}
}

func TestDecodeRejectsGarbageHeader(t *testing.T) {
	if _, err := NewCodec().Decode([]byte{0, 1, 2}); err == nil {
		t.Errorf("garbage header should not decode")
	}
}
