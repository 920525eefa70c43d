package whole

import (
	"testing"

	"github.com/andrefpf/pig/codec"
	"github.com/andrefpf/pig/metrics"
)

func TestWholeImageRoundTrip(t *testing.T) {
	original := codec.GradientBlock(25, 18, 8)

	c := NewCodec()
	compressed, err := c.Encode(codec.EncodeParams{
		Block:      original,
		BitDepth:   8,
		Lagrangian: 0,
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

func TestRegisteredInGlobalRegistry(t *testing.T) {
	c, err := codec.Get("whole-image-mico")
	if err != nil {
		t.Fatalf("codec not registered: %v", err)
	}
	if c.Name() != "whole-image-mico" {
		t.Errorf("name: %q", c.Name())
	}
}

func TestNilBlockRejected(t *testing.T) {
	if _, err := NewCodec().Encode(codec.EncodeParams{}); err != codec.ErrInvalidParameter {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}
