package codec_test

import (
	"testing"

	"github.com/andrefpf/pig/codec"
	_ "github.com/andrefpf/pig/mico/blocked"
	_ "github.com/andrefpf/pig/mico/quantized"
	_ "github.com/andrefpf/pig/mule/blocked"
)

func TestCodecRegistry(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantFound bool
	}{
		{name: "Get blocked MICO", key: "blocked-mico", wantFound: true},
		{name: "Get blocked MULE", key: "blocked-mule", wantFound: true},
		{name: "Get quantized MICO", key: "blocked-mico-quantized", wantFound: true},
		{name: "Get non-existent codec", key: "non-existent", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := codec.Get(tt.key)

			if tt.wantFound {
				if err != nil {
					t.Errorf("Get(%q) unexpected error: %v", tt.key, err)
					return
				}
				if c == nil {
					t.Errorf("Get(%q) returned nil codec", tt.key)
					return
				}
				if c.Name() != tt.key {
					t.Errorf("Get(%q).Name() = %q, want %q", tt.key, c.Name(), tt.key)
				}
			} else {
				if err != codec.ErrCodecNotFound {
					t.Errorf("Get(%q) error = %v, want %v", tt.key, err, codec.ErrCodecNotFound)
				}
			}
		})
	}
}

func TestListCodecs(t *testing.T) {
	codecs := codec.List()

	if len(codecs) < 3 {
		t.Fatalf("List() returned %d codecs, want at least 3", len(codecs))
	}

	found := make(map[string]bool)
	for _, c := range codecs {
		found[c.Name()] = true
	}
	for _, name := range []string{"blocked-mico", "blocked-mule", "blocked-mico-quantized"} {
		if !found[name] {
			t.Errorf("List() did not include %q", name)
		}
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	c, err := codec.Get("blocked-mico")
	if err != nil {
		t.Fatalf("failed to get codec: %v", err)
	}

	original := codec.GradientBlock(32, 32, 8)
	compressed, err := c.Encode(codec.EncodeParams{
		Block:      original,
		BitDepth:   8,
		Lagrangian: 0,
		BlockSize:  8,
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	t.Logf("Compressed size: %d bytes", len(compressed))

	result, err := c.Decode(compressed)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if result.BitDepth != 8 {
		t.Errorf("BitDepth = %d, want 8", result.BitDepth)
	}

	shape := result.Block.Shape()
	if len(shape) != 2 || shape[0] != 32 || shape[1] != 32 {
		t.Fatalf("shape = %v, want [32 32]", shape)
	}
}

func TestBaseOptionsValidate(t *testing.T) {
	good := &codec.BaseOptions{Quality: 80}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	bad := &codec.BaseOptions{Quality: 101}
	if err := bad.Validate(); err != codec.ErrInvalidQuality {
		t.Errorf("Validate() = %v, want ErrInvalidQuality", err)
	}
}
