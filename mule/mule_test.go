package mule

import (
	"math/rand"
	"testing"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
)

func easyBlock() *block.Block {
	return block.FromSlice([]int{4, 4}, []int32{
		18, 8, 0, 2,
		-7, 3, 0, 0,
		0, 0, 1, 1,
		0, 0, 3, -2,
	})
}

func randomBlock(rng *rand.Rand, shape []int, maxValue int) *block.Block {
	b := block.New(shape...)
	data := b.Data()
	for i := range data {
		data[i] = int32(rng.Intn(maxValue))
	}
	return b
}

func TestEasyBlockFlags(t *testing.T) {
	original := easyBlock()

	encoder := NewEncoder()
	encoded, err := encoder.Encode(original, 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if got := encoder.Flags.String(); got != "SSLLLSZLLLS" {
		t.Errorf("flag sequence: got %q, want %q", got, "SSLLLSZLLLS")
	}
	if encoder.LowerBitplane != 0 {
		t.Errorf("lossless encode should keep lower bitplane 0, got %d", encoder.LowerBitplane)
	}

	decoder := NewDecoder()
	decoded, err := decoder.Decode(encoded, original.Shape(), encoder.UpperBitplane)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch:\n got  %v\n want %v", decoded.Data(), original.Data())
	}
	if decoder.LowerBitplane != encoder.LowerBitplane {
		t.Errorf("lower bitplane diverged: encoder %d, decoder %d",
			encoder.LowerBitplane, decoder.LowerBitplane)
	}
}

func TestLosslessRoundTripIsDeterministic(t *testing.T) {
	original := easyBlock()

	encoder := NewEncoder()
	encoded, err := encoder.Encode(original, 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	first, err := NewDecoder().Decode(encoded.Copy(), original.Shape(), encoder.UpperBitplane)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}
	second, err := NewDecoder().Decode(encoded.Copy(), original.Shape(), encoder.UpperBitplane)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("decoding must be deterministic")
	}
}

func TestRandomBlocksLossless(t *testing.T) {
	rng := rand.New(rand.NewSource(31))

	shapes := [][]int{
		{16},
		{8, 8},
		{5, 7},
		{4, 4, 4},
		{3, 2, 5, 2},
		{2, 3, 2, 2, 2},
	}
	for _, shape := range shapes {
		original := randomBlock(rng, shape, 256)
		for i, v := range original.Data() {
			if i%3 == 0 {
				original.Data()[i] = -v
			}
		}

		encoder := NewEncoder()
		encoded, err := encoder.Encode(original, 0)
		if err != nil {
			t.Fatalf("shape %v: encode failed: %v", shape, err)
		}

		decoded, err := NewDecoder().Decode(encoded, shape, encoder.UpperBitplane)
		if err != nil {
			t.Fatalf("shape %v: decode failed: %v", shape, err)
		}
		if !decoded.Equal(original) {
			t.Errorf("shape %v: round trip mismatch", shape)
		}
	}
}

func TestAllZeroBlock(t *testing.T) {
	original := block.New(4, 4)

	encoder := NewEncoder()
	encoded, err := encoder.Encode(original, 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := NewDecoder().Decode(encoded, original.Shape(), encoder.UpperBitplane)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch for the all-zero block")
	}
}

func TestFixedUpperBitplaneRoundTrip(t *testing.T) {
	original := easyBlock()
	const upper = 14

	encoder := NewEncoder()
	encoded, err := encoder.EncodeWithUpperBitplane(original, 0, upper)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := NewDecoder().Decode(encoded, original.Shape(), upper)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch with fixed upper bitplane")
	}
}

func TestUpperBitplaneRangeChecked(t *testing.T) {
	original := easyBlock()
	if _, err := NewEncoder().EncodeWithUpperBitplane(original, 0, 33); err != ErrBitplaneRange {
		t.Errorf("encode: got %v, want ErrBitplaneRange", err)
	}
	if _, err := NewDecoder().Decode(easyBitstream(t), original.Shape(), 40); err != ErrBitplaneRange {
		t.Errorf("decode: got %v, want ErrBitplaneRange", err)
	}
}

func easyBitstream(t *testing.T) *cabac.Bitstream {
	t.Helper()
	encoder := NewEncoder()
	encoded, err := encoder.Encode(easyBlock(), 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return encoded
}

// Snapshot stacks must be balanced once the search commits (every push
// paired with a pop or a discard).
func TestOptimizerSnapshotBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(32))

	for _, lagrangian := range []float64{0, 1, 100, 10000} {
		b := randomBlock(rng, []int{8, 8}, 128)
		optimizer := NewOptimizer(lagrangian)
		lower := optimizer.OptimizeLowerBitplane(b, b.MaxBitplane(b.Full()))
		optimizer.OptimizeTree(b, b.Full(), lower, b.MaxBitplane(b.Full()))

		if depth := optimizer.Handler().SnapshotDepth(); depth != 0 {
			t.Errorf("lambda %v: unbalanced snapshots, depth %d", lagrangian, depth)
		}
	}
}

// Raising lambda must never increase the estimated rate.
func TestRateMonotoneInLambda(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	original := randomBlock(rng, []int{8, 8}, 64)

	previousRate := 0.0
	for i, lagrangian := range []float64{0, 1, 10, 100, 1000, 100000} {
		encoder := NewEncoder()
		if _, err := encoder.Encode(original, lagrangian); err != nil {
			t.Fatalf("lambda %v: encode failed: %v", lagrangian, err)
		}
		if i > 0 && encoder.EstimatedRD.Rate > previousRate {
			t.Errorf("rate increased with lambda: %v bits at lambda %v, %v before",
				encoder.EstimatedRD.Rate, lagrangian, previousRate)
		}
		previousRate = encoder.EstimatedRD.Rate
	}
}

func TestLossyEncodeDropsLowBitplanes(t *testing.T) {
	rng := rand.New(rand.NewSource(34))
	original := randomBlock(rng, []int{8, 8}, 256)

	encoder := NewEncoder()
	encoded, err := encoder.Encode(original, 1e6)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := NewDecoder().Decode(encoded, original.Shape(), encoder.UpperBitplane)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// a huge lambda should quantize at least one bitplane away
	if encoder.LowerBitplane == 0 && decoded.Equal(original) {
		t.Errorf("expected a lossy encoding at extreme lambda")
	}
}
