package cabac

import (
	"math/rand"
	"testing"
)

func randomBits(rng *rand.Rand, n int, biasOfOnes float64) *Bitstream {
	s := NewBitstream()
	for i := 0; i < n; i++ {
		if rng.Float64() < biasOfOnes {
			s.Append(1)
		} else {
			s.Append(0)
		}
	}
	return s
}

func TestSpecificSequence(t *testing.T) {
	original := FromString("1110 1101 1011 0111 1110 1111 1111 0111")
	expected := FromString("1100 0001 0110 1001 0111 1000 11")

	encoded := NewEncoder().Encode(original, false)
	decoded, err := NewDecoder().Decode(encoded, original.Len())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !encoded.Equal(expected) {
		t.Errorf("encoding mismatch:\n got  %s\n want %s", encoded, expected)
	}
	if encoded.Len() > original.Len() {
		t.Errorf("encoding expanded: %d > %d bits", encoded.Len(), original.Len())
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch:\n got  %s\n want %s", decoded, original)
	}
}

func TestSpecificSequenceFillingToByte(t *testing.T) {
	original := FromString("1110 1101 1011 0111 1110 1111 1111 0111")
	expected := FromString("0000 0011 0000 0101 1010 0101 1110 0011")

	encoded := NewEncoder().Encode(original, true)
	decoded, err := NewDecoder().Decode(encoded, original.Len())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !encoded.Equal(expected) {
		t.Errorf("encoding mismatch:\n got  %s\n want %s", encoded, expected)
	}
	if encoded.Len() > original.Len() {
		t.Errorf("encoding expanded: %d > %d bits", encoded.Len(), original.Len())
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch:\n got  %s\n want %s", decoded, original)
	}
}

func TestMoreZerosThanOnes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original := randomBits(rng, 100, 0.2)

	encoded := NewEncoder().Encode(original, false)
	decoded, err := NewDecoder().Decode(encoded, original.Len())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if encoded.Len() > original.Len() {
		t.Errorf("skewed input should compress: %d > %d bits", encoded.Len(), original.Len())
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch")
	}
}

func TestMoreOnesThanZeros(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	original := randomBits(rng, 100, 0.9)

	encoded := NewEncoder().Encode(original, false)
	decoded, err := NewDecoder().Decode(encoded, original.Len())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if encoded.Len() > original.Len() {
		t.Errorf("skewed input should compress: %d > %d bits", encoded.Len(), original.Len())
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch")
	}
}

// Three independent contexts interleaved on one stream: the decoder
// must reproduce the concatenation exactly and finish with the same
// per-context model states as the encoder.
func TestMixedModels(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	part1 := randomBits(rng, 100, 0.3)
	part2 := randomBits(rng, 20, 0.6)
	part3 := randomBits(rng, 80, 0.8)

	encoderModels := []*FrequentistModel{
		NewFrequentistModel(),
		NewFrequentistModel(),
		NewFrequentistModel(),
	}
	decoderModels := []*FrequentistModel{
		NewFrequentistModel(),
		NewFrequentistModel(),
		NewFrequentistModel(),
	}

	encoder := NewEncoder().Start(nil)
	for _, pair := range []struct {
		bits  *Bitstream
		model *FrequentistModel
	}{
		{part1, encoderModels[0]},
		{part2, encoderModels[1]},
		{part3, encoderModels[2]},
	} {
		for i := 0; i < pair.bits.Len(); i++ {
			encoder.EncodeBit(pair.bits.At(i), pair.model)
		}
	}
	encoded := encoder.End(false)

	decoder := NewDecoder().Start(encoded)
	for _, pair := range []struct {
		size  int
		model *FrequentistModel
	}{
		{part1.Len(), decoderModels[0]},
		{part2.Len(), decoderModels[1]},
		{part3.Len(), decoderModels[2]},
	} {
		for i := 0; i < pair.size; i++ {
			if _, err := decoder.DecodeBit(pair.model); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
		}
	}
	decoded := decoder.End()

	expected := NewBitstream()
	for _, part := range []*Bitstream{part1, part2, part3} {
		for i := 0; i < part.Len(); i++ {
			expected.Append(part.At(i))
		}
	}
	if !decoded.Equal(expected) {
		t.Fatalf("round trip mismatch")
	}
	for i := range encoderModels {
		if !encoderModels[i].Equal(decoderModels[i]) {
			t.Errorf("model %d diverged: encoder %v/%v decoder %v/%v",
				i,
				encoderModels[i].Frequency(0), encoderModels[i].Frequency(1),
				decoderModels[i].Frequency(0), decoderModels[i].Frequency(1))
		}
	}
}

func TestSmallSequenceIteratively(t *testing.T) {
	modelE := NewFrequentistModel()
	encoder := NewEncoder().Start(nil)
	for i := 0; i < 5; i++ {
		encoder.EncodeBit(1, modelE)
	}
	encoded := encoder.End(true)

	modelD := NewFrequentistModel()
	decoder := NewDecoder().Start(encoded)
	for i := 0; i < 5; i++ {
		bit, err := decoder.DecodeBit(modelD)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if bit != 1 {
			t.Fatalf("bit %d: got 0, want 1", i)
		}
	}
}

// An adaptive exponential model should beat plain counting on a source
// with an abrupt probability flip.
func TestExponentialAdaptsFaster(t *testing.T) {
	original := NewBitstream()
	for i := 0; i < 1000; i++ {
		original.Append(0)
	}
	for i := 0; i < 1000; i++ {
		original.Append(1)
	}

	encodeWith := func(model Model) *Bitstream {
		encoder := NewEncoder().Start(nil)
		for i := 0; i < original.Len(); i++ {
			encoder.EncodeBit(original.At(i), model)
		}
		return encoder.End(false)
	}

	frequentist := encodeWith(NewFrequentistModel())
	exponential := encodeWith(NewExponentialModel())

	if exponential.Len() >= frequentist.Len() {
		t.Errorf("exponential smoothing should adapt faster: %d >= %d bits",
			exponential.Len(), frequentist.Len())
	}

	decoder := NewDecoder().Start(exponential)
	model := NewExponentialModel()
	for i := 0; i < original.Len(); i++ {
		if _, err := decoder.DecodeBit(model); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
	}
	if !decoder.End().Equal(original) {
		t.Fatalf("round trip mismatch")
	}
}

func TestConfigurePrecisionRejectsBadValues(t *testing.T) {
	for _, precision := range []int{-1, 0, 1, 31, 64} {
		if err := NewEncoder().ConfigurePrecision(precision); err == nil {
			t.Errorf("precision %d: expected error", precision)
		}
		if err := NewDecoder().ConfigurePrecision(precision); err == nil {
			t.Errorf("precision %d: expected error", precision)
		}
	}
}

func TestAlternatePrecisionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	original := randomBits(rng, 256, 0.35)

	for _, precision := range []int{12, 20, 24} {
		encoder := NewEncoder()
		if err := encoder.ConfigurePrecision(precision); err != nil {
			t.Fatalf("precision %d: %v", precision, err)
		}
		model := NewFrequentistModel()
		encoder.Start(nil)
		for i := 0; i < original.Len(); i++ {
			encoder.EncodeBit(original.At(i), model)
		}
		encoded := encoder.End(true)

		decoder := NewDecoder()
		if err := decoder.ConfigurePrecision(precision); err != nil {
			t.Fatalf("precision %d: %v", precision, err)
		}
		decoder.Start(encoded)
		dmodel := NewFrequentistModel()
		for i := 0; i < original.Len(); i++ {
			if _, err := decoder.DecodeBit(dmodel); err != nil {
				t.Fatalf("precision %d: decode failed: %v", precision, err)
			}
		}
		if !decoder.End().Equal(original) {
			t.Fatalf("precision %d: round trip mismatch", precision)
		}
	}
}
