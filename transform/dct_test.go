package transform

import (
	"math"
	"math/rand"
	"testing"
)

func TestForwardInverseIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(21))

	shapes := [][]int{
		{8},
		{4, 4},
		{8, 8},
		{3, 5, 2},
		{2, 3, 4, 2},
	}
	for _, shape := range shapes {
		size := 1
		for _, s := range shape {
			size *= s
		}
		data := make([]float64, size)
		original := make([]float64, size)
		for i := range data {
			data[i] = float64(rng.Intn(256) - 128)
			original[i] = data[i]
		}

		DCTN(data, shape)
		IDCTN(data, shape)

		for i := range data {
			if math.Abs(data[i]-original[i]) > 1e-9 {
				t.Fatalf("shape %v: sample %d drifted: got %v, want %v",
					shape, i, data[i], original[i])
			}
		}
	}
}

func TestEnergyPreservation(t *testing.T) {
	rng := rand.New(rand.NewSource(22))

	shape := []int{8, 8}
	data := make([]float64, 64)
	energyIn := 0.0
	for i := range data {
		data[i] = rng.Float64()*510 - 255
		energyIn += data[i] * data[i]
	}

	DCTN(data, shape)

	energyOut := 0.0
	for _, v := range data {
		energyOut += v * v
	}
	if math.Abs(energyIn-energyOut) > 1e-6*energyIn {
		t.Fatalf("orthonormal DCT must preserve energy: in %v, out %v", energyIn, energyOut)
	}
}

func TestConstantBlockConcentratesInDC(t *testing.T) {
	shape := []int{4, 4}
	data := make([]float64, 16)
	for i := range data {
		data[i] = 10
	}

	DCTN(data, shape)

	// DC of an orthonormal 2-D DCT is value * sqrt(N*M)
	want := 10 * math.Sqrt(16)
	if math.Abs(data[0]-want) > 1e-9 {
		t.Fatalf("DC coefficient: got %v, want %v", data[0], want)
	}
	for i := 1; i < len(data); i++ {
		if math.Abs(data[i]) > 1e-9 {
			t.Fatalf("AC coefficient %d should vanish, got %v", i, data[i])
		}
	}
}
