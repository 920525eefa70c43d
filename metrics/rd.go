// Package metrics provides the rate-distortion bookkeeping and the
// quality measures used around the MICO and MULE coders.
package metrics

// RD is an estimated (rate, distortion) pair. Rate is in bits,
// distortion in squared error.
type RD struct {
	Rate       float64
	Distortion float64
}

// Cost returns the Lagrangian cost D + lambda*R.
func (rd RD) Cost(lagrangian float64) float64 {
	return rd.Distortion + lagrangian*rd.Rate
}

// Plus returns the component-wise sum of two pairs.
func (rd RD) Plus(other RD) RD {
	return RD{
		Rate:       rd.Rate + other.Rate,
		Distortion: rd.Distortion + other.Distortion,
	}
}

// Add accumulates another pair in place.
func (rd *RD) Add(other RD) {
	rd.Rate += other.Rate
	rd.Distortion += other.Distortion
}
