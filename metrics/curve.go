package metrics

import "sort"

// RDCurve collects measured RD points and keeps them sorted by rate,
// ready for plotting or BD-rate style comparisons.
func RDCurve(points []RD) []RD {
	curve := append([]RD(nil), points...)
	sort.Slice(curve, func(i, j int) bool {
		return curve[i].Rate < curve[j].Rate
	})
	return curve
}
