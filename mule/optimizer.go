package mule

import (
	"math"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/metrics"
)

// Optimizer searches the Z/L/S decision tree for the flag sequence
// minimizing D + lambda*R, using its own probability models to
// estimate the rate the arithmetic coder would spend.
type Optimizer struct {
	Lagrangian float64

	handler *ProbabilityHandler
}

// NewOptimizer creates an optimizer with fresh models.
func NewOptimizer(lagrangian float64) *Optimizer {
	return &Optimizer{
		Lagrangian: lagrangian,
		handler:    NewProbabilityHandler(),
	}
}

// Handler exposes the optimizer's models; after OptimizeTree returns
// their snapshot stacks are empty again.
func (o *Optimizer) Handler() *ProbabilityHandler {
	return o.handler
}

// OptimizeLowerBitplane sweeps candidate quantization floors from the
// top bitplane down and returns the one with the best Lagrangian cost.
// The sweep observes the integer models to track the adaptive rate; the
// updates are rolled back before the tree search.
func (o *Optimizer) OptimizeLowerBitplane(b *block.Block, upperBitplane int) int {
	lowerBitplane := 0
	accumulatedRate := 0.0
	bestCost := math.Inf(1)
	full := b.Full()

	top := upperBitplane
	if top > numIntModels {
		top = numIntModels
	}
	for i := top - 1; i >= 0; i-- {
		bitPosition := int32(1) << uint(i)
		mask := bitPosition - 1
		model := o.handler.IntModel(i)

		signRate := 0.0
		var distortion int64
		b.ForEach(full, func(_ int, _ []int, v int32) {
			magnitude := block.Abs(v)
			if magnitude > bitPosition {
				bit := 0
				if magnitude&bitPosition != 0 {
					bit = 1
				}
				accumulatedRate += model.ObserveAndEstimate(bit)
				signRate++
			}
			masked := int64(magnitude & mask)
			distortion += masked * masked
		})

		rd := metrics.RD{
			Rate:       accumulatedRate + signRate,
			Distortion: float64(distortion),
		}
		if cost := rd.Cost(o.Lagrangian); cost < bestCost {
			bestCost = cost
			lowerBitplane = i
		}
	}

	o.handler.Clear()
	return lowerBitplane
}

// OptimizeTree returns the flag sequence and estimated RD of the best
// encoding of a region, leaving the models in the state the chosen
// encoding produces.
func (o *Optimizer) OptimizeTree(b *block.Block, region block.Region, lowerBitplane, upperBitplane int) (Flags, metrics.RD) {
	if upperBitplane <= lowerBitplane || upperBitplane <= 0 {
		return nil, metrics.RD{Distortion: float64(b.Energy(region))}
	}

	if region.IsUnit() {
		value := unitValue(b, region)
		return nil, o.estimateInteger(value, lowerBitplane, upperBitplane, true)
	}

	o.handler.Push()
	var segmentationFlags Flags
	var segmentationRD metrics.RD
	if b.IsBitplaneZero(region, upperBitplane) {
		segmentationFlags, segmentationRD = o.estimateLowerBitplane(b, region, lowerBitplane, upperBitplane)
	} else {
		segmentationFlags, segmentationRD = o.estimateSplit(b, region, lowerBitplane, upperBitplane)
	}

	zeroRD := metrics.RD{
		Rate:       o.handler.FlagModel(upperBitplane, 0).EstimateBit(1),
		Distortion: float64(b.Energy(region)),
	}

	if segmentationRD.Cost(o.Lagrangian) < zeroRD.Cost(o.Lagrangian) {
		o.handler.Discard()
		return segmentationFlags, segmentationRD
	}

	o.handler.Pop()
	return o.estimateZero(b, region, upperBitplane)
}

func (o *Optimizer) estimateZero(b *block.Block, region block.Region, upperBitplane int) (Flags, metrics.RD) {
	rd := metrics.RD{
		Rate:       o.handler.FlagModel(upperBitplane, 0).ObserveAndEstimate(1),
		Distortion: float64(b.Energy(region)),
	}
	return Flags{FlagZero}, rd
}

func (o *Optimizer) estimateLowerBitplane(b *block.Block, region block.Region, lowerBitplane, upperBitplane int) (Flags, metrics.RD) {
	newBitplane := b.MaxBitplane(region)
	numberOfFlags := upperBitplane - newBitplane

	flags := make(Flags, 0, numberOfFlags)
	var rd metrics.RD

	model0 := o.handler.FlagModel(upperBitplane, 0)
	model1 := o.handler.FlagModel(upperBitplane, 1)
	for i := 0; i < numberOfFlags; i++ {
		flags = append(flags, FlagLowerBitplane)
		rd.Rate += model0.ObserveAndEstimate(0)
		rd.Rate += model1.ObserveAndEstimate(0)
	}

	currentFlags, currentRD := o.OptimizeTree(b, region, lowerBitplane, newBitplane)
	flags = append(flags, currentFlags...)
	rd.Add(currentRD)

	return flags, rd
}

func (o *Optimizer) estimateSplit(b *block.Block, region block.Region, lowerBitplane, upperBitplane int) (Flags, metrics.RD) {
	flags := Flags{FlagSplit}
	var rd metrics.RD

	rd.Rate += o.handler.FlagModel(upperBitplane, 0).ObserveAndEstimate(0)
	rd.Rate += o.handler.FlagModel(upperBitplane, 1).ObserveAndEstimate(1)

	for _, half := range block.SplitInHalf(region) {
		currentFlags, currentRD := o.OptimizeTree(b, half, lowerBitplane, upperBitplane)
		flags = append(flags, currentFlags...)
		rd.Add(currentRD)
	}

	return flags, rd
}

func (o *Optimizer) estimateInteger(value int32, lowerBitplane, upperBitplane int, signed bool) metrics.RD {
	mask := lowerMask(lowerBitplane)
	magnitude := block.Abs(value)
	dropped := int64(magnitude & mask)
	coded := magnitude &^ mask

	rd := metrics.RD{Distortion: float64(dropped * dropped)}
	for i := lowerBitplane; i < upperBitplane; i++ {
		bit := int((coded >> uint(i)) & 1)
		rd.Rate += o.handler.IntModel(i).ObserveAndEstimate(bit)
	}

	if signed && coded != 0 {
		sign := 0
		if value < 0 {
			sign = 1
		}
		rd.Rate += o.handler.SignalModel().ObserveAndEstimate(sign)
	}

	return rd
}

// lowerMask covers the magnitude bits below the quantization floor.
func lowerMask(lowerBitplane int) int32 {
	if lowerBitplane <= 0 {
		return 0
	}
	if lowerBitplane >= 31 {
		return math.MaxInt32
	}
	return int32(1)<<uint(lowerBitplane) - 1
}

// unitValue reads the single coefficient of a unit region.
func unitValue(b *block.Block, region block.Region) int32 {
	pos := make([]int, len(region))
	for i, span := range region {
		pos[i] = span.Start
	}
	return b.At(pos...)
}
