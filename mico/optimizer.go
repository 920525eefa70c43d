package mico

import (
	"math"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/metrics"
)

// Optimizer searches the E/F/S decision tree for the flag sequence
// minimizing D + lambda*R. Unit regions short-circuit to value/zero by
// quantization alone; interior regions with an obvious best choice
// (all zero, all nonzero) commit without exploring alternatives.
type Optimizer struct {
	Lagrangian float64

	block   *block.Block
	table   LevelTable
	handler *ProbabilityHandler
}

// NewOptimizer creates an optimizer for one block, deriving its level
// bitplane table.
func NewOptimizer(b *block.Block, lagrangian float64) *Optimizer {
	return &Optimizer{
		Lagrangian: lagrangian,
		block:      b,
		table:      FindBitplanePerLevel(b),
		handler:    NewProbabilityHandler(),
	}
}

// Table returns the block's level bitplane table.
func (o *Optimizer) Table() LevelTable {
	return o.table
}

// Handler exposes the optimizer's models; after OptimizeTree returns
// their snapshot stacks are empty again.
func (o *Optimizer) Handler() *ProbabilityHandler {
	return o.handler
}

// OptimizeLowerBitplane sweeps candidate quantization floors from the
// top bitplane down and returns the one with the best Lagrangian cost.
// Model updates made by the sweep are rolled back before the tree
// search.
func (o *Optimizer) OptimizeLowerBitplane() int {
	lowerBitplane := 0
	accumulatedRate := 0.0
	bestCost := math.Inf(1)
	full := o.block.Full()

	top := o.table.Max()
	if top > numIntModels {
		top = numIntModels
	}
	for i := top - 1; i >= 0; i-- {
		bitPosition := int32(1) << uint(i)
		mask := bitPosition - 1
		model := o.handler.IntModel(i)

		signRate := 0.0
		var distortion int64
		o.block.ForEach(full, func(_ int, pos []int, v int32) {
			magnitude := block.Abs(v)
			if o.table.At(block.LevelOf(pos)) > i {
				bit := 0
				if magnitude&bitPosition != 0 {
					bit = 1
				}
				accumulatedRate += model.ObserveAndEstimate(bit)
			}
			if magnitude > bitPosition {
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
func (o *Optimizer) OptimizeTree(region block.Region, lowerBitplane int) (Flags, metrics.RD) {
	maxBitplane := o.table.At(region.StartLevel())
	if maxBitplane <= lowerBitplane || maxBitplane <= 0 {
		// coded as zero by construction, nothing is emitted
		return nil, metrics.RD{Distortion: float64(o.block.Energy(region))}
	}

	if region.IsUnit() {
		return o.estimateUnit(region, lowerBitplane, maxBitplane)
	}

	if o.block.AllZero(region) {
		return o.estimateEmpty(region, maxBitplane)
	}
	if o.block.AllNonZero(region) {
		return o.estimateFull(region, lowerBitplane, maxBitplane)
	}

	candidates := []func() (Flags, metrics.RD){
		func() (Flags, metrics.RD) { return o.estimateEmpty(region, maxBitplane) },
		func() (Flags, metrics.RD) { return o.estimateFull(region, lowerBitplane, maxBitplane) },
		func() (Flags, metrics.RD) { return o.estimateSplit(region, lowerBitplane, maxBitplane) },
	}

	bestCost := math.Inf(1)
	winner := candidates[0]
	for _, estimate := range candidates {
		o.handler.Push()
		_, rd := estimate()
		o.handler.Pop()

		if cost := rd.Cost(o.Lagrangian); cost < bestCost {
			bestCost = cost
			winner = estimate
		}
	}

	// commit the winner by rerunning its estimator, leaving the models
	// in the committed state
	return winner()
}

func (o *Optimizer) estimateEmpty(region block.Region, maxBitplane int) (Flags, metrics.RD) {
	rd := metrics.RD{
		Rate:       o.handler.SignificantModel(maxBitplane).ObserveAndEstimate(0),
		Distortion: float64(o.block.Energy(region)),
	}
	return Flags{FlagEmpty}, rd
}

func (o *Optimizer) estimateFull(region block.Region, lowerBitplane, maxBitplane int) (Flags, metrics.RD) {
	var rd metrics.RD
	rd.Rate += o.handler.SignificantModel(maxBitplane).ObserveAndEstimate(1)
	rd.Rate += o.handler.SplitModel(maxBitplane).ObserveAndEstimate(0)

	o.block.ForEach(region, func(_ int, pos []int, v int32) {
		upper := o.table.At(block.LevelOf(pos))
		rd.Add(o.estimateInteger(v, lowerBitplane, upper, true))
	})

	return Flags{FlagFull}, rd
}

func (o *Optimizer) estimateSplit(region block.Region, lowerBitplane, maxBitplane int) (Flags, metrics.RD) {
	flags := Flags{FlagSplit}
	var rd metrics.RD

	rd.Rate += o.handler.SignificantModel(maxBitplane).ObserveAndEstimate(1)
	rd.Rate += o.handler.SplitModel(maxBitplane).ObserveAndEstimate(1)

	for _, half := range block.SplitInHalf(region) {
		currentFlags, currentRD := o.OptimizeTree(half, lowerBitplane)
		flags = append(flags, currentFlags...)
		rd.Add(currentRD)
	}

	return flags, rd
}

// estimateUnit short-circuits a unit region: the coefficient either
// quantizes to zero or is coded explicitly; there is no choice to
// search.
func (o *Optimizer) estimateUnit(region block.Region, lowerBitplane, maxBitplane int) (Flags, metrics.RD) {
	value := unitValue(o.block, region)
	magnitude := block.Abs(value)
	coded := magnitude &^ lowerMask(lowerBitplane)

	if coded == 0 {
		rd := metrics.RD{
			Rate:       o.handler.UnitModel().ObserveAndEstimate(0),
			Distortion: float64(int64(magnitude) * int64(magnitude)),
		}
		return Flags{FlagUnitZero}, rd
	}

	rd := metrics.RD{Rate: o.handler.UnitModel().ObserveAndEstimate(1)}
	rd.Add(o.estimateInteger(value, lowerBitplane, maxBitplane, true))
	return Flags{FlagValue}, rd
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

func lowerMask(lowerBitplane int) int32 {
	if lowerBitplane <= 0 {
		return 0
	}
	if lowerBitplane >= 31 {
		return math.MaxInt32
	}
	return int32(1)<<uint(lowerBitplane) - 1
}

func unitValue(b *block.Block, region block.Region) int32 {
	pos := make([]int, len(region))
	for i, span := range region {
		pos[i] = span.Start
	}
	return b.At(pos...)
}
