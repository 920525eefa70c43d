package mico

import (
	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
	"github.com/andrefpf/pig/metrics"
)

const lowerBitplaneBits = 5

// Encoder turns one integer block into a self-describing
// arithmetic-coded bitstream: the quantization floor, the delta-coded
// level bitplane table, then the flag/value tree.
type Encoder struct {
	Flags         Flags
	EstimatedRD   metrics.RD
	LowerBitplane int
	Lagrangian    float64

	table   LevelTable
	handler *ProbabilityHandler
	coder   *cabac.Encoder
}

// NewEncoder creates an encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		coder: cabac.NewEncoder(),
	}
}

// Table returns the level bitplane table of the last encoded block.
func (e *Encoder) Table() LevelTable {
	return e.table
}

// Encode runs the rate-distortion search and emits the chosen tree.
func (e *Encoder) Encode(b *block.Block, lagrangian float64) (*cabac.Bitstream, error) {
	e.Lagrangian = lagrangian

	optimizer := NewOptimizer(b, lagrangian)
	e.table = optimizer.Table()
	e.LowerBitplane = optimizer.OptimizeLowerBitplane()
	e.Flags, e.EstimatedRD = optimizer.OptimizeTree(b.Full(), e.LowerBitplane)

	e.handler = NewProbabilityHandler()
	e.coder.Start(nil)

	e.encodeInt(int32(e.LowerBitplane), 0, lowerBitplaneBits, false)
	e.encodeBitplaneSizes()
	e.handler.Clear()

	queue := &flagQueue{flags: e.Flags}
	if err := e.applyEncoding(queue, b, b.Full()); err != nil {
		return nil, err
	}
	if queue.next != len(queue.flags) {
		return nil, ErrInvalidFlag
	}

	return e.coder.End(true), nil
}

// encodeBitplaneSizes delta-codes the table from the deepest level up:
// a run of ones per increment over the running counter, then a zero.
// The counter starts at the quantization floor and never goes back
// down, so entries below the floor collapse onto it; those levels are
// fully quantized and their regions are skipped by both sides.
func (e *Encoder) encodeBitplaneSizes() {
	model := e.handler.BitplanesModel()
	counter := e.LowerBitplane

	for level := len(e.table) - 1; level >= 0; level-- {
		for i := 0; i < e.table[level]-counter; i++ {
			e.coder.EncodeBit(1, model)
		}
		e.coder.EncodeBit(0, model)
		if e.table[level] > counter {
			counter = e.table[level]
		}
	}
}

func (e *Encoder) applyEncoding(queue *flagQueue, b *block.Block, region block.Region) error {
	maxBitplane := e.table.At(region.StartLevel())
	if maxBitplane <= e.LowerBitplane || maxBitplane <= 0 {
		return nil
	}

	flag, ok := queue.pop()
	if !ok {
		return ErrInvalidFlag
	}

	if region.IsUnit() {
		switch flag {
		case FlagUnitZero:
			e.coder.EncodeBit(0, e.handler.UnitModel())
		case FlagValue:
			e.coder.EncodeBit(1, e.handler.UnitModel())
			e.encodeInt(unitValue(b, region), e.LowerBitplane, maxBitplane, true)
		default:
			return ErrInvalidFlag
		}
		return nil
	}

	switch flag {
	case FlagEmpty:
		e.coder.EncodeBit(0, e.handler.SignificantModel(maxBitplane))
		return nil

	case FlagFull:
		e.coder.EncodeBit(1, e.handler.SignificantModel(maxBitplane))
		e.coder.EncodeBit(0, e.handler.SplitModel(maxBitplane))
		b.ForEach(region, func(_ int, pos []int, v int32) {
			upper := e.table.At(block.LevelOf(pos))
			e.encodeInt(v, e.LowerBitplane, upper, true)
		})
		return nil

	case FlagSplit:
		e.coder.EncodeBit(1, e.handler.SignificantModel(maxBitplane))
		e.coder.EncodeBit(1, e.handler.SplitModel(maxBitplane))
		for _, half := range block.SplitInHalf(region) {
			if err := e.applyEncoding(queue, b, half); err != nil {
				return err
			}
		}
		return nil

	default:
		return ErrInvalidFlag
	}
}

func (e *Encoder) encodeInt(value int32, lowerBitplane, upperBitplane int, signed bool) {
	magnitude := block.Abs(value)
	for i := lowerBitplane; i < upperBitplane; i++ {
		bit := int((magnitude >> uint(i)) & 1)
		e.coder.EncodeBit(bit, e.handler.IntModel(i))
	}

	if signed && magnitude&^lowerMask(lowerBitplane) != 0 {
		sign := 0
		if value < 0 {
			sign = 1
		}
		e.coder.EncodeBit(sign, e.handler.SignalModel())
	}
}
