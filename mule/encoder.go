package mule

import (
	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
	"github.com/andrefpf/pig/metrics"
)

// lowerBitplaneBits is the fixed-width framing of the quantization
// floor at the head of every block stream.
const lowerBitplaneBits = 5

// maxUpperBitplane bounds the coder to 32-bit signed coefficients.
const maxUpperBitplane = 32

// Encoder turns one integer block into an arithmetic-coded bitstream.
// After Encode returns, Flags, EstimatedRD, LowerBitplane and
// UpperBitplane describe the committed encoding.
type Encoder struct {
	Flags         Flags
	EstimatedRD   metrics.RD
	LowerBitplane int
	UpperBitplane int
	Lagrangian    float64

	optimizer *Optimizer
	handler   *ProbabilityHandler
	coder     *cabac.Encoder
}

// NewEncoder creates an encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		coder: cabac.NewEncoder(),
	}
}

// Encode runs the rate-distortion search and emits the chosen flag
// tree, deriving the top bitplane from the block content.
func (e *Encoder) Encode(b *block.Block, lagrangian float64) (*cabac.Bitstream, error) {
	return e.EncodeWithUpperBitplane(b, lagrangian, b.MaxBitplane(b.Full()))
}

// EncodeWithUpperBitplane encodes with a caller-fixed top bitplane,
// which the decoder must be given out of band.
func (e *Encoder) EncodeWithUpperBitplane(b *block.Block, lagrangian float64, upperBitplane int) (*cabac.Bitstream, error) {
	if upperBitplane < 0 || upperBitplane > maxUpperBitplane {
		return nil, ErrBitplaneRange
	}

	e.Lagrangian = lagrangian
	e.UpperBitplane = upperBitplane
	e.optimizer = NewOptimizer(lagrangian)
	e.handler = NewProbabilityHandler()

	e.LowerBitplane = e.optimizer.OptimizeLowerBitplane(b, e.UpperBitplane)
	e.Flags, e.EstimatedRD = e.optimizer.OptimizeTree(b, b.Full(), e.LowerBitplane, e.UpperBitplane)

	e.coder.Start(nil)
	e.encodeInt(int32(e.LowerBitplane), 0, lowerBitplaneBits, false)

	queue := &flagQueue{flags: e.Flags}
	if err := e.applyEncoding(queue, b, b.Full(), e.UpperBitplane); err != nil {
		return nil, err
	}
	if queue.next != len(queue.flags) {
		return nil, ErrInvalidFlag
	}

	return e.coder.End(true), nil
}

// applyEncoding replays the optimizer's flag sequence onto the
// arithmetic coder, mirroring the decoder's traversal exactly.
func (e *Encoder) applyEncoding(queue *flagQueue, b *block.Block, region block.Region, upperBitplane int) error {
	if upperBitplane <= e.LowerBitplane || upperBitplane <= 0 {
		return nil
	}

	if region.IsUnit() {
		e.encodeInt(unitValue(b, region), e.LowerBitplane, upperBitplane, true)
		return nil
	}

	flag, ok := queue.pop()
	if !ok {
		return ErrInvalidFlag
	}
	model0 := e.handler.FlagModel(upperBitplane, 0)
	model1 := e.handler.FlagModel(upperBitplane, 1)

	switch flag {
	case FlagZero:
		// 1
		e.coder.EncodeBit(1, model0)
		return nil

	case FlagLowerBitplane:
		// 00
		e.coder.EncodeBit(0, model0)
		e.coder.EncodeBit(0, model1)
		return e.applyEncoding(queue, b, region, upperBitplane-1)

	case FlagSplit:
		// 01
		e.coder.EncodeBit(0, model0)
		e.coder.EncodeBit(1, model1)
		for _, half := range block.SplitInHalf(region) {
			if err := e.applyEncoding(queue, b, half, upperBitplane); err != nil {
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
