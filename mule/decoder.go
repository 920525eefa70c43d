package mule

import (
	"github.com/pkg/errors"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
)

// Decoder reconstructs a block from a bitstream produced by Encoder.
// It must be given the same shape and top bitplane the encoder used.
type Decoder struct {
	LowerBitplane int
	UpperBitplane int

	handler *ProbabilityHandler
	coder   *cabac.Decoder
}

// NewDecoder creates a decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		coder: cabac.NewDecoder(),
	}
}

// Decode rebuilds the coefficient block from the stream.
func (d *Decoder) Decode(bitstream *cabac.Bitstream, shape []int, upperBitplane int) (*block.Block, error) {
	if upperBitplane < 0 || upperBitplane > maxUpperBitplane {
		return nil, ErrBitplaneRange
	}

	d.UpperBitplane = upperBitplane
	d.handler = NewProbabilityHandler()
	b := block.New(shape...)

	d.coder.Start(bitstream)

	lower, err := d.decodeInt(0, lowerBitplaneBits, false)
	if err != nil {
		return nil, errors.Wrap(err, "mule: lower bitplane")
	}
	d.LowerBitplane = int(lower)

	if err := d.applyDecoding(b, b.Full(), d.UpperBitplane); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *Decoder) applyDecoding(b *block.Block, region block.Region, upperBitplane int) error {
	if upperBitplane <= d.LowerBitplane || upperBitplane <= 0 {
		return nil
	}

	if region.IsUnit() {
		value, err := d.decodeInt(d.LowerBitplane, upperBitplane, true)
		if err != nil {
			return errors.Wrap(err, "mule: coefficient")
		}
		setUnitValue(b, region, value)
		return nil
	}

	flag, err := d.decodeFlag(upperBitplane)
	if err != nil {
		return err
	}

	switch flag {
	case FlagZero:
		return nil
	case FlagLowerBitplane:
		return d.applyDecoding(b, region, upperBitplane-1)
	case FlagSplit:
		for _, half := range block.SplitInHalf(region) {
			if err := d.applyDecoding(b, half, upperBitplane); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrInvalidFlag
	}
}

// decodeFlag reads the 1 / 00 / 01 prefix code for Z / L / S.
func (d *Decoder) decodeFlag(upperBitplane int) (Flag, error) {
	firstBit, err := d.coder.DecodeBit(d.handler.FlagModel(upperBitplane, 0))
	if err != nil {
		return 0, errors.Wrap(err, "mule: flag")
	}
	if firstBit != 0 {
		return FlagZero, nil
	}

	secondBit, err := d.coder.DecodeBit(d.handler.FlagModel(upperBitplane, 1))
	if err != nil {
		return 0, errors.Wrap(err, "mule: flag")
	}
	if secondBit != 0 {
		return FlagSplit, nil
	}
	return FlagLowerBitplane, nil
}

func (d *Decoder) decodeInt(lowerBitplane, upperBitplane int, signed bool) (int32, error) {
	var value int64
	for i := lowerBitplane; i < upperBitplane; i++ {
		bit, err := d.coder.DecodeBit(d.handler.IntModel(i))
		if err != nil {
			return 0, err
		}
		value |= int64(bit) << uint(i)
	}

	if signed && value != 0 {
		sign, err := d.coder.DecodeBit(d.handler.SignalModel())
		if err != nil {
			return 0, err
		}
		if sign != 0 {
			value = -value
		}
	}

	return int32(value), nil
}

func setUnitValue(b *block.Block, region block.Region, value int32) {
	pos := make([]int, len(region))
	for i, span := range region {
		pos[i] = span.Start
	}
	b.Set(value, pos...)
}
