package mico

import (
	"github.com/pkg/errors"

	"github.com/andrefpf/pig/block"
	"github.com/andrefpf/pig/cabac"
)

// maxTableBitplane bounds decoded table entries; anything larger
// cannot have been produced by the encoder's 32-bit coefficients.
const maxTableBitplane = 32

// Decoder reconstructs a block from a bitstream produced by Encoder.
// Only the shape travels out of band; the quantization floor and the
// level bitplane table are read from the stream preamble.
type Decoder struct {
	LowerBitplane int

	table   LevelTable
	handler *ProbabilityHandler
	coder   *cabac.Decoder
}

// NewDecoder creates a decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		coder: cabac.NewDecoder(),
	}
}

// Table returns the level bitplane table of the last decoded block.
func (d *Decoder) Table() LevelTable {
	return d.table
}

// Decode rebuilds the coefficient block from the stream.
func (d *Decoder) Decode(bitstream *cabac.Bitstream, shape []int) (*block.Block, error) {
	d.handler = NewProbabilityHandler()
	b := block.New(shape...)

	d.coder.Start(bitstream)

	if err := d.decodeBitplaneSizes(shape); err != nil {
		return nil, err
	}
	d.handler.Clear()

	if err := d.applyDecoding(b, b.Full()); err != nil {
		return nil, err
	}
	return b, nil
}

// decodeBitplaneSizes reads the quantization floor and the delta-coded
// level table, deepest level first.
func (d *Decoder) decodeBitplaneSizes(shape []int) error {
	lower, err := d.decodeInt(0, lowerBitplaneBits, false)
	if err != nil {
		return errors.Wrap(err, "mico: lower bitplane")
	}
	d.LowerBitplane = int(lower)

	numLevels := block.MaxLevel(shape)
	reversed := make(LevelTable, 0, numLevels)
	counter := d.LowerBitplane
	model := d.handler.BitplanesModel()

	for level := 0; level < numLevels; level++ {
		for {
			bit, err := d.coder.DecodeBit(model)
			if err != nil {
				return errors.Wrap(err, "mico: level table")
			}
			if bit == 0 {
				break
			}
			counter++
			if counter > maxTableBitplane {
				return ErrBitplaneRange
			}
		}
		reversed = append(reversed, counter)
	}

	d.table = make(LevelTable, numLevels)
	for i, bp := range reversed {
		d.table[numLevels-1-i] = bp
	}
	return nil
}

func (d *Decoder) applyDecoding(b *block.Block, region block.Region) error {
	maxBitplane := d.table.At(region.StartLevel())
	if maxBitplane <= d.LowerBitplane || maxBitplane <= 0 {
		return nil
	}

	flag, err := d.decodeFlag(region, maxBitplane)
	if err != nil {
		return err
	}

	switch flag {
	case FlagEmpty, FlagUnitZero:
		return nil

	case FlagSplit:
		for _, half := range block.SplitInHalf(region) {
			if err := d.applyDecoding(b, half); err != nil {
				return err
			}
		}
		return nil

	case FlagFull:
		var decodeErr error
		b.ForEach(region, func(idx int, pos []int, _ int32) {
			if decodeErr != nil {
				return
			}
			upper := d.table.At(block.LevelOf(pos))
			value, err := d.decodeInt(d.LowerBitplane, upper, true)
			if err != nil {
				decodeErr = errors.Wrap(err, "mico: coefficient")
				return
			}
			b.Data()[idx] = value
		})
		return decodeErr

	case FlagValue:
		value, err := d.decodeInt(d.LowerBitplane, maxBitplane, true)
		if err != nil {
			return errors.Wrap(err, "mico: coefficient")
		}
		setUnitValue(b, region, value)
		return nil

	default:
		return ErrInvalidFlag
	}
}

// decodeFlag reads the unit value/zero bit for unit regions, or the
// significant/split pair for interior ones.
func (d *Decoder) decodeFlag(region block.Region, maxBitplane int) (Flag, error) {
	if region.IsUnit() {
		unitFlag, err := d.coder.DecodeBit(d.handler.UnitModel())
		if err != nil {
			return 0, errors.Wrap(err, "mico: unit flag")
		}
		if unitFlag != 0 {
			return FlagValue, nil
		}
		return FlagUnitZero, nil
	}

	significant, err := d.coder.DecodeBit(d.handler.SignificantModel(maxBitplane))
	if err != nil {
		return 0, errors.Wrap(err, "mico: significant flag")
	}
	if significant == 0 {
		return FlagEmpty, nil
	}

	split, err := d.coder.DecodeBit(d.handler.SplitModel(maxBitplane))
	if err != nil {
		return 0, errors.Wrap(err, "mico: split flag")
	}
	if split != 0 {
		return FlagSplit, nil
	}
	return FlagFull, nil
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
