package cabac

// Decoder is the arithmetic decoder half of the CABAC codec. It must
// be driven with the same sequence of models the encoder used.
type Decoder struct {
	precision         int
	msbMask           uint32
	fullRange         uint32
	halfRange         uint32
	quarterRange      uint32
	threeQuarterRange uint32

	low     uint32
	mid     uint32
	high    uint32
	current uint32

	buffer   *Bitstream
	result   *Bitstream
	readBits int
}

// NewDecoder creates a decoder at the default 16-bit precision.
func NewDecoder() *Decoder {
	d := &Decoder{}
	if err := d.ConfigurePrecision(DefaultPrecision); err != nil {
		panic(err)
	}
	return d
}

// ConfigurePrecision sets the interval width in bits and resets the
// decoder.
func (d *Decoder) ConfigurePrecision(precision int) error {
	if precision < 2 || precision > 30 {
		return ErrInvalidPrecision
	}
	d.precision = precision
	d.msbMask = 1 << uint(precision-1)
	d.fullRange = (1 << uint(precision)) - 1
	d.halfRange = d.fullRange >> 1
	d.quarterRange = d.halfRange >> 1
	d.threeQuarterRange = 3 * d.quarterRange
	d.reset()
	return nil
}

func (d *Decoder) reset() {
	d.low = 0
	d.mid = d.halfRange
	d.high = d.fullRange
	d.current = 0
	d.readBits = 0
	d.buffer = NewBitstream()
	d.result = NewBitstream()
}

// Start loads a finalized stream. The input is copied; the decoder
// consumes bits from its tail.
func (d *Decoder) Start(bits *Bitstream) *Decoder {
	d.reset()
	d.buffer = bits.Copy()
	d.readFirstWord()
	return d
}

// Decode decodes size bits under a single fresh frequentist model,
// mirroring Encoder.Encode.
func (d *Decoder) Decode(bits *Bitstream, size int) (*Bitstream, error) {
	d.Start(bits)
	model := NewFrequentistModel()
	for i := 0; i < size; i++ {
		if _, err := d.DecodeBit(model); err != nil {
			return nil, err
		}
	}
	return d.End(), nil
}

// DecodeBit decodes one bit under the supplied model and updates the
// model with the observation. It returns ErrInvalidStream when the
// code value falls outside the current interval.
func (d *Decoder) DecodeBit(model Model) (int, error) {
	d.updateTable(model)

	var output int
	switch {
	case d.low <= d.current && d.current <= d.mid:
		d.high = d.mid
		model.Observe(0)
		d.result.Append(0)
		output = 0
	case d.mid < d.current && d.current <= d.high:
		d.low = d.mid + 1
		model.Observe(1)
		d.result.Append(1)
		output = 1
	default:
		return 0, ErrInvalidStream
	}

	d.resolveScaling()
	return output, nil
}

// End returns the accumulated decoded bits.
func (d *Decoder) End() *Bitstream {
	return d.result
}

func (d *Decoder) readFirstWord() {
	for i := 0; i < d.precision; i++ {
		bit := d.popBufferBit()
		d.current = d.current<<1 | uint32(bit)
	}
}

// popBufferBit consumes the next bit from the stream tail; exhausted
// buffers shift in zeros, so a stream that ends on the finalize
// padding terminates cleanly.
func (d *Decoder) popBufferBit() int {
	if d.buffer.Empty() {
		return 0
	}
	d.readBits++
	return d.buffer.PopBack()
}

func (d *Decoder) updateTable(model Model) {
	currentRange := d.high - d.low
	midRange := uint32(float64(currentRange) * model.Probability(0))
	d.mid = d.low + midRange
}

func (d *Decoder) resolveScaling() {
	for {
		switch {
		case d.high <= d.halfRange:
			// high half never entered; plain doubling
		case d.halfRange < d.low:
			d.high -= d.halfRange + 1
			d.low -= d.halfRange + 1
			d.current -= d.halfRange + 1
		case d.quarterRange < d.low && d.high <= d.threeQuarterRange:
			d.high -= d.quarterRange + 1
			d.low -= d.quarterRange + 1
			d.current -= d.quarterRange + 1
		default:
			return
		}

		bit := d.popBufferBit()

		d.high = (d.high<<1)&d.fullRange | 1
		d.low = (d.low << 1) & d.fullRange
		d.current = (d.current<<1)&d.fullRange | uint32(bit)
	}
}
