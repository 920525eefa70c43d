package cabac

// DefaultPrecision is the default entropy precision in bits.
const DefaultPrecision = 16

// Encoder is the arithmetic encoder half of the CABAC codec.
//
// The caller supplies the probability model for every bit, so any
// number of contexts can be interleaved on one stream. Finalization
// reverses the emitted sequence once; the matching decoder consumes
// the stream from its tail.
type Encoder struct {
	precision         int
	msbMask           uint32
	fullRange         uint32
	halfRange         uint32
	quarterRange      uint32
	threeQuarterRange uint32

	low  uint32
	mid  uint32
	high uint32
	e3   int

	result *Bitstream
}

// NewEncoder creates an encoder at the default 16-bit precision.
func NewEncoder() *Encoder {
	e := &Encoder{}
	if err := e.ConfigurePrecision(DefaultPrecision); err != nil {
		panic(err)
	}
	return e
}

// ConfigurePrecision sets the interval width in bits and resets the
// encoder.
func (e *Encoder) ConfigurePrecision(precision int) error {
	if precision < 2 || precision > 30 {
		return ErrInvalidPrecision
	}
	e.precision = precision
	e.msbMask = 1 << uint(precision-1)
	e.fullRange = (1 << uint(precision)) - 1
	e.halfRange = e.fullRange >> 1
	e.quarterRange = e.halfRange >> 1
	e.threeQuarterRange = 3 * e.quarterRange
	e.reset()
	return nil
}

func (e *Encoder) reset() {
	e.low = 0
	e.mid = e.halfRange
	e.high = e.fullRange
	e.e3 = 0
	e.result = NewBitstream()
}

// Start resets the encoder state. A non-nil result buffer is adopted
// as the output; otherwise a fresh one is allocated.
func (e *Encoder) Start(result *Bitstream) *Encoder {
	e.reset()
	if result != nil {
		e.result = result
	}
	return e
}

// Encode codes a whole bit sequence under a single fresh frequentist
// model and finalizes the stream.
func (e *Encoder) Encode(bits *Bitstream, fillToByte bool) *Bitstream {
	e.Start(nil)
	model := NewFrequentistModel()
	for i := 0; i < bits.Len(); i++ {
		e.EncodeBit(bits.At(i), model)
	}
	return e.End(fillToByte)
}

// EncodeBit codes one bit under the supplied model and updates the
// model with the observation.
func (e *Encoder) EncodeBit(bit int, model Model) {
	e.updateTable(model)

	if bit != 0 {
		e.low = e.mid + 1
	} else {
		e.high = e.mid
	}
	model.Observe(bit)

	e.resolveScaling()
}

// End flushes the final interval bit plus the pending E3 inverse bits,
// optionally zero-pads to a byte boundary, and reverses the sequence
// so the decoder can consume it tail-first.
func (e *Encoder) End(fillToByte bool) *Bitstream {
	e.flush()
	if fillToByte {
		e.result.Fill()
	}
	e.result.Reverse()
	return e.result
}

func (e *Encoder) updateTable(model Model) {
	currentRange := e.high - e.low
	midRange := uint32(float64(currentRange) * model.Probability(0))
	e.mid = e.low + midRange
}

func (e *Encoder) resolveScaling() {
	for {
		if (e.high & e.msbMask) == (e.low & e.msbMask) {
			msb := (e.high & e.msbMask) >> uint(e.precision-1)
			e.low -= e.halfRange*msb + msb
			e.high -= e.halfRange*msb + msb

			e.result.Append(int(msb))
			e.flushInverseBits(int(msb))
		} else if e.high <= e.threeQuarterRange && e.low > e.quarterRange {
			e.low -= e.quarterRange + 1
			e.high -= e.quarterRange + 1
			e.e3++
		} else {
			break
		}

		e.low = (e.low << 1) & e.fullRange
		e.high = (e.high<<1)&e.fullRange | 1
	}
}

func (e *Encoder) flushInverseBits(bit int) {
	inverse := 1 - bit
	for i := 0; i < e.e3; i++ {
		e.result.Append(inverse)
	}
	e.e3 = 0
}

func (e *Encoder) flush() {
	e.e3++
	if e.low < e.quarterRange {
		e.result.Append(0)
		e.flushInverseBits(0)
	} else {
		e.result.Append(1)
		e.flushInverseBits(1)
	}
}
