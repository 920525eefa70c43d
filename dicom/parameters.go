package dicom

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure Parameters implements codec.Parameters
var _ codec.Parameters = (*Parameters)(nil)

// Parameters carries the MICO settings through go-dicom's generic
// parameter interface.
type Parameters struct {
	// Lagrangian is the rate-distortion trade-off multiplier; zero
	// keeps the entropy stage lossless.
	Lagrangian float64

	// BlockSize is the tile edge; zero selects the codec default.
	BlockSize int

	// internal storage for compatibility with the generic parameter
	// interface
	params map[string]interface{}
}

// NewParameters creates Parameters with lossless defaults.
func NewParameters() *Parameters {
	return &Parameters{
		Lagrangian: 0,
		BlockSize:  0,
		params:     make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case "lagrangian":
		return p.Lagrangian
	case "blockSize":
		return p.BlockSize
	default:
		if p.params == nil {
			return nil
		}
		return p.params[name]
	}
}

// SetParameter stores a parameter by name (implements codec.Parameters)
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case "lagrangian":
		switch v := value.(type) {
		case float64:
			p.Lagrangian = v
		case float32:
			p.Lagrangian = float64(v)
		case int:
			p.Lagrangian = float64(v)
		}
	case "blockSize":
		if v, ok := value.(int); ok {
			p.BlockSize = v
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate checks the parameter ranges (implements codec.Parameters)
func (p *Parameters) Validate() error {
	if p.Lagrangian < 0 {
		return ErrInvalidLagrangian
	}
	if p.BlockSize < 0 || p.BlockSize > 1<<16-1 {
		return ErrInvalidBlockSize
	}
	return nil
}

// WithLagrangian sets the rate-distortion multiplier.
func (p *Parameters) WithLagrangian(lagrangian float64) *Parameters {
	p.Lagrangian = lagrangian
	return p
}

// WithBlockSize sets the tile edge.
func (p *Parameters) WithBlockSize(blockSize int) *Parameters {
	p.BlockSize = blockSize
	return p
}
