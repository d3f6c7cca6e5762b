package heatmap

import "fmt"

// Range is a pixel interval.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns End-Start.
func (r Range) Length() float64 {
	return r.End - r.Start
}

// ScaleConfig holds the output ranges of both axes. Vertical.Start is the
// top edge of the January band.
type ScaleConfig struct {
	Horizontal Range `json:"horizontal"`
	Vertical   Range `json:"vertical"`
}

// Scales maps years to x and month names to y. The zero value is
// unconfigured and every mapping returns ErrDomainNotSet until Configure.
type Scales struct {
	domain     Domain
	config     ScaleConfig
	configured bool
}

// NewScales returns scales configured for domain and cfg.
func NewScales(domain Domain, cfg ScaleConfig) *Scales {
	s := &Scales{}
	s.Configure(domain, cfg)
	return s
}

// Configure sets the domain and ranges for the next render cycle.
func (s *Scales) Configure(domain Domain, cfg ScaleConfig) {
	s.domain = domain
	s.config = cfg
	s.configured = true
}

// Domain returns the configured domain.
func (s *Scales) Domain() (Domain, error) {
	if !s.configured {
		return Domain{}, ErrDomainNotSet
	}
	return s.domain, nil
}

// Config returns the configured ranges.
func (s *Scales) Config() (ScaleConfig, error) {
	if !s.configured {
		return ScaleConfig{}, ErrDomainNotSet
	}
	return s.config, nil
}

// MapHorizontal interpolates year from [MinYear, MaxYear] onto the
// horizontal range.
func (s *Scales) MapHorizontal(year int) (float64, error) {
	if !s.configured {
		return 0, ErrDomainNotSet
	}
	h := s.config.Horizontal
	t := float64(year-s.domain.MinYear) / float64(s.domain.YearSpan())
	return h.Start + t*h.Length(), nil
}

// MapVertical returns the top edge of the band for month.
func (s *Scales) MapVertical(month string) (float64, error) {
	if !s.configured {
		return 0, ErrDomainNotSet
	}
	i, ok := monthIndex(month)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, month)
	}
	return s.config.Vertical.Start + float64(i)*s.bandHeight(), nil
}

// BandHeight returns the height of one month band.
func (s *Scales) BandHeight() (float64, error) {
	if !s.configured {
		return 0, ErrDomainNotSet
	}
	return s.bandHeight(), nil
}

// ColumnWidth returns the width of one year column.
func (s *Scales) ColumnWidth() (float64, error) {
	if !s.configured {
		return 0, ErrDomainNotSet
	}
	return s.config.Horizontal.Length() / float64(s.domain.YearSpan()), nil
}

func (s *Scales) bandHeight() float64 {
	return s.config.Vertical.Length() / float64(len(Months))
}
