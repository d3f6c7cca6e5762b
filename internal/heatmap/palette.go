package heatmap

import "fmt"

// ColorBucket pairs a lower threshold with a legend color.
type ColorBucket struct {
	Threshold float64 `json:"threshold" fig:"threshold"`
	Color     string  `json:"color" fig:"color"`
}

// Palette is a legend ordered by descending threshold. The last bucket
// catches every value not above an earlier threshold.
type Palette struct {
	buckets []ColorBucket
}

// NewPalette validates buckets: at least one, strictly descending thresholds,
// non-empty colors.
func NewPalette(buckets []ColorBucket) (Palette, error) {
	if len(buckets) == 0 {
		return Palette{}, fmt.Errorf("%w: no buckets", ErrInvalidPalette)
	}
	for i, b := range buckets {
		if b.Color == "" {
			return Palette{}, fmt.Errorf("%w: bucket %d has no color", ErrInvalidPalette, i)
		}
		if i > 0 && b.Threshold >= buckets[i-1].Threshold {
			return Palette{}, fmt.Errorf("%w: threshold %g not below %g", ErrInvalidPalette, b.Threshold, buckets[i-1].Threshold)
		}
	}
	return Palette{buckets: append([]ColorBucket(nil), buckets...)}, nil
}

// DefaultPalette returns the seven-step red-to-blue legend.
func DefaultPalette() Palette {
	return Palette{buckets: []ColorBucket{
		{Threshold: 11.2, Color: "#e83a30"},
		{Threshold: 9.6, Color: "#ee6d66"},
		{Threshold: 8, Color: "#f4a09c"},
		{Threshold: 6.4, Color: "#faddd1"},
		{Threshold: 4.8, Color: "#a39cf4"},
		{Threshold: 3.2, Color: "#7166ee"},
		{Threshold: 1.6, Color: "#4030e8"},
	}}
}

// Bucket returns the color of the first bucket whose threshold t strictly
// exceeds, or the last bucket's color.
func (p Palette) Bucket(t float64) string {
	if len(p.buckets) == 0 {
		return ""
	}
	for _, b := range p.buckets {
		if t > b.Threshold {
			return b.Color
		}
	}
	return p.buckets[len(p.buckets)-1].Color
}

// Buckets returns a copy of the legend.
func (p Palette) Buckets() []ColorBucket {
	return append([]ColorBucket(nil), p.buckets...)
}
