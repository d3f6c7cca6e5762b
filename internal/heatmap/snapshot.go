package heatmap

import (
	"fmt"
	"time"
)

// Snapshot is everything a renderer needs to draw the heat-map without
// re-deriving any mapping.
type Snapshot struct {
	Domain          Domain        `json:"domain"`
	Scale           ScaleConfig   `json:"scale"`
	Layout          Layout        `json:"layout"`
	BaseTemperature float64       `json:"baseTemperature"`
	Legend          []ColorBucket `json:"legend"`
	Cells           []Cell        `json:"cells"`
	GeneratedAt     time.Time     `json:"generatedAt"`
}

// BuildSnapshot runs the full mapping for ds on layout.
func BuildSnapshot(ds Dataset, layout Layout, palette Palette) (*Snapshot, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	domain, err := CalculateDomain(ds.Measurements)
	if err != nil {
		return nil, err
	}
	cfg := layout.ScaleConfig(domain)
	scales := NewScales(domain, cfg)

	cells, err := NewProjector(scales, palette, ds.BaseTemperature).ProjectAll(ds.Measurements)
	if err != nil {
		return nil, fmt.Errorf("project cells: %w", err)
	}

	return &Snapshot{
		Domain:          domain,
		Scale:           cfg,
		Layout:          layout,
		BaseTemperature: ds.BaseTemperature,
		Legend:          palette.Buckets(),
		Cells:           cells,
		GeneratedAt:     clock.Now().UTC(),
	}, nil
}

// Title is the heading shown above the chart.
func (s *Snapshot) Title() string {
	return "Monthly Global Land-Surface Temperature"
}

// Description summarizes the year extent and base temperature.
func (s *Snapshot) Description() string {
	return fmt.Sprintf("%d - %d: base temperature %g℃", s.Domain.MinYear, s.Domain.MaxYear, s.BaseTemperature)
}
