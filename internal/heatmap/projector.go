package heatmap

// Cell is one renderable rectangle.
type Cell struct {
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	Color               string  `json:"color"`
	AbsoluteTemperature float64 `json:"temperature"`
	Year                int     `json:"year"`
	Month               int     `json:"month"`
}

// Projector turns measurements into cells.
type Projector struct {
	scales  *Scales
	palette Palette
	base    float64
}

// NewProjector binds configured scales, a palette and the dataset's base
// temperature.
func NewProjector(scales *Scales, palette Palette, baseTemperature float64) *Projector {
	return &Projector{scales: scales, palette: palette, base: baseTemperature}
}

// Project maps a single measurement.
func (p *Projector) Project(m Measurement) (Cell, error) {
	name, err := MonthName(m.Month)
	if err != nil {
		return Cell{}, err
	}
	x, err := p.scales.MapHorizontal(m.Year)
	if err != nil {
		return Cell{}, err
	}
	y, err := p.scales.MapVertical(name)
	if err != nil {
		return Cell{}, err
	}
	width, err := p.scales.ColumnWidth()
	if err != nil {
		return Cell{}, err
	}
	height, err := p.scales.BandHeight()
	if err != nil {
		return Cell{}, err
	}

	temp := m.Temperature(p.base)
	return Cell{
		X:                   x,
		Y:                   y,
		Width:               width,
		Height:              height,
		Color:               p.palette.Bucket(temp),
		AbsoluteTemperature: temp,
		Year:                m.Year,
		Month:               m.Month,
	}, nil
}

// ProjectAll maps every measurement, preserving input order.
func (p *Projector) ProjectAll(ms []Measurement) ([]Cell, error) {
	cells := make([]Cell, len(ms))
	for i, m := range ms {
		c, err := p.Project(m)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return cells, nil
}
