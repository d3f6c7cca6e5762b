package heatmap

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	ds := Dataset{BaseTemperature: 8.66}
	for year := 1753; year <= 1762; year++ {
		for month := 1; month <= 12; month++ {
			ds.Measurements = append(ds.Measurements, Measurement{
				Year:     year,
				Month:    month,
				Variance: float64(month-6) * 0.5,
			})
		}
	}
	return ds
}

func TestBuildSnapshot(t *testing.T) {
	frozen := time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	layout := DefaultLayout()
	snap, err := BuildSnapshot(sampleDataset(), layout, DefaultPalette())
	require.NoError(t, err)

	assert.Equal(t, frozen, snap.GeneratedAt)
	assert.Equal(t, 1753, snap.Domain.MinYear)
	assert.Equal(t, 1762, snap.Domain.MaxYear)
	assert.Len(t, snap.Cells, 120)
	assert.Len(t, snap.Legend, 7)
	assert.Equal(t, layout, snap.Layout)
	assert.Equal(t, "1753 - 1762: base temperature 8.66℃", snap.Description())
	assert.Equal(t, "Monthly Global Land-Surface Temperature", snap.Title())

	for _, c := range snap.Cells {
		assert.GreaterOrEqual(t, c.X, 0.0)
		assert.LessOrEqual(t, c.X+c.Width, layout.InnerWidth()+1e-9)
		assert.GreaterOrEqual(t, c.Y, layout.LegendHeight)
		assert.LessOrEqual(t, c.Y+c.Height, layout.InnerHeight()+1e-9)
	}
}

func TestBuildSnapshot_Errors(t *testing.T) {
	t.Run("empty dataset", func(t *testing.T) {
		_, err := BuildSnapshot(Dataset{BaseTemperature: 8.66}, DefaultLayout(), DefaultPalette())
		require.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("layout too small", func(t *testing.T) {
		_, err := BuildSnapshot(sampleDataset(), DefaultLayout().WithSize(60, 500), DefaultPalette())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "layout")
	})
}

func TestLayout_ScaleConfig(t *testing.T) {
	l := DefaultLayout()
	assert.InDelta(t, 730, l.InnerWidth(), 1e-9)
	assert.InDelta(t, 460, l.InnerHeight(), 1e-9)

	d := Domain{MinYear: 1753, MaxYear: 2015, Months: Months[:]}
	cfg := l.ScaleConfig(d)
	s := NewScales(d, cfg)

	x, err := s.MapHorizontal(d.MaxYear)
	require.NoError(t, err)
	w, err := s.ColumnWidth()
	require.NoError(t, err)
	assert.InDelta(t, l.InnerWidth(), x+w, 1e-9)
	assert.InDelta(t, 60, cfg.Vertical.Start, 1e-9)
	assert.InDelta(t, 460, cfg.Vertical.End, 1e-9)
}

func TestLayout_Validate(t *testing.T) {
	require.NoError(t, DefaultLayout().Validate())
	require.Error(t, DefaultLayout().WithSize(0, 500).Validate())
	require.Error(t, DefaultLayout().WithSize(800, 90).Validate())

	nan, inf := math.NaN(), math.Inf(1)
	nanMargin := DefaultLayout()
	nanMargin.Margin.Left = nan
	infLegend := DefaultLayout()
	infLegend.LegendHeight = math.Inf(-1)
	tests := []struct {
		name   string
		layout Layout
	}{
		{"NaN width", DefaultLayout().WithSize(nan, 500)},
		{"NaN height", DefaultLayout().WithSize(800, nan)},
		{"+Inf width", DefaultLayout().WithSize(inf, 500)},
		{"+Inf height", DefaultLayout().WithSize(800, inf)},
		{"-Inf width", DefaultLayout().WithSize(math.Inf(-1), 500)},
		{"NaN margin", nanMargin},
		{"-Inf legend", infLegend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.layout.Validate())
		})
	}
	assert.NotEqual(t, DefaultLayout().Key(), DefaultLayout().WithSize(1024, 600).Key())
}
