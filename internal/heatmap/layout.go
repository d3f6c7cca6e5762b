package heatmap

import (
	"errors"
	"fmt"
	"math"
)

// Margin frames the plot inside the canvas.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout describes the canvas a snapshot is drawn on.
type Layout struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Margin       Margin  `json:"margin"`
	LegendHeight float64 `json:"legendHeight"`
}

// DefaultLayout is an 800x500 canvas with a 60px legend strip above the grid.
func DefaultLayout() Layout {
	return Layout{
		Width:        800,
		Height:       500,
		Margin:       Margin{Top: 20, Right: 20, Bottom: 20, Left: 50},
		LegendHeight: 60,
	}
}

// WithSize returns a copy of l with a different canvas size.
func (l Layout) WithSize(width, height float64) Layout {
	l.Width = width
	l.Height = height
	return l
}

// Validate reports whether the plot area left after margins and legend is positive.
func (l Layout) Validate() error {
	for _, v := range []float64{l.Width, l.Height, l.Margin.Top, l.Margin.Right, l.Margin.Bottom, l.Margin.Left, l.LegendHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("canvas dimensions must be finite")
		}
	}
	if l.Width <= 0 || l.Height <= 0 {
		return errors.New("canvas size must be positive")
	}
	if l.InnerWidth() <= 0 {
		return fmt.Errorf("canvas width %g leaves no room inside margins", l.Width)
	}
	if l.InnerHeight()-l.LegendHeight <= 0 {
		return fmt.Errorf("canvas height %g leaves no room for the grid", l.Height)
	}
	return nil
}

// InnerWidth is the width inside the left and right margins.
func (l Layout) InnerWidth() float64 {
	return l.Width - l.Margin.Left - l.Margin.Right
}

// InnerHeight is the height inside the top and bottom margins.
func (l Layout) InnerHeight() float64 {
	return l.Height - l.Margin.Top - l.Margin.Bottom
}

// ScaleConfig derives ranges for d. The horizontal range end is pulled in by
// one column so the MaxYear column still ends inside the plot area.
func (l Layout) ScaleConfig(d Domain) ScaleConfig {
	span := float64(d.YearSpan())
	return ScaleConfig{
		Horizontal: Range{Start: 0, End: l.InnerWidth() * span / (span + 1)},
		Vertical:   Range{Start: l.LegendHeight, End: l.InnerHeight()},
	}
}

// Key identifies the layout in render caches.
func (l Layout) Key() string {
	return fmt.Sprintf("%gx%g|%g,%g,%g,%g|%g", l.Width, l.Height,
		l.Margin.Top, l.Margin.Right, l.Margin.Bottom, l.Margin.Left, l.LegendHeight)
}
