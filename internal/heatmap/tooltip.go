package heatmap

import (
	"fmt"
	"math"
	"strconv"
)

// TooltipState is the snapshot re-emitted on every transition.
type TooltipState struct {
	Visible     bool    `json:"visible"`
	PositionX   float64 `json:"x"`
	PositionY   float64 `json:"y"`
	DisplayText string  `json:"text"`
	ActiveYear  int     `json:"year"`
}

// TooltipListener receives a state snapshot after each transition.
type TooltipListener func(TooltipState)

// Tooltip tracks hover state for one visualization. It is not safe for
// concurrent use; callers feed it one pointer event at a time.
type Tooltip struct {
	state     TooltipState
	listeners []TooltipListener
}

// NewTooltip returns a hidden tooltip.
func NewTooltip(listeners ...TooltipListener) *Tooltip {
	return &Tooltip{listeners: listeners}
}

// State returns the current snapshot.
func (t *Tooltip) State() TooltipState {
	return t.state
}

// OnHover shows the tooltip for m at the pointer position. Hovering while
// visible re-targets the tooltip without hiding it.
func (t *Tooltip) OnHover(m Measurement, baseTemperature, pointerX, pointerY float64) TooltipState {
	t.state = TooltipState{
		Visible:     true,
		PositionX:   pointerX,
		PositionY:   pointerY,
		DisplayText: FormatTooltip(m.Year, m.Temperature(baseTemperature)),
		ActiveYear:  m.Year,
	}
	t.emit()
	return t.state
}

// OnUnhover hides the tooltip. Text and position are left as they were.
func (t *Tooltip) OnUnhover() TooltipState {
	t.state.Visible = false
	t.emit()
	return t.state
}

func (t *Tooltip) emit() {
	for _, l := range t.listeners {
		l(t.state)
	}
}

// FormatTooltip renders "{year} {temperature}℃" with the temperature
// rounded to three decimals.
func FormatTooltip(year int, temperature float64) string {
	rounded := math.Round(temperature*1000) / 1000
	return fmt.Sprintf("%d %s℃", year, strconv.FormatFloat(rounded, 'f', -1, 64))
}
