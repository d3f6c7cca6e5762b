// Package heatmap maps the global land-surface temperature dataset onto a
// year x month heat-map grid.
//
// # Data Source
//
// The dataset is the freeCodeCamp global-temperature.json file:
//
//	{
//	  "baseTemperature": 8.66,
//	  "monthlyVariance": [{"year": 1753, "month": 1, "variance": -1.366}, ...]
//	}
//
// Each record carries a 4-digit year, an unpadded month (1 = January) and a
// variance in degrees Celsius relative to baseTemperature. The absolute
// temperature of a cell is variance + baseTemperature.
//
// # Mapping
//
// Years map linearly onto the horizontal range: minYear lands on the range
// start and maxYear on the range end. Months occupy 12 equal bands on the
// vertical axis, January on top. When the dataset spans a single year the
// year span is clamped to 1 so cell widths stay finite.
//
// Colors come from a descending threshold legend. A temperature takes the
// color of the first threshold it is strictly greater than; a value equal to
// a threshold falls to the next, colder bucket, and anything below every
// threshold takes the last color:
//
//	> 11.2 #e83a30 | > 9.6 #ee6d66 | > 8 #f4a09c | > 6.4 #faddd1
//	> 4.8  #a39cf4 | > 3.2 #7166ee | else #4030e8
//
// # Tooltip
//
// [Tooltip] is a two-state machine (hidden, visible) driven by hover and
// unhover events. Moving between cells re-targets a visible tooltip without
// hiding it first.
package heatmap
