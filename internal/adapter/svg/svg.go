// Package svg draws a heat-map snapshot as a standalone SVG document.
package svg

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

const (
	legendSwatch = 40.0
	tickEvery    = 10
)

// Render writes snap to w.
func Render(w io.Writer, snap *heatmap.Snapshot) error {
	scales := heatmap.NewScales(snap.Domain, snap.Scale)
	bw := bufio.NewWriter(w)
	l := snap.Layout

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" id="heatmap">`+"\n", num(l.Width), num(l.Height))
	fmt.Fprintf(bw, `<title id="title">%s</title>`+"\n", escape(snap.Title()))
	fmt.Fprintf(bw, `<desc id="description">%s</desc>`+"\n", escape(snap.Description()))
	fmt.Fprintf(bw, `<g transform="translate(%s, %s)">`+"\n", num(l.Margin.Left), num(l.Margin.Top))

	writeLegend(bw, snap.Legend)
	writeCells(bw, snap.Cells)
	if err := writeAxes(bw, scales, snap); err != nil {
		return err
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

func writeLegend(w *bufio.Writer, legend []heatmap.ColorBucket) {
	w.WriteString(`<g id="legend">` + "\n")
	for i, b := range legend {
		x := num(float64(i) * legendSwatch)
		fmt.Fprintf(w, `<rect x="%s" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			x, num(legendSwatch), num(legendSwatch), escape(b.Color))
		fmt.Fprintf(w, `<text x="%s" y="55">%s</text>`+"\n", x, num(b.Threshold))
	}
	w.WriteString("</g>\n")
}

func writeCells(w *bufio.Writer, cells []heatmap.Cell) {
	w.WriteString(`<g id="cells">` + "\n")
	for _, c := range cells {
		fmt.Fprintf(w, `<rect class="cell" x="%s" y="%s" width="%s" height="%s" fill="%s" data-year="%d" data-month="%d" data-temp="%s"/>`+"\n",
			num(c.X), num(c.Y), num(c.Width), num(c.Height), escape(c.Color), c.Year, c.Month, num(c.AbsoluteTemperature))
	}
	w.WriteString("</g>\n")
}

func writeAxes(w *bufio.Writer, scales *heatmap.Scales, snap *heatmap.Snapshot) error {
	colWidth, err := scales.ColumnWidth()
	if err != nil {
		return err
	}
	bandHeight, err := scales.BandHeight()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, `<g id="x-axis" transform="translate(0, %s)">`+"\n", num(snap.Scale.Vertical.End))
	for year := firstTick(snap.Domain.MinYear); year <= snap.Domain.MaxYear; year += tickEvery {
		x, err := scales.MapHorizontal(year)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, `<text class="tick" x="%s" y="15" text-anchor="middle">%d</text>`+"\n", num(x+colWidth/2), year)
	}
	w.WriteString("</g>\n")

	w.WriteString(`<g id="y-axis">` + "\n")
	for _, month := range snap.Domain.Months {
		y, err := scales.MapVertical(month)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, `<text class="tick" x="-5" y="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			num(y+bandHeight/2), escape(month))
	}
	w.WriteString("</g>\n")
	return nil
}

// firstTick returns the first multiple of tickEvery at or after year.
func firstTick(year int) int {
	if r := year % tickEvery; r != 0 {
		return year + tickEvery - r
	}
	return year
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
