package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

func testSnapshot(t *testing.T) *heatmap.Snapshot {
	t.Helper()
	ds := heatmap.Dataset{BaseTemperature: 8.66}
	for year := 1753; year <= 1775; year++ {
		for month := 1; month <= 12; month++ {
			ds.Measurements = append(ds.Measurements, heatmap.Measurement{Year: year, Month: month, Variance: float64(month%5) - 2})
		}
	}
	snap, err := heatmap.BuildSnapshot(ds, heatmap.DefaultLayout(), heatmap.DefaultPalette())
	require.NoError(t, err)
	return snap
}

func TestRender_WellFormed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testSnapshot(t)))

	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestRender_Contents(t *testing.T) {
	var buf bytes.Buffer
	snap := testSnapshot(t)
	require.NoError(t, Render(&buf, snap))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 500"`))
	assert.Contains(t, out, "Monthly Global Land-Surface Temperature")
	assert.Contains(t, out, "1753 - 1775: base temperature 8.66℃")
	assert.Contains(t, out, `transform="translate(50, 20)"`)
	assert.Equal(t, len(snap.Cells), strings.Count(out, `class="cell"`))
	assert.Equal(t, 7, strings.Count(out, `<text x=`), "one label per legend bucket")
	assert.Contains(t, out, `fill="#e83a30"`)
	assert.Contains(t, out, `data-year="1753" data-month="1"`)
	assert.Contains(t, out, ">1760</text>")
	assert.Contains(t, out, ">1770</text>")
	assert.NotContains(t, out, ">1753</text>")
	assert.Contains(t, out, ">January</text>")
	assert.Contains(t, out, ">December</text>")
}

func TestFirstTick(t *testing.T) {
	assert.Equal(t, 1760, firstTick(1753))
	assert.Equal(t, 1760, firstTick(1760))
	assert.Equal(t, 2000, firstTick(1991))
}

func TestNumAndEscape(t *testing.T) {
	assert.Equal(t, "2.79", num(2.786259541984733))
	assert.Equal(t, "60", num(60))
	assert.Equal(t, "-1.5", num(-1.5))
	assert.Equal(t, "a &lt;b&gt; &amp; c", escape("a <b> & c"))
}
