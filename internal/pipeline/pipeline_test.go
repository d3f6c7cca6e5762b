package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	raw   heatmap.RawDataset
	err   error
	calls int
}

func (m *mockSource) Fetch(_ context.Context) (heatmap.RawDataset, error) {
	m.calls++
	return m.raw, m.err
}

type mockLoader struct {
	loaded []*heatmap.Snapshot
	err    error
}

func (m *mockLoader) LoadSnapshot(_ context.Context, snap *heatmap.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, snap)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawDataset() heatmap.RawDataset {
	return heatmap.RawDataset{
		BaseTemperature: 8.66,
		MonthlyVariance: []heatmap.RawRecord{
			{Year: "1753", Month: "1", Variance: -2.5},
			{Year: "1753", Month: "2", Variance: 0.4},
			{Year: "1754", Month: "1", Variance: 2.6},
			{Year: "1754", Month: "13", Variance: 0},
		},
	}
}

func defaultOptions() pipeline.Options {
	return pipeline.Options{
		Layout:        heatmap.DefaultLayout(),
		Palette:       heatmap.DefaultPalette(),
		SkipMalformed: true,
		CacheSize:     4,
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	src := &mockSource{raw: rawDataset()}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, ldr, defaultOptions(), discardLogger(), metrics)
	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotReady)

	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	snap, err := p.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Cells, 3)
	assert.Equal(t, 1753, snap.Domain.MinYear)
	assert.Equal(t, 1754, snap.Domain.MaxYear)
	assert.Equal(t, "#a39cf4", snap.Cells[0].Color)

	require.Len(t, ldr.loaded, 1)
	assert.Same(t, snap, ldr.loaded[0])

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PipelineReady), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.MeasurementsParsed), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ParseErrors), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.CellsProjected), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.CellsPublished), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetFetches.WithLabelValues("success")), 1e-9)
}

func TestPipeline_Run_FetchErrorStaysIdle(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(src, nil, defaultOptions(), discardLogger(), metrics)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch dataset")
	assert.Equal(t, 1, src.calls, "no retry")

	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotReady)
	_, err = p.Snapshot()
	require.ErrorIs(t, err, pipeline.ErrNotReady)
	_, err = p.Render(heatmap.DefaultLayout())
	require.ErrorIs(t, err, pipeline.ErrNotReady)
	_, _, err = p.Lookup(1753, 1)
	require.ErrorIs(t, err, pipeline.ErrNotReady)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetFetches.WithLabelValues("error")), 1e-9)
}

func TestPipeline_Run_AbortOnMalformed(t *testing.T) {
	opts := defaultOptions()
	opts.SkipMalformed = false
	p := pipeline.New(&mockSource{raw: rawDataset()}, nil, opts, discardLogger(), observability.NewMetricsForTesting())

	err := p.Run(context.Background())
	var perr *heatmap.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "month", perr.Field)
	require.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_EmptyDataset(t *testing.T) {
	p := pipeline.New(&mockSource{raw: heatmap.RawDataset{BaseTemperature: 8.66}}, nil, defaultOptions(),
		discardLogger(), observability.NewMetricsForTesting())

	err := p.Run(context.Background())
	require.ErrorIs(t, err, heatmap.ErrEmptyDataset)
}

func TestPipeline_Run_PublishFailureStillReady(t *testing.T) {
	ldr := &mockLoader{err: errors.New("broker down")}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockSource{raw: rawDataset()}, ldr, defaultOptions(), discardLogger(), metrics)

	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.CellsPublished), 1e-9)
}

func TestPipeline_Render_Cache(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockSource{raw: rawDataset()}, nil, defaultOptions(), discardLogger(), metrics)
	require.NoError(t, p.Run(context.Background()))

	base, err := p.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, heatmap.DefaultLayout(), p.Layout())

	same, err := p.Render(heatmap.DefaultLayout())
	require.NoError(t, err)
	assert.Same(t, base, same)

	wide := heatmap.DefaultLayout().WithSize(1600, 500)
	first, err := p.Render(wide)
	require.NoError(t, err)
	second, err := p.Render(wide)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Greater(t, first.Cells[0].Width, base.Cells[0].Width)

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("miss")), 1e-9)

	_, err = p.Render(heatmap.DefaultLayout().WithSize(10, 10))
	require.Error(t, err)
}

func TestPipeline_Lookup(t *testing.T) {
	p := pipeline.New(&mockSource{raw: rawDataset()}, nil, defaultOptions(), discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, p.Run(context.Background()))

	m, base, err := p.Lookup(1754, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(heatmap.Measurement{Year: 1754, Month: 1, Variance: 2.6}, m); diff != "" {
		t.Errorf("Lookup mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 8.66, base, 1e-9)

	_, _, err = p.Lookup(1754, 13)
	require.ErrorIs(t, err, pipeline.ErrNoMeasurement)
}
