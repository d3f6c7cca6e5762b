package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// ErrNotReady is returned while no dataset has been loaded.
var ErrNotReady = errors.New("dataset not loaded")

// ErrNoMeasurement is returned by Lookup for a year/month absent from the dataset.
var ErrNoMeasurement = errors.New("no measurement for year and month")

// DatasetSource delivers the raw dataset once.
type DatasetSource interface {
	Fetch(ctx context.Context) (heatmap.RawDataset, error)
}

// SnapshotLoader receives the rendered snapshot, e.g. to publish its cells.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, snap *heatmap.Snapshot) error
}

// Options configures projection.
type Options struct {
	Layout        heatmap.Layout
	Palette       heatmap.Palette
	SkipMalformed bool
	CacheSize     int
}

// loaded is the immutable state published after a successful load.
type loaded struct {
	dataset  heatmap.Dataset
	index    map[int]heatmap.Measurement
	snapshot *heatmap.Snapshot
}

// Pipeline fetches the dataset once and projects it into snapshots.
type Pipeline struct {
	source  DatasetSource
	loader  SnapshotLoader
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	state   atomic.Pointer[loaded]
	cache   *lruCache
}

// New creates a Pipeline. loader may be nil to skip publishing.
func New(source DatasetSource, loader SnapshotLoader, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		loader:  loader,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		cache:   newLRUCache(opts.CacheSize),
	}
}

// CheckReadiness returns nil once a snapshot has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.state.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Run fetches, parses, and projects the dataset once. On failure the pipeline
// stays idle and not ready; there is no retry.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "source", fmt.Sprint(p.source))

	start := time.Now()
	raw, err := p.source.Fetch(ctx)
	p.metrics.DatasetFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.DatasetFetches.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch dataset: %w", err)
	}
	p.metrics.DatasetFetches.WithLabelValues("success").Inc()

	ds, err := p.parse(raw)
	if err != nil {
		return err
	}

	snap, err := p.project(ds, p.opts.Layout)
	if err != nil {
		return err
	}

	p.cache.reset()
	p.cache.put(p.opts.Layout.Key(), snap)
	p.state.Store(&loaded{dataset: ds, index: indexMeasurements(ds.Measurements), snapshot: snap})
	p.metrics.PipelineReady.Set(1)
	p.logger.Info("heatmap rendered",
		"measurements", len(ds.Measurements),
		"min_year", snap.Domain.MinYear,
		"max_year", snap.Domain.MaxYear,
		"base_temperature", ds.BaseTemperature,
	)

	p.publish(ctx, snap)
	return nil
}

func (p *Pipeline) parse(raw heatmap.RawDataset) (heatmap.Dataset, error) {
	ds, skipped, err := heatmap.ParseDataset(raw, p.opts.SkipMalformed)
	if err != nil {
		p.metrics.ParseErrors.Inc()
		return heatmap.Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	for _, serr := range skipped {
		p.logger.Warn("malformed record, skipping", "error", serr)
	}
	p.metrics.ParseErrors.Add(float64(len(skipped)))
	p.metrics.MeasurementsParsed.Add(float64(len(ds.Measurements)))
	return ds, nil
}

func (p *Pipeline) project(ds heatmap.Dataset, layout heatmap.Layout) (*heatmap.Snapshot, error) {
	start := time.Now()
	snap, err := heatmap.BuildSnapshot(ds, layout, p.opts.Palette)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	p.metrics.ProjectionDuration.Observe(time.Since(start).Seconds())
	p.metrics.CellsProjected.Add(float64(len(snap.Cells)))
	return snap, nil
}

func (p *Pipeline) publish(ctx context.Context, snap *heatmap.Snapshot) {
	if p.loader == nil {
		return
	}
	if err := p.loader.LoadSnapshot(ctx, snap); err != nil {
		p.logger.Error("publish cells failed", "error", err, "cells", len(snap.Cells))
		return
	}
	p.metrics.CellsPublished.Add(float64(len(snap.Cells)))
}

// Layout returns the configured base layout.
func (p *Pipeline) Layout() heatmap.Layout {
	return p.opts.Layout
}

// Snapshot returns the snapshot for the configured layout.
func (p *Pipeline) Snapshot() (*heatmap.Snapshot, error) {
	st := p.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	return st.snapshot, nil
}

// Render re-projects the loaded dataset for layout, reusing cached results.
func (p *Pipeline) Render(layout heatmap.Layout) (*heatmap.Snapshot, error) {
	st := p.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	key := layout.Key()
	if snap, ok := p.cache.get(key); ok {
		p.metrics.RenderCache.WithLabelValues("hit").Inc()
		return snap, nil
	}
	p.metrics.RenderCache.WithLabelValues("miss").Inc()

	snap, err := p.project(st.dataset, layout)
	if err != nil {
		return nil, err
	}
	p.cache.put(key, snap)
	return snap, nil
}

// Lookup returns the measurement for year and month along with the dataset's
// base temperature.
func (p *Pipeline) Lookup(year, month int) (heatmap.Measurement, float64, error) {
	st := p.state.Load()
	if st == nil {
		return heatmap.Measurement{}, 0, ErrNotReady
	}
	m, ok := st.index[measurementKey(year, month)]
	if !ok {
		return heatmap.Measurement{}, 0, fmt.Errorf("%w: %d-%02d", ErrNoMeasurement, year, month)
	}
	return m, st.dataset.BaseTemperature, nil
}

func indexMeasurements(ms []heatmap.Measurement) map[int]heatmap.Measurement {
	idx := make(map[int]heatmap.Measurement, len(ms))
	for _, m := range ms {
		idx[measurementKey(m.Year, m.Month)] = m
	}
	return idx
}

func measurementKey(year, month int) int {
	return year*100 + month
}
