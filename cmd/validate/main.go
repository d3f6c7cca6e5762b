// Command validate checks a monthly-variance dataset before it is served:
// every record parses, every year in the domain has all twelve months, the
// records are ordered, and every projected cell lands inside the plot area.
// Given a snapshot fixture it also re-renders the dataset and diffs the two.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -dataset data/mock/global-temperature.json \
//	  -snapshot data/mock/snapshot.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

// tolerance absorbs float rounding in pixel and temperature comparisons.
const tolerance = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	datasetPath := flag.String("dataset", "", "path to the raw dataset JSON")
	snapshotPath := flag.String("snapshot", "", "optional path to a snapshot fixture rendered by genmock")
	flag.Parse()

	if *datasetPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*datasetPath, *snapshotPath))
}

func run(datasetPath, snapshotPath string) int {
	// Same fixed clock as genmock so GeneratedAt matches.
	heatmap.SetClock(clockwork.NewFakeClockAt(time.Date(2015, time.December, 31, 0, 0, 0, 0, time.UTC)))
	defer heatmap.SetClock(nil)

	fmt.Println("=== Temperature Dataset Validation ===")
	fmt.Println()

	var raw heatmap.RawDataset
	if err := loadJSON(datasetPath, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	parsePhase, ds := validateParse(raw)
	phases := []*phase{
		parsePhase,
		validateCoverage(ds.Measurements),
		validateOrdering(ds.Measurements),
		validateProjection(ds),
	}
	if snapshotPath != "" {
		phases = append(phases, validateSnapshot(ds, snapshotPath))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d parsed, base temperature %g\n",
		len(raw.MonthlyVariance), len(ds.Measurements), raw.BaseTemperature)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ── Validation phases ──

func validateParse(raw heatmap.RawDataset) (*phase, heatmap.Dataset) {
	p := &phase{name: "Phase 1: Record parsing"}
	ds, skipped, err := heatmap.ParseDataset(raw, true)
	if err != nil {
		p.errorf("%v", err)
	}
	for _, e := range skipped {
		p.errorf("%v", e)
	}
	if len(ds.Measurements) == 0 {
		p.errorf("%v", heatmap.ErrEmptyDataset)
	}
	return p, ds
}

func validateCoverage(ms []heatmap.Measurement) *phase {
	p := &phase{name: "Phase 2: Month coverage"}
	d, err := heatmap.CalculateDomain(ms)
	if err != nil {
		p.errorf("%v", err)
		return p
	}

	seen := make(map[[2]int]int, len(ms))
	for _, m := range ms {
		seen[[2]int{m.Year, m.Month}]++
	}
	for key, n := range seen {
		if n > 1 {
			p.errorf("%d-%02d: %d duplicate records", key[0], key[1], n)
		}
	}
	for y := d.MinYear; y <= d.MaxYear; y++ {
		var missing []string
		for m := 1; m <= 12; m++ {
			if seen[[2]int{y, m}] == 0 {
				name, _ := heatmap.MonthName(m)
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			p.errorf("%d: missing %v", y, missing)
		}
	}
	return p
}

func validateOrdering(ms []heatmap.Measurement) *phase {
	p := &phase{name: "Phase 3: Chronological order"}
	for i := 1; i < len(ms); i++ {
		prev, cur := ms[i-1], ms[i]
		if cur.Year < prev.Year || (cur.Year == prev.Year && cur.Month <= prev.Month) {
			p.errorf("record %d (%d-%02d) follows %d-%02d", i, cur.Year, cur.Month, prev.Year, prev.Month)
		}
	}
	return p
}

func validateProjection(ds heatmap.Dataset) *phase {
	p := &phase{name: "Phase 4: Projection bounds"}
	if len(ds.Measurements) == 0 {
		p.errorf("%v", heatmap.ErrEmptyDataset)
		return p
	}

	layout := heatmap.DefaultLayout()
	palette := heatmap.DefaultPalette()
	snap, err := heatmap.BuildSnapshot(ds, layout, palette)
	if err != nil {
		p.errorf("build snapshot: %v", err)
		return p
	}

	colors := make(map[string]bool, len(palette.Buckets()))
	for _, b := range palette.Buckets() {
		colors[b.Color] = true
	}
	right, bottom := layout.InnerWidth(), layout.InnerHeight()
	for _, c := range snap.Cells {
		if c.X < -tolerance || c.X+c.Width > right+tolerance {
			p.errorf("%d-%02d: x %.2f..%.2f outside 0..%.2f", c.Year, c.Month, c.X, c.X+c.Width, right)
		}
		if c.Y < layout.LegendHeight-tolerance || c.Y+c.Height > bottom+tolerance {
			p.errorf("%d-%02d: y %.2f..%.2f outside %.2f..%.2f", c.Year, c.Month, c.Y, c.Y+c.Height, layout.LegendHeight, bottom)
		}
		if !colors[c.Color] {
			p.errorf("%d-%02d: color %s not in palette", c.Year, c.Month, c.Color)
		}
	}
	return p
}

func validateSnapshot(ds heatmap.Dataset, path string) *phase {
	p := &phase{name: "Phase 5: Snapshot fixture"}

	var want heatmap.Snapshot
	if err := loadJSON(path, &want); err != nil {
		p.errorf("load snapshot: %v", err)
		return p
	}
	got, err := heatmap.BuildSnapshot(ds, want.Layout, heatmap.DefaultPalette())
	if err != nil {
		p.errorf("build snapshot: %v", err)
		return p
	}

	if diff := cmp.Diff(want, *got, cmpopts.EquateApprox(0, tolerance)); diff != "" {
		p.errorf("snapshot mismatch (-fixture +rendered):\n%s", diff)
	}
	return p
}
