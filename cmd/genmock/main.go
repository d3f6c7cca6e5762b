// Command genmock generates a synthetic monthly-variance dataset in the same
// shape as the published land-surface temperature document, plus the
// snapshot the pipeline would render from it. Test fixtures and offline
// demos use it when the real dataset is not reachable.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -from 1753 -to 2015 \
//	  -dataset-out data/mock/global-temperature.json \
//	  -snapshot-out data/mock/snapshot.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	from := flag.Int("from", 1753, "first year")
	to := flag.Int("to", 2015, "last year")
	base := flag.Float64("base", 8.66, "base temperature in degrees Celsius")
	seed := flag.Uint64("seed", 42, "random seed")
	malformed := flag.Int("malformed", 0, "number of malformed records to append")
	datasetOut := flag.String("dataset-out", "", "output path for the raw dataset JSON")
	snapshotOut := flag.String("snapshot-out", "", "optional output path for the rendered snapshot JSON")
	flag.Parse()

	if *datasetOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -dataset-out")
	}
	if *from > *to {
		return fmt.Errorf("-from %d is after -to %d", *from, *to)
	}

	raw := generate(*from, *to, *base, *seed)
	raw.MonthlyVariance = append(raw.MonthlyVariance, malformedRecords(*malformed, *to)...)
	log.Printf("generated %d records (%d malformed)", len(raw.MonthlyVariance), *malformed)

	if err := writeJSON(*datasetOut, raw); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote dataset: %s", *datasetOut)

	if *snapshotOut == "" {
		return nil
	}

	// Fixed clock for a reproducible GeneratedAt.
	heatmap.SetClock(clockwork.NewFakeClockAt(time.Date(2015, time.December, 31, 0, 0, 0, 0, time.UTC)))
	defer heatmap.SetClock(nil)

	ds, skipped, err := heatmap.ParseDataset(raw, true)
	if err != nil {
		return fmt.Errorf("parse generated dataset: %w", err)
	}
	snap, err := heatmap.BuildSnapshot(ds, heatmap.DefaultLayout(), heatmap.DefaultPalette())
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	if err := writeJSON(*snapshotOut, snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	log.Printf("wrote snapshot: %s (%d cells, %d skipped)", *snapshotOut, len(snap.Cells), len(skipped))

	printStats(snap)
	return nil
}

// generate produces one record per month with a seasonal swing, a slow
// warming trend, and uniform noise.
func generate(from, to int, base float64, seed uint64) heatmap.RawDataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	years := to - from + 1
	raw := heatmap.RawDataset{
		BaseTemperature: base,
		MonthlyVariance: make([]heatmap.RawRecord, 0, years*12),
	}
	for y := from; y <= to; y++ {
		trend := 1.5 * float64(y-from) / float64(max(years-1, 1))
		for m := 1; m <= 12; m++ {
			seasonal := -1.2 * math.Cos(2*math.Pi*float64(m-1)/12)
			noise := rng.Float64()*2 - 1
			v := math.Round((trend+seasonal+noise-0.75)*1000) / 1000
			raw.MonthlyVariance = append(raw.MonthlyVariance, heatmap.RawRecord{
				Year:     json.Number(fmt.Sprint(y)),
				Month:    json.Number(fmt.Sprint(m)),
				Variance: v,
			})
		}
	}
	return raw
}

// malformedRecords cycles through the ways a record can fail parsing.
func malformedRecords(n, lastYear int) []heatmap.RawRecord {
	out := make([]heatmap.RawRecord, 0, n)
	for i := range n {
		var rec heatmap.RawRecord
		switch i % 3 {
		case 0:
			rec = heatmap.RawRecord{Year: json.Number(fmt.Sprint(lastYear)), Month: "13"}
		case 1:
			rec = heatmap.RawRecord{Year: "999", Month: "1"}
		default:
			rec = heatmap.RawRecord{Year: json.Number(fmt.Sprint(lastYear)), Month: "0"}
		}
		out = append(out, rec)
	}
	return out
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(snap *heatmap.Snapshot) {
	counts := make(map[string]int, len(snap.Legend))
	minT, maxT := math.Inf(1), math.Inf(-1)
	for _, c := range snap.Cells {
		counts[c.Color]++
		minT = math.Min(minT, c.AbsoluteTemperature)
		maxT = math.Max(maxT, c.AbsoluteTemperature)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Years: %d - %d\n", snap.Domain.MinYear, snap.Domain.MaxYear)
	fmt.Printf("Cells: %d\n", len(snap.Cells))
	fmt.Printf("Temperature: min=%.3f max=%.3f\n", minT, maxT)
	fmt.Println("By bucket:")
	for _, b := range snap.Legend {
		fmt.Printf("  >%-5g %s %d\n", b.Threshold, b.Color, counts[b.Color])
	}
}
