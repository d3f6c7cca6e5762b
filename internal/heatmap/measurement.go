package heatmap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is one entry of the dataset's monthlyVariance array as it arrives
// on the wire. Year and month accept both JSON numbers and numeric strings.
type RawRecord struct {
	Year     json.Number `json:"year"`
	Month    json.Number `json:"month"`
	Variance float64     `json:"variance"`
}

// RawDataset is the unvalidated dataset document.
type RawDataset struct {
	BaseTemperature float64     `json:"baseTemperature"`
	MonthlyVariance []RawRecord `json:"monthlyVariance"`
}

// Measurement is a validated monthly reading.
type Measurement struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Variance float64 `json:"variance"`
}

// Temperature returns the absolute temperature for the given base.
func (m Measurement) Temperature(base float64) float64 {
	return m.Variance + base
}

// Dataset is the parsed dataset. Measurements keep their source order.
type Dataset struct {
	BaseTemperature float64       `json:"baseTemperature"`
	Measurements    []Measurement `json:"measurements"`
}

// ParseMeasurement validates a raw record. Year must be a positive 4-digit
// value and month must be in 1..12.
func ParseMeasurement(rec RawRecord) (Measurement, error) {
	year, err := parseBoundedInt("year", rec.Year, 1000, 9999)
	if err != nil {
		return Measurement{}, err
	}
	month, err := parseBoundedInt("month", rec.Month, 1, 12)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Year: year, Month: month, Variance: rec.Variance}, nil
}

// ParseDataset parses every record of raw. With skipMalformed set, malformed
// records are dropped and reported in skipped; otherwise the first malformed
// record aborts parsing. Errors are wrapped with the record index and unwrap
// to *ParseError.
func ParseDataset(raw RawDataset, skipMalformed bool) (ds Dataset, skipped []error, err error) {
	ds = Dataset{
		BaseTemperature: raw.BaseTemperature,
		Measurements:    make([]Measurement, 0, len(raw.MonthlyVariance)),
	}
	for i, rec := range raw.MonthlyVariance {
		m, perr := ParseMeasurement(rec)
		if perr != nil {
			perr = fmt.Errorf("record %d: %w", i, perr)
			if !skipMalformed {
				return Dataset{}, nil, perr
			}
			skipped = append(skipped, perr)
			continue
		}
		ds.Measurements = append(ds.Measurements, m)
	}
	return ds, skipped, nil
}

func parseBoundedInt(field string, n json.Number, lo, hi int) (int, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, &ParseError{Field: field, Value: s, Reason: "missing value"}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Field: field, Value: s, Reason: "not an integer"}
	}
	if v < lo || v > hi {
		return 0, &ParseError{Field: field, Value: s, Reason: fmt.Sprintf("out of range %d..%d", lo, hi)}
	}
	return v, nil
}
