package heatmap

import (
	"strconv"
	"time"
)

// Months is the canonical vertical domain, January first.
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Domain holds the inputs the scales accept.
type Domain struct {
	MinYear int      `json:"minYear"`
	MaxYear int      `json:"maxYear"`
	Months  []string `json:"months"`
}

// CalculateDomain scans measurements once for the year extent. The month
// domain is always the full January..December list.
func CalculateDomain(ms []Measurement) (Domain, error) {
	if len(ms) == 0 {
		return Domain{}, ErrEmptyDataset
	}
	lo, hi := ms[0].Year, ms[0].Year
	for _, m := range ms[1:] {
		if m.Year < lo {
			lo = m.Year
		}
		if m.Year > hi {
			hi = m.Year
		}
	}
	return Domain{MinYear: lo, MaxYear: hi, Months: Months[:]}, nil
}

// YearSpan returns MaxYear-MinYear, or 1 for a single-year domain.
func (d Domain) YearSpan() int {
	if span := d.MaxYear - d.MinYear; span > 0 {
		return span
	}
	return 1
}

// MonthName returns the canonical name for a 1-based month number.
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", &ParseError{Field: "month", Value: strconv.Itoa(month), Reason: "out of range 1..12"}
	}
	return time.Month(month).String(), nil
}

// monthIndex returns the 0-based band index of a month name.
func monthIndex(name string) (int, bool) {
	for i, m := range Months {
		if m == name {
			return i, true
		}
	}
	return 0, false
}
