package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDomain(t *testing.T) {
	t.Run("min and max year", func(t *testing.T) {
		ms := []Measurement{
			{Year: 1800, Month: 3},
			{Year: 1753, Month: 1},
			{Year: 2015, Month: 12},
			{Year: 1900, Month: 6},
		}
		d, err := CalculateDomain(ms)
		require.NoError(t, err)
		assert.Equal(t, 1753, d.MinYear)
		assert.Equal(t, 2015, d.MaxYear)
		assert.Equal(t, 262, d.YearSpan())
		assert.Equal(t, Months[:], d.Months)
	})

	t.Run("single year clamps span", func(t *testing.T) {
		d, err := CalculateDomain([]Measurement{{Year: 1900, Month: 1}, {Year: 1900, Month: 2}})
		require.NoError(t, err)
		assert.Equal(t, 1900, d.MinYear)
		assert.Equal(t, 1900, d.MaxYear)
		assert.Equal(t, 1, d.YearSpan())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := CalculateDomain(nil)
		require.ErrorIs(t, err, ErrEmptyDataset)
	})
}

func TestMonthName(t *testing.T) {
	name, err := MonthName(1)
	require.NoError(t, err)
	assert.Equal(t, "January", name)

	name, err = MonthName(12)
	require.NoError(t, err)
	assert.Equal(t, "December", name)

	for i, m := range Months {
		got, err := MonthName(i + 1)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err = MonthName(0)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "0", perr.Value)
}
