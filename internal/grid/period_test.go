package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPeriod(t *testing.T) {
	t.Run("abbreviation with 4-digit year", func(t *testing.T) {
		p, err := DetectPeriod([]string{"Griglia turni GEN 2024"})
		require.NoError(t, err)
		assert.Equal(t, time.January, p.Month)
		assert.Equal(t, 2024, p.Year)
		assert.Equal(t, 31, p.Days)
	})

	t.Run("full month name with separator", func(t *testing.T) {
		p, err := DetectPeriod([]string{"", "Turni reparto", "settembre-23"})
		require.NoError(t, err)
		assert.Equal(t, time.September, p.Month)
		assert.Equal(t, 2023, p.Year)
		assert.Equal(t, 30, p.Days)
	})

	t.Run("2-digit year expands with 20 prefix", func(t *testing.T) {
		p, err := DetectPeriod([]string{"feb 07"})
		require.NoError(t, err)
		assert.Equal(t, 2007, p.Year)
		assert.Equal(t, 28, p.Days)
	})

	t.Run("single digit is not a year", func(t *testing.T) {
		_, err := DetectPeriod([]string{"feb 7"})
		assert.ErrorIs(t, err, ErrPeriodNotFound)
	})

	t.Run("first matching cell wins", func(t *testing.T) {
		p, err := DetectPeriod([]string{"mag 2024", "giu 2024"})
		require.NoError(t, err)
		assert.Equal(t, time.May, p.Month)
	})

	t.Run("case insensitive", func(t *testing.T) {
		p, err := DetectPeriod([]string{"DICEMBRE_2025"})
		require.NoError(t, err)
		assert.Equal(t, time.December, p.Month)
		assert.Equal(t, 2025, p.Year)
		assert.Equal(t, 31, p.Days)
	})

	t.Run("leap february", func(t *testing.T) {
		p, err := DetectPeriod([]string{"feb 2024"})
		require.NoError(t, err)
		assert.Equal(t, 29, p.Days)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := DetectPeriod([]string{"turni", "reparto B", ""})
		assert.ErrorIs(t, err, ErrPeriodNotFound)
	})

	t.Run("empty header", func(t *testing.T) {
		_, err := DetectPeriod(nil)
		assert.ErrorIs(t, err, ErrPeriodNotFound)
	})
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, daysInMonth(tc.year, tc.month), "%s %d", tc.month, tc.year)
	}
}
