package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name    string
		last    int64
		current int64
		want    string
	}{
		{name: "no activity either month", last: 0, current: 0, want: "0.00"},
		{name: "activity from zero counts as full jump", last: 0, current: 500, want: "100.00"},
		{name: "doubled", last: 100, current: 200, want: "100.00"},
		{name: "halved", last: 200, current: 100, want: "-50.00"},
		{name: "unchanged", last: 300, current: 300, want: "0.00"},
		{name: "fractional result keeps two decimals", last: 300, current: 400, want: "33.33"},
		{name: "dropped to zero", last: 150, current: 0, want: "-100.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, percentChange(tc.last, tc.current))
		})
	}
}

func TestMonthStart(t *testing.T) {
	got := monthStart(time.Date(2025, 6, 15, 13, 45, 9, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)

	// First of the month is its own start.
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, first, monthStart(first))
}
