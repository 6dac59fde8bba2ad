package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name     string
		num, den string
		want     int
	}{
		{"zero denominator", "10", "0", 0},
		{"exact", "1", "4", 25},
		{"12.5 rounds up", "1", "8", 13},
		{"-2.5 rounds toward +inf", "-1", "40", -2},
		{"negative growth", "-50", "100", -50},
		{"above hundred", "3", "2", 150},
		{"two thirds", "2", "3", 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, percentOf(dec(tt.num), dec(tt.den)))
		})
	}
}

func TestRatePercent(t *testing.T) {
	assert.Equal(t, 0, ratePercent(5, 0))
	assert.Equal(t, 0, ratePercent(0, -1))
	assert.Equal(t, 90, ratePercent(9, 10))
	assert.Equal(t, 67, ratePercent(2, 3))
	assert.Equal(t, 100, ratePercent(7, 7))
}

func TestMaxDecimal(t *testing.T) {
	assert.True(t, maxDecimal(dec("-3"), dec("0")).IsZero())
	assert.True(t, maxDecimal(dec("4.5"), dec("1")).Equal(dec("4.5")))
}
