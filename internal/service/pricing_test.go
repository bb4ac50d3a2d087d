package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellingPrice(t *testing.T) {
	cases := map[string]string{
		"1000": "1650", // 1000*1.4*1.19 = 1666 -> 33.32 units of 50 -> 33
		"0":    "0",
		"-5":   "0",
		"850":  "1400", // 1416.1 -> 28.32 -> 28
		"30":   "50",   // 49.98 -> 0.9996 -> 1
	}
	for cost, want := range cases {
		assert.Equal(t, want, SellingPrice(dec(cost)).String(), "cost %s", cost)
	}
}

func TestNetAmount(t *testing.T) {
	assert.Equal(t, "2521.01", NetAmount(dec("3000")).String())
	assert.Equal(t, "1000", NetAmount(dec("1190")).String())
	assert.Equal(t, "0", NetAmount(dec("0")).String())
}
