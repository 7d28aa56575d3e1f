package utils_test

import (
	"testing"

	"github.com/rtmsys/weighbridge_app/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestFormatWeight(t *testing.T) {
	testCases := []struct {
		name     string
		kg       float64
		expected string
	}{
		{name: "below grouping threshold", kg: 50, expected: "50.00"},
		{name: "thousands grouped", kg: 1250, expected: "1,250.00"},
		{name: "typical gross weight", kg: 12500, expected: "12,500.00"},
		{name: "fraction kept to two decimals", kg: 4450.5, expected: "4,450.50"},
		{name: "zero", kg: 0, expected: "0.00"},
		{name: "negative final net", kg: -50, expected: "-50.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, utils.FormatWeight(tc.kg))
		})
	}
}
