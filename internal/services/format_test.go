package services

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value  float64
		prefix string
		want   string
	}{
		{0, "", " 0.00 "},
		{999, "", " 999.00 "},
		{999.994, "", " 999.99 "},
		{1000, "", " 1.00 mil"},
		{1_500_000, "", " 1.50 milhões"},
		{2_500_000_000, "", " 2500.00 milhões"},
		{123_456.789, "R$", "R$ 123.46 mil"},
		{-1500, "", " -1.50 mil"},
		{-42, "R$", "R$ -42.00 "},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.value, tt.prefix); got != tt.want {
			t.Errorf("FormatNumber(%v, %q) = %q, want %q", tt.value, tt.prefix, got, tt.want)
		}
	}
}
