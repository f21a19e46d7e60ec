// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package currency

import (
	"math"
	"testing"

	"github.com/tomtom215/swapmatch/internal/models"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	rates := models.RateTable{"EUR": 1.1, "JPY": 0.007, "BAD": -3}

	tests := []struct {
		name   string
		amount float64
		code   string
		want   float64
	}{
		{"known code", 100, "EUR", 110},
		{"lower case code", 100, "eur", 110},
		{"missing code defaults to 1", 100, "GBP", 100},
		{"empty code", 42, "", 42},
		{"negative rate ignored", 10, "BAD", 10},
		{"zero amount", 0, "EUR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.amount, tt.code, rates); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%v, %q) = %v, want %v", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestNormalizeNilTable(t *testing.T) {
	t.Parallel()

	if got := Normalize(12.5, "USD", nil); got != 12.5 {
		t.Errorf("Normalize with nil table = %v, want 12.5", got)
	}
}

func TestFromReference(t *testing.T) {
	t.Parallel()

	rates := models.RateTable{"EUR": 2}
	got := FromReference(160, "EUR", rates)
	if math.Abs(got.Amount-80) > 1e-9 || got.Currency != "EUR" {
		t.Errorf("FromReference = %+v, want 80 EUR", got)
	}

	got = FromReference(ToReference(models.Money{Amount: 33.33, Currency: "EUR"}, rates), "EUR", rates)
	if math.Abs(got.Amount-33.33) > 1e-9 {
		t.Errorf("round trip = %v, want 33.33", got.Amount)
	}
}
