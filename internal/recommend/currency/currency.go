// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package currency converts currency-tagged prices into the reference unit
// used for every price comparison.
package currency

import (
	"math"
	"strings"

	"github.com/tomtom215/swapmatch/internal/models"
)

// Rate returns the reference units per one unit of code. Unknown codes and
// unusable rates fall back to 1.
func Rate(code string, rates models.RateTable) float64 {
	r, ok := rates[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Normalize converts amount in currency code into the reference unit.
func Normalize(amount float64, code string, rates models.RateTable) float64 {
	return amount * Rate(code, rates)
}

// ToReference converts m into the reference unit.
func ToReference(m models.Money, rates models.RateTable) float64 {
	return Normalize(m.Amount, m.Currency, rates)
}

// FromReference converts a reference-unit amount into currency code,
// rounded to two decimals.
func FromReference(amount float64, code string, rates models.RateTable) models.Money {
	return models.Money{
		Amount:   math.Round(amount/Rate(code, rates)*100) / 100,
		Currency: code,
	}
}
