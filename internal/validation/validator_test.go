// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package validation

import (
	"math"
	"strings"
	"testing"
)

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestFiniteRuleRegistered(t *testing.T) {
	v := GetValidator()
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := v.Var(bad, "finite"); err == nil {
			t.Errorf("finite accepted %v", bad)
		}
	}
	if err := v.Var(0.25, "finite"); err != nil {
		t.Errorf("finite rejected 0.25: %v", err)
	}
}

func TestRecommendationsRequest(t *testing.T) {
	const user = "6f1c2f5e-8d44-4e5c-9a8e-2b7f0a1d3c11"
	tests := []struct {
		name      string
		req       RecommendationsRequest
		wantField string
	}{
		{"valid", RecommendationsRequest{UserID: user, Limit: 20}, ""},
		{"missing user", RecommendationsRequest{Limit: 20}, "userID"},
		{"bad uuid", RecommendationsRequest{UserID: "bob", Limit: 20}, "userID"},
		{"zero limit", RecommendationsRequest{UserID: user, Limit: 0}, "limit"},
		{"limit too high", RecommendationsRequest{UserID: user, Limit: 101}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if got := err.Fields()[0].Field; got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestWeightsPatchRequest(t *testing.T) {
	big := 3.0
	if err := ValidateStruct(&WeightsPatchRequest{Price: &big}); err != nil {
		t.Errorf("out-of-range weight rejected: %v", err)
	}

	nan := math.NaN()
	err := ValidateStruct(&WeightsPatchRequest{Category: &nan})
	if err == nil {
		t.Fatal("NaN weight accepted")
	}
	if !strings.Contains(err.Error(), "category must be a finite number") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&RecommendationsRequest{UserID: "x", Limit: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details = %v, want two fields", apiErr.Details)
	}

	single := ValidateStruct(&UserRequest{}).ToAPIError()
	if single.Message != "userID is required" || single.Details["field"] != "userID" {
		t.Errorf("single = %+v", single)
	}
}
