// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestExecutorCall(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		results   []error
		wantCalls int
		wantErr   error
	}{
		{"success", []error{nil}, 1, nil},
		{"plain error is not retried", []error{errBoom}, 1, errBoom},
		{"unauthorized then success", []error{fmt.Errorf("query: %w", ErrUnauthorized), nil}, 2, nil},
		{"unauthorized twice", []error{ErrUnauthorized, ErrUnauthorized, nil}, 2, ErrUnauthorized},
		{"unauthorized then other error", []error{ErrUnauthorized, errBoom}, 2, errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := NewExecutor(newTestSource(t, time.Hour), zerolog.New(io.Discard))

			var tokens []string
			err := exec.Call(context.Background(), func(_ context.Context, token string) error {
				tokens = append(tokens, token)
				return tt.results[len(tokens)-1]
			})

			if len(tokens) != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", len(tokens), tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Call() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Call() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantCalls == 2 && tokens[0] == tokens[1] {
				t.Error("retry reused the rejected credential")
			}
		})
	}
}

func TestExecutorRetriesWithVerifiedCredential(t *testing.T) {
	src := newTestSource(t, time.Hour)
	exec := NewExecutor(src, zerolog.New(io.Discard))

	first := true
	err := exec.Call(context.Background(), func(_ context.Context, token string) error {
		if first {
			first = false
			return ErrUnauthorized
		}
		_, err := src.Verify(token)
		return err
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
}
