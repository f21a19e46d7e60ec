// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package cache

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Key builds the cache key for prefix and params. Strings, booleans and
// numbers are written verbatim; other values are written as canonical JSON so
// that equal values always produce equal keys.
func Key(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(Stringify(p))
	}
	return b.String()
}

// Stringify renders one key parameter.
func Stringify(p interface{}) string {
	switch v := p.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		// UTC RFC 3339 drops the monotonic reading and the zone name.
		return v.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}

	canonical, err := CanonicalJSON(p)
	if err != nil {
		return fmt.Sprintf("%v", p)
	}
	return string(canonical)
}

// CanonicalJSON encodes v with object keys in sorted order at every depth.
// Struct fields become object keys, so two values with the same JSON content
// encode identically regardless of their Go type or field order.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal key param: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode key param: %w", err)
	}

	// Maps are encoded with sorted keys.
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("encode key param: %w", err)
	}
	return out, nil
}
