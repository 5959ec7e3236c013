/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package column

import (
	"math"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/rowmapper/errors"
)

// sampleValues holds one decoded value per wire type, shaped the way stores decode them.
var sampleValues = map[Type]any{
	Boolean:   true,
	Int:       int32(7),
	Bigint:    int64(7),
	Counter:   int64(7),
	Varint:    big.NewInt(7),
	Float:     float32(1.5),
	Double:    float64(1.5),
	Decimal:   big.NewFloat(1.5),
	Text:      "text",
	Ascii:     "ascii",
	Varchar:   "varchar",
	UUID:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
	TimeUUID:  uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
	Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	Blob:      []byte{1, 2, 3},
	Inet:      net.ParseIP("10.0.0.1"),
	List:      []any{"a"},
	Set:       []any{"a"},
	Map:       map[any]any{"a": 1},
}

func TestCoerceIsTotal(t *testing.T) {
	for _, wire := range Types() {
		for _, kind := range Kinds() {
			v, err := Coerce(wire, sampleValues[wire], kind)
			if err == nil {
				assert.IsType(t, kind.Zero(), v, "%s -> %s", wire, kind)
				continue
			}
			assert.Nil(t, v)
			assert.True(t,
				errors.IsTypeMismatch(err) || errors.IsRangeError(err) || errors.IsUnsupportedType(err),
				"%s -> %s returned unexpected error %v", wire, kind, err)
		}
	}
}

func TestCoercePassThrough(t *testing.T) {
	id := uuid.New()
	ts := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name   string
		wire   Type
		value  any
		target Kind
		want   any
	}{
		{"uuid", UUID, id, KindUUID, id},
		{"timeuuid", TimeUUID, id, KindUUID, id},
		{"text", Text, "Zomg", KindText, "Zomg"},
		{"ascii", Ascii, "Zomg", KindText, "Zomg"},
		{"varchar", Varchar, "Zomg", KindText, "Zomg"},
		{"boolean", Boolean, true, KindBoolean, true},
		{"int", Int, int32(3), KindInt32, int32(3)},
		{"bigint", Bigint, int64(3), KindInt64, int64(3)},
		{"counter", Counter, int64(3), KindInt64, int64(3)},
		{"double", Double, 2.5, KindDouble, 2.5},
		{"float widens", Float, float32(2.5), KindDouble, 2.5},
		{"timestamp", Timestamp, ts, KindTimestamp, ts},
		{"blob", Blob, []byte("x"), KindBlob, []byte("x")},
		{"int widens to int64", Int, int32(-5), KindInt64, int64(-5)},
		{"int widens to varint", Int, int32(-5), KindVarint, big.NewInt(-5)},
		{"bigint widens to varint", Bigint, int64(9), KindVarint, big.NewInt(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.wire, tt.value, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceVarintRange(t *testing.T) {
	tests := []struct {
		name    string
		value   *big.Int
		target  Kind
		inRange bool
	}{
		{"int32 max", big.NewInt(math.MaxInt32), KindInt32, true},
		{"int32 min", big.NewInt(math.MinInt32), KindInt32, true},
		{"int32 max+1", big.NewInt(math.MaxInt32 + 1), KindInt32, false},
		{"int32 min-1", big.NewInt(math.MinInt32 - 1), KindInt32, false},
		{"int64 max", big.NewInt(math.MaxInt64), KindInt64, true},
		{"int64 min", big.NewInt(math.MinInt64), KindInt64, true},
		{"int64 max+1", new(big.Int).Add(big.NewInt(math.MaxInt64), big.NewInt(1)), KindInt64, false},
		{"int64 min-1", new(big.Int).Sub(big.NewInt(math.MinInt64), big.NewInt(1)), KindInt64, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(Varint, tt.value, tt.target)
			if !tt.inRange {
				require.Error(t, err)
				assert.True(t, errors.IsRangeError(err), "expected RangeError, got %v", err)
				return
			}
			require.NoError(t, err)
			switch tt.target {
			case KindInt32:
				assert.Equal(t, tt.value.Int64(), int64(got.(int32)))
			case KindInt64:
				assert.Equal(t, tt.value.Int64(), got.(int64))
			}
		})
	}
}

func TestCoerceBigintIntoInt32(t *testing.T) {
	for _, wire := range []Type{Bigint, Counter} {
		got, err := Coerce(wire, int64(math.MaxInt32), KindInt32)
		require.NoError(t, err)
		assert.Equal(t, int32(math.MaxInt32), got)

		_, err = Coerce(wire, int64(math.MaxInt32)+1, KindInt32)
		assert.True(t, errors.IsRangeError(err), "%s: expected RangeError, got %v", wire, err)

		_, err = Coerce(wire, int64(math.MinInt32)-1, KindInt32)
		assert.True(t, errors.IsRangeError(err), "%s: expected RangeError, got %v", wire, err)
	}
}

func TestCoerceIntWideningAlwaysSucceeds(t *testing.T) {
	for _, n := range []int32{math.MinInt32, -1, 0, 1, math.MaxInt32} {
		got, err := Coerce(Int, n, KindInt64)
		require.NoError(t, err)
		assert.Equal(t, int64(n), got)
	}
}

func TestCoerceCollectionsUnsupported(t *testing.T) {
	for _, wire := range []Type{List, Set, Map} {
		for _, kind := range Kinds() {
			_, err := Coerce(wire, sampleValues[wire], kind)
			assert.True(t, errors.IsUnsupportedType(err), "%s -> %s: %v", wire, kind, err)
		}
	}
}

func TestCoerceMismatchNamesBothTypes(t *testing.T) {
	_, err := Coerce(Boolean, true, KindText)
	require.Error(t, err)

	var tm *errors.TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "bool", tm.ValueType)
	assert.Equal(t, "text", tm.Target)
}

func TestCoerceShapeMustMatchTag(t *testing.T) {
	// A text tag carrying a non-string value is a store bug, not a pass-through.
	_, err := Coerce(Text, int32(1), KindText)
	assert.True(t, errors.IsTypeMismatch(err))

	_, err = Coerce(Varint, int64(1), KindInt32)
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestCoerceNullIsZero(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := Coerce(Text, nil, kind)
		require.NoError(t, err)
		assert.Equal(t, kind.Zero(), got)
	}

	got, err := Coerce(Varint, (*big.Int)(nil), KindInt32)
	require.NoError(t, err)
	assert.Equal(t, int32(0), got)
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"varint":     Varint,
		"TEXT":       Text,
		" uuid ":     UUID,
		"set<text>":  Set,
		"map<a,b>":   Map,
		"timestamp":  Timestamp,
		"counter":    Counter,
		"list<uuid>": List,
	}
	for name, want := range tests {
		got, err := ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseType("tinyint")
	assert.Error(t, err)
}
