/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package column

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"net"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/rowmapper/errors"
)

// Encode converts a Go value bound for a column of type wire into the
// native wire value stores keep for that type. Integers are range checked
// against the column width; strings are accepted for uuid, inet and decimal
// columns when they parse. Timestamps are kept at millisecond precision.
func Encode(wire Type, v any) (any, error) {
	if wire.IsCollection() || !wire.Valid() {
		return nil, errors.NewUnsupportedTypeError("", wire.String())
	}
	if isNull(v) {
		return nil, nil
	}

	switch wire {
	case Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}

	case Int:
		if n, ok := toBig(v); ok {
			if n.Cmp(minInt32) < 0 || n.Cmp(maxInt32) > 0 {
				return nil, errors.NewRangeError("", fmt.Sprintf("%T", v), wire.String(), n.String())
			}
			return int32(n.Int64()), nil
		}

	case Bigint, Counter:
		if n, ok := toBig(v); ok {
			if !n.IsInt64() {
				return nil, errors.NewRangeError("", fmt.Sprintf("%T", v), wire.String(), n.String())
			}
			return n.Int64(), nil
		}

	case Varint:
		if n, ok := toBig(v); ok {
			return n, nil
		}

	case Float:
		switch x := v.(type) {
		case float32:
			return x, nil
		case float64:
			if math.Abs(x) > math.MaxFloat32 && !math.IsInf(x, 0) {
				return nil, errors.NewRangeError("", "float64", wire.String(), strconv.FormatFloat(x, 'g', -1, 64))
			}
			return float32(x), nil
		}

	case Double:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		}

	case Decimal:
		switch x := v.(type) {
		case *big.Float:
			return new(big.Float).Copy(x), nil
		case float64:
			if !math.IsNaN(x) {
				return big.NewFloat(x), nil
			}
		case string:
			if f, ok := new(big.Float).SetString(x); ok {
				return f, nil
			}
		}

	case Text, Varchar:
		if s, ok := v.(string); ok {
			return s, nil
		}

	case Ascii:
		if s, ok := v.(string); ok {
			for i := 0; i < len(s); i++ {
				if s[i] > 0x7f {
					return nil, errors.NewTypeMismatchError("", "non-ascii string", wire.String())
				}
			}
			return s, nil
		}

	case UUID, TimeUUID:
		var id uuid.UUID
		switch x := v.(type) {
		case uuid.UUID:
			id = x
		case [16]byte:
			id = uuid.UUID(x)
		case string:
			parsed, err := uuid.Parse(x)
			if err != nil {
				return nil, errors.NewTypeMismatchError("", fmt.Sprintf("string %q", x), wire.String())
			}
			id = parsed
		default:
			return nil, errors.NewTypeMismatchError("", fmt.Sprintf("%T", v), wire.String())
		}
		if wire == TimeUUID && id.Version() != 1 {
			return nil, errors.NewTypeMismatchError("", fmt.Sprintf("uuid version %d", id.Version()), wire.String())
		}
		return id, nil

	case Timestamp:
		switch x := v.(type) {
		case time.Time:
			return x.UTC().Truncate(time.Millisecond), nil
		case strfmt.DateTime:
			return time.Time(x).UTC().Truncate(time.Millisecond), nil
		}

	case Blob:
		if b, ok := v.([]byte); ok {
			return append([]byte(nil), b...), nil
		}

	case Inet:
		switch x := v.(type) {
		case net.IP:
			return x, nil
		case string:
			if ip := net.ParseIP(x); ip != nil {
				return ip, nil
			}
		}
	}

	return nil, errors.NewTypeMismatchError("", fmt.Sprintf("%T", v), wire.String())
}

// Format renders a native wire value in its canonical text form. The text
// form is what string oriented backends store and what keys are built from.
func Format(wire Type, v any) (string, error) {
	native, err := Encode(wire, v)
	if err != nil {
		return "", err
	}
	if native == nil {
		return "", errors.NewValidationError(wire.String(), "null has no text form")
	}

	switch x := native.(type) {
	case bool:
		return strconv.FormatBool(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case *big.Int:
		return x.String(), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case *big.Float:
		return x.Text('g', -1), nil
	case string:
		return x, nil
	case uuid.UUID:
		return x.String(), nil
	case time.Time:
		return strfmt.DateTime(x).String(), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(x), nil
	case net.IP:
		return x.String(), nil
	}
	return "", errors.NewTypeMismatchError("", fmt.Sprintf("%T", native), wire.String())
}

// Parse decodes the canonical text form of a wire value.
func Parse(wire Type, s string) (any, error) {
	switch wire {
	case Boolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return b, nil
	case Int:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return int32(n), nil
	case Bigint, Counter:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return n, nil
	case Varint:
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, parseError(wire, s, nil)
		}
		return n, nil
	case Float:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return float32(f), nil
	case Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return f, nil
	case Decimal:
		f, ok := new(big.Float).SetString(s)
		if !ok {
			return nil, parseError(wire, s, nil)
		}
		return f, nil
	case Text, Ascii, Varchar:
		return s, nil
	case UUID, TimeUUID:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return id, nil
	case Timestamp:
		dt, err := strfmt.ParseDateTime(s)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return time.Time(dt).UTC(), nil
	case Blob:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, parseError(wire, s, err)
		}
		return b, nil
	case Inet:
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, parseError(wire, s, nil)
		}
		return ip, nil
	}
	return nil, errors.NewUnsupportedTypeError("", wire.String())
}

func parseError(wire Type, s string, cause error) error {
	msg := fmt.Sprintf("cannot parse %q", s)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return errors.NewValidationError(wire.String(), msg)
}

// toBig widens any Go integer to a big.Int.
func toBig(v any) (*big.Int, bool) {
	switch x := v.(type) {
	case int:
		return big.NewInt(int64(x)), true
	case int8:
		return big.NewInt(int64(x)), true
	case int16:
		return big.NewInt(int64(x)), true
	case int32:
		return big.NewInt(int64(x)), true
	case int64:
		return big.NewInt(x), true
	case uint:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint8:
		return big.NewInt(int64(x)), true
	case uint16:
		return big.NewInt(int64(x)), true
	case uint32:
		return big.NewInt(int64(x)), true
	case uint64:
		return new(big.Int).SetUint64(x), true
	case *big.Int:
		return new(big.Int).Set(x), true
	}
	return nil, false
}
