package types

import (
	"strconv"
	"time"
)

// Encoders render typed values as storage terms for remote engines. Each is
// injective over the values its parser produces.

// EncodeInteger renders v in base 10.
func EncodeInteger(v int64) string { return strconv.FormatInt(v, 10) }

// EncodeUnsigned renders v in base 10.
func EncodeUnsigned(v uint64) string { return strconv.FormatUint(v, 10) }

// EncodeFloat renders the shortest representation that round-trips.
func EncodeFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// EncodeBool renders "true" or "false".
func EncodeBool(v bool) string { return strconv.FormatBool(v) }

// EncodeDate renders the UTC day.
func EncodeDate(v time.Time) string { return v.UTC().Format(time.DateOnly) }

// EncodeKeyword returns v unchanged.
func EncodeKeyword(v string) string { return v }
