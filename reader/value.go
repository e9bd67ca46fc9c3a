package reader

import (
	"time"

	"github.com/parquet-go/parquet-go"
)

// julianUnixEpoch is the Julian day number of 1970-01-01.
const julianUnixEpoch = 2440588

type converter func(parquet.Value) any

// converterFor picks the decoding of a leaf column type. TIMESTAMP columns
// decode to time.Time in UTC; everything else goes through GoValue.
func converterFor(t parquet.Type) converter {
	lt := t.LogicalType()
	if lt == nil || lt.Timestamp == nil {
		return GoValue
	}

	unit := lt.Timestamp.Unit
	var toTime func(int64) time.Time
	switch {
	case unit.Nanos != nil:
		toTime = func(v int64) time.Time { return time.Unix(0, v) }
	case unit.Micros != nil:
		toTime = time.UnixMicro
	default:
		toTime = time.UnixMilli
	}

	return func(v parquet.Value) any {
		if v.IsNull() {
			return nil
		}
		return toTime(v.Int64()).UTC()
	}
}

// GoValue converts a parquet value to a plain Go value.
//
// Nulls become nil, byte arrays become strings and INT96 timestamps become
// time.Time. The result is comparable, so it can be used as a set member.
func GoValue(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}

	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Int96:
		i := v.Int96()
		nanos := int64(i[1])<<32 | int64(i[0])
		days := int64(i[2]) - julianUnixEpoch
		return time.Unix(days*86400, nanos).UTC()
	case parquet.Float:
		return v.Float()
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
