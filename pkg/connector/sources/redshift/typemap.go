package redshift

import (
	"strings"

	"github.com/ajitpratap0/redshift-connect/pkg/connector/core"
)

// mapRedshiftType maps a Redshift column type to a normalized field type.
// Matching is case-insensitive and exhaustive over the types Redshift can
// report through information_schema; anything unrecognized falls back to
// string. Precision and scale are only meaningful for numeric/decimal and
// default to (18, 0) when the catalog reports none. charMaxLen is part of
// the column descriptor contract but does not influence the mapping.
func mapRedshiftType(typeName string, precision, scale, charMaxLen *int64) (core.FieldType, int, int) {
	switch strings.ToLower(typeName) {
	// Integer types widen to 64-bit to avoid overflow
	case "smallint", "int2", "integer", "int", "int4", "bigint", "int8":
		return core.FieldTypeInt, 0, 0

	case "numeric", "decimal":
		p, sc := int64(18), int64(0)
		if precision != nil {
			p = *precision
		}
		if scale != nil {
			sc = *scale
		}
		return core.FieldTypeDecimal, int(p), int(sc)

	case "real", "float4":
		return core.FieldTypeFloat32, 0, 0
	case "double precision", "float8", "float":
		return core.FieldTypeFloat64, 0, 0

	case "boolean", "bool":
		return core.FieldTypeBool, 0, 0

	case "character", "char", "bpchar", "character varying", "varchar", "text":
		return core.FieldTypeString, 0, 0

	case "date":
		return core.FieldTypeDate, 0, 0
	case "timestamp", "timestamp without time zone", "timestamptz", "timestamp with time zone":
		return core.FieldTypeTimestamp, 0, 0

	// No native time-only or interval representation
	case "time", "time without time zone", "timetz", "time with time zone", "interval":
		return core.FieldTypeString, 0, 0

	case "varbyte":
		return core.FieldTypeBinary, 0, 0

	// Opaque semi-structured, spatial and sketch types
	case "super", "geometry", "geography", "hllsketch":
		return core.FieldTypeString, 0, 0

	default:
		return core.FieldTypeString, 0, 0
	}
}
