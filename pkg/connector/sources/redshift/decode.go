package redshift

import (
	"encoding/base64"

	"github.com/aws/aws-sdk-go-v2/service/redshiftdata/types"
)

// decodeField converts a Data API field value into a normalized scalar:
// nil, bool, int64, float64 or string. Binary values come back as the
// base64 encoding of the raw bytes. A null marker wins regardless of any
// other content, and an unrecognized union member decodes to nil.
func decodeField(field types.Field) interface{} {
	switch v := field.(type) {
	case *types.FieldMemberIsNull:
		return nil
	case *types.FieldMemberBooleanValue:
		return v.Value
	case *types.FieldMemberLongValue:
		return v.Value
	case *types.FieldMemberDoubleValue:
		return v.Value
	case *types.FieldMemberStringValue:
		return v.Value
	case *types.FieldMemberBlobValue:
		return base64.StdEncoding.EncodeToString(v.Value)
	default:
		return nil
	}
}

// fieldString decodes a field expected to hold a string; anything else
// yields the empty string.
func fieldString(field types.Field) string {
	s, _ := decodeField(field).(string)
	return s
}

// fieldInt64 decodes a field expected to hold an integer; a null or
// non-integer field yields nil. Used for the nullable precision and scale
// columns of the information schema.
func fieldInt64(field types.Field) *int64 {
	if n, ok := decodeField(field).(int64); ok {
		return &n
	}
	return nil
}
