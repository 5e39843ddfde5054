// Package models provides the data models shared between connectors and the
// host pipeline. A Record is one row of source data keyed by column name,
// plus metadata describing where and when it was captured.
package models

import "time"

// RecordMetadata carries provenance information for a record.
type RecordMetadata struct {
	// Source identifies the origin connector
	Source string `json:"source,omitempty"`
	// Table is the qualified table the record was read from
	Table string `json:"table,omitempty"`
	// Timestamp is when the record was captured
	Timestamp time.Time `json:"timestamp"`
}

// Record is a single row produced by a source connector. Data maps column
// names to normalized scalar values (nil, bool, int64, float64, string).
type Record struct {
	Data     map[string]interface{} `json:"data"`
	Metadata RecordMetadata         `json:"metadata"`
}

// NewRecord creates a record for the given source connector.
func NewRecord(source string) *Record {
	return &Record{
		Data: make(map[string]interface{}),
		Metadata: RecordMetadata{
			Source: source,
		},
	}
}

// SetData sets a data field on the record.
func (r *Record) SetData(key string, value interface{}) {
	if r.Data == nil {
		r.Data = make(map[string]interface{})
	}
	r.Data[key] = value
}

// GetData retrieves a data field from the record.
func (r *Record) GetData(key string) (interface{}, bool) {
	if r.Data == nil {
		return nil, false
	}
	val, ok := r.Data[key]
	return val, ok
}

// SetTable records the qualified table the record came from.
func (r *Record) SetTable(table string) {
	r.Metadata.Table = table
}

// SetTimestamp records when the record was captured.
func (r *Record) SetTimestamp(ts time.Time) {
	r.Metadata.Timestamp = ts
}
