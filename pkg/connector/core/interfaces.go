package core

import (
	"context"

	"github.com/ajitpratap0/redshift-connect/pkg/config"
	"github.com/ajitpratap0/redshift-connect/pkg/models"
)

// ConnectorType represents the type of connector
type ConnectorType string

const (
	ConnectorTypeSource ConnectorType = "source"
)

// TableOptions carries per-table read options from the host pipeline.
// Recognized keys are connector-specific; this connector understands
// "where_clause" (raw SQL fragment) and "limit" (integer row cap).
type TableOptions map[string]string

// Offset is the resumption state a source hands back after a read. Snapshot
// sources return an empty offset since there is nothing to resume from.
type Offset map[string]interface{}

// IngestionType describes how a source delivers table data.
type IngestionType string

const (
	// IngestionTypeSnapshot means every read is a full table scan
	IngestionTypeSnapshot IngestionType = "snapshot"
)

// Schema represents the normalized schema of a table. Field order matches
// the warehouse's column ordinal position.
type Schema struct {
	Name   string
	Fields []Field
}

// Field represents a column in the normalized schema. Precision and Scale
// are meaningful only for FieldTypeDecimal.
type Field struct {
	Name      string
	Type      FieldType
	Nullable  bool
	Precision int
	Scale     int
}

// FieldType represents the normalized data type of a field
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int" // 64-bit
	FieldTypeFloat32   FieldType = "float32"
	FieldTypeFloat64   FieldType = "float64"
	FieldTypeDecimal   FieldType = "decimal"
	FieldTypeBool      FieldType = "bool"
	FieldTypeDate      FieldType = "date"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeBinary    FieldType = "binary"
)

// TableMetadata describes ingestion-relevant table properties.
type TableMetadata struct {
	// PrimaryKeys lists primary-key column names in ordinal order; empty
	// when the table has no primary key.
	PrimaryKeys []string `json:"primary_keys"`
	// IngestionType is how reads of this table behave
	IngestionType IngestionType `json:"ingestion_type"`
}

// RecordStream represents a lazy, finite, non-restartable stream of records.
// A mid-stream failure is delivered on Errors before the channels close so
// the consumer knows the stream is incomplete.
type RecordStream struct {
	Records <-chan *models.Record
	Errors  <-chan error
}

// Source is the interface all source connectors expose to the host pipeline.
type Source interface {
	// Lifecycle
	Initialize(ctx context.Context, cfg *config.Config) error
	Close(ctx context.Context) error

	// Catalog
	ListTables(ctx context.Context) ([]string, error)
	GetTableSchema(ctx context.Context, table string, opts TableOptions) (*Schema, error)
	ReadTableMetadata(ctx context.Context, table string, opts TableOptions) (*TableMetadata, error)

	// Data. startOffset is accepted for interface symmetry; snapshot
	// sources ignore it and return an empty final offset.
	ReadTable(ctx context.Context, table string, startOffset Offset, opts TableOptions) (*RecordStream, Offset, error)

	// Health and metrics
	Health(ctx context.Context) error
	Metrics() map[string]interface{}
}

// Connector is the base interface for all connectors
type Connector interface {
	Name() string
	Type() ConnectorType
	Version() string

	Initialize(ctx context.Context, cfg *config.Config) error
	Close(ctx context.Context) error
}

// ConnectorMetadata provides metadata about a connector
type ConnectorMetadata struct {
	Name         string                 `json:"name"`
	Type         ConnectorType          `json:"type"`
	Version      string                 `json:"version"`
	Description  string                 `json:"description"`
	Capabilities []string               `json:"capabilities"`
	ConfigSchema map[string]interface{} `json:"config_schema"`
}
