// Package redshift implements a source connector for Amazon Redshift built
// on the Redshift Data API. The Data API is stateless REST with an
// asynchronous execution model: statements are submitted, polled to a
// terminal status, and results retrieved page by page. It supports both
// provisioned clusters and serverless workgroups, and only full-snapshot
// reads (no CDC).
package redshift

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redshift-connect/pkg/config"
	"github.com/ajitpratap0/redshift-connect/pkg/connector/core"
	"github.com/ajitpratap0/redshift-connect/pkg/errors"
	"github.com/ajitpratap0/redshift-connect/pkg/logger"
	"github.com/ajitpratap0/redshift-connect/pkg/models"
)

// system schemas never surfaced by ListTables
const systemSchemas = "'pg_catalog', 'information_schema', 'pg_internal'"

// RedshiftSource implements the core.Source interface for Amazon Redshift
type RedshiftSource struct {
	name    string
	version string

	// Parsed connection target, immutable after Initialize
	cfg sourceConfig

	// client is built lazily on first use and holds the only live handle;
	// a source reconstructed from configuration rebuilds it
	client DataAPI

	logger *zap.Logger

	// Reading state
	recordsRead        int64
	statementsExecuted int64
	pagesFetched       int64
	isInitialized      bool

	// Synchronization
	mu sync.RWMutex
}

// NewRedshiftSource creates a new Redshift source connector
func NewRedshiftSource(cfg *config.Config) (core.Source, error) {
	source := &RedshiftSource{
		name:    "redshift",
		version: "1.0.0",
		logger:  logger.Get().With(zap.String("connector", "redshift")),
	}

	return source, nil
}

// Name returns the connector name
func (s *RedshiftSource) Name() string { return s.name }

// Type returns the connector type
func (s *RedshiftSource) Type() core.ConnectorType { return core.ConnectorTypeSource }

// Version returns the connector version
func (s *RedshiftSource) Version() string { return s.version }

// Initialize parses and validates the connection target. No remote call is
// made here; the Data API client is constructed on first use.
func (s *RedshiftSource) Initialize(ctx context.Context, cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isInitialized {
		return errors.New(errors.ErrorTypeValidation, "source already initialized")
	}

	if cfg == nil {
		return errors.New(errors.ErrorTypeConfig, "configuration cannot be nil")
	}

	sc, err := parseSourceConfig(cfg)
	if err != nil {
		return err
	}

	s.cfg = sc
	s.isInitialized = true

	target := zap.String("cluster_identifier", sc.ClusterID)
	if sc.ClusterID == "" {
		target = zap.String("workgroup_name", sc.Workgroup)
	}
	s.logger.Info("Redshift source initialized",
		zap.String("region", sc.Region),
		zap.String("database", sc.Database),
		target,
		zap.Duration("poll_interval", sc.PollInterval),
		zap.Int("max_poll_attempts", sc.MaxPollAttempts))

	return nil
}

// api returns the Data API client, constructing it on first use. Only
// configuration is stored long-term, so a source that crossed a
// serialization boundary transparently rebuilds its client here.
func (s *RedshiftSource) api(ctx context.Context) (DataAPI, error) {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client != nil {
		return client, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := newDataAPIClient(ctx, s.cfg)
		if err != nil {
			return nil, err
		}
		s.client = client
	}

	return s.client, nil
}

func (s *RedshiftSource) requireInitialized() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isInitialized {
		return errors.New(errors.ErrorTypeValidation, "source not initialized")
	}
	return nil
}

// ListTables lists all base tables and views in the database as
// "schema.table" names, ordered by schema then table. System schemas are
// always excluded; a configured schema_filter restricts the rest.
func (s *RedshiftSource) ListTables(ctx context.Context) ([]string, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}

	var filterClause string
	if len(s.cfg.SchemaFilter) > 0 {
		quoted := make([]string, len(s.cfg.SchemaFilter))
		for i, schema := range s.cfg.SchemaFilter {
			quoted[i] = "'" + schema + "'"
		}
		filterClause = fmt.Sprintf("AND table_schema IN (%s)", strings.Join(quoted, ", "))
	}

	sql := fmt.Sprintf(`
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN (%s)
			AND table_type IN ('BASE TABLE', 'VIEW')
			%s
		ORDER BY table_schema, table_name`, systemSchemas, filterClause)

	rows, err := s.executeAndFetch(ctx, sql)
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		schema := fieldString(row[0])
		table := fieldString(row[1])
		if schema != "" && table != "" {
			tables = append(tables, schema+"."+table)
		}
	}

	return tables, nil
}

// GetTableSchema returns the normalized schema of a table in ordinal order.
func (s *RedshiftSource) GetTableSchema(ctx context.Context, table string, _ core.TableOptions) (*core.Schema, error) {
	if err := s.validateTable(ctx, table); err != nil {
		return nil, err
	}

	schemaName, tableName := parseTableName(table)

	sql := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = '%s'
			AND table_name = '%s'
		ORDER BY ordinal_position`, schemaName, tableName)

	rows, err := s.executeAndFetch(ctx, sql)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New(errors.ErrorTypeNotFound,
			fmt.Sprintf("table '%s' not found or has no columns in schema '%s'", table, schemaName))
	}

	fields := make([]core.Field, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}

		columnName := fieldString(row[0])
		dataType := fieldString(row[1])
		isNullable := fieldString(row[2])
		charMaxLen := fieldInt64(row[3])
		precision := fieldInt64(row[4])
		scale := fieldInt64(row[5])

		// is_nullable is 'YES'/'NO'; absent means nullable
		nullable := true
		if isNullable != "" {
			nullable = isNullable == "YES"
		}

		fieldType, p, sc := mapRedshiftType(dataType, precision, scale, charMaxLen)

		fields = append(fields, core.Field{
			Name:      columnName,
			Type:      fieldType,
			Nullable:  nullable,
			Precision: p,
			Scale:     sc,
		})
	}

	s.logger.Debug("discovered table schema",
		zap.String("table", table),
		zap.Int("columns", len(fields)))

	return &core.Schema{Name: table, Fields: fields}, nil
}

// ReadTableMetadata returns the table's primary-key columns in ordinal
// order. A table without a primary key yields an empty list, not an error.
// The ingestion type is always snapshot; the Data API has no incremental
// mode.
func (s *RedshiftSource) ReadTableMetadata(ctx context.Context, table string, _ core.TableOptions) (*core.TableMetadata, error) {
	if err := s.validateTable(ctx, table); err != nil {
		return nil, err
	}

	schemaName, tableName := parseTableName(table)

	sql := fmt.Sprintf(`
		SELECT kcu.column_name, kcu.ordinal_position
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = '%s'
			AND tc.table_name = '%s'
		ORDER BY kcu.ordinal_position`, schemaName, tableName)

	rows, err := s.executeAndFetch(ctx, sql)
	if err != nil {
		return nil, err
	}

	primaryKeys := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if columnName := fieldString(row[0]); columnName != "" {
			primaryKeys = append(primaryKeys, columnName)
		}
	}

	return &core.TableMetadata{
		PrimaryKeys:   primaryKeys,
		IngestionType: core.IngestionTypeSnapshot,
	}, nil
}

// ReadTable streams a full table scan as normalized records. startOffset is
// accepted but ignored: snapshot ingestion carries no resumption state, and
// the returned final offset is always empty.
func (s *RedshiftSource) ReadTable(ctx context.Context, table string, _ core.Offset, opts core.TableOptions) (*core.RecordStream, core.Offset, error) {
	if err := s.validateTable(ctx, table); err != nil {
		return nil, nil, err
	}

	schemaName, tableName := parseTableName(table)

	sql := fmt.Sprintf(`SELECT * FROM "%s"."%s"`, schemaName, tableName)

	// Raw fragment passed through unescaped; the caller owns its contents
	if where := opts["where_clause"]; where != "" {
		sql += " WHERE " + where
	}

	// A non-numeric limit is ignored, not an error
	if limit := opts["limit"]; limit != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil {
			sql += fmt.Sprintf(" LIMIT %d", n)
		}
	}

	statementID, err := s.executeStatement(ctx, sql)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.waitForStatement(ctx, statementID); err != nil {
		return nil, nil, err
	}

	client, err := s.api(ctx)
	if err != nil {
		return nil, nil, err
	}

	// The first result page carries the column metadata that fixes the
	// column name ordering for every row that follows.
	firstPage, err := client.GetStatementResult(ctx, &redshiftdata.GetStatementResultInput{
		Id: aws.String(statementID),
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFetch, "failed to get column metadata").
			WithDetail("statement_id", statementID)
	}

	s.mu.Lock()
	s.pagesFetched++
	s.mu.Unlock()

	columns := make([]string, 0, len(firstPage.ColumnMetadata))
	for _, col := range firstPage.ColumnMetadata {
		columns = append(columns, aws.ToString(col.Name))
	}

	s.logger.Info("table read started",
		zap.String("table", table),
		zap.String("statement_id", statementID),
		zap.Int("columns", len(columns)))

	recordChan := make(chan *models.Record, 100)
	errorChan := make(chan error, 1)

	go s.streamPages(ctx, client, statementID, table, columns, firstPage, recordChan, errorChan)

	stream := &core.RecordStream{
		Records: recordChan,
		Errors:  errorChan,
	}

	// Snapshot ingestion: nothing to resume from
	return stream, core.Offset{}, nil
}

// streamPages decodes the already-fetched first page and then follows the
// continuation token until a page omits it. Any fetch failure is delivered
// on errorChan so the consumer knows the stream is incomplete.
func (s *RedshiftSource) streamPages(ctx context.Context, client DataAPI, statementID, table string, columns []string, firstPage *redshiftdata.GetStatementResultOutput, recordChan chan<- *models.Record, errorChan chan<- error) {
	defer close(recordChan)
	defer close(errorChan)

	page := firstPage
	for {
		for _, row := range page.Records {
			record := models.NewRecord(s.name)
			record.SetTable(table)
			record.SetTimestamp(time.Now())

			// Rows wider than the column list drop the extra fields;
			// shorter rows simply leave those keys absent
			for i, field := range row {
				if i < len(columns) {
					record.SetData(columns[i], decodeField(field))
				}
			}

			s.mu.Lock()
			s.recordsRead++
			s.mu.Unlock()

			select {
			case recordChan <- record:
			case <-ctx.Done():
				errorChan <- ctx.Err()
				return
			}
		}

		if page.NextToken == nil || *page.NextToken == "" {
			return
		}

		next, err := client.GetStatementResult(ctx, &redshiftdata.GetStatementResultInput{
			Id:        aws.String(statementID),
			NextToken: page.NextToken,
		})
		if err != nil {
			errorChan <- errors.Wrap(err, errors.ErrorTypeFetch, "failed to get statement results").
				WithDetail("statement_id", statementID)
			return
		}

		s.mu.Lock()
		s.pagesFetched++
		s.mu.Unlock()

		page = next
	}
}

// validateTable fails with a not-found error naming the known tables when
// table is absent from the current catalog. The listing is truncated to the
// first 10 tables to keep the message useful on large catalogs.
func (s *RedshiftSource) validateTable(ctx context.Context, table string) error {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return err
	}

	for _, t := range tables {
		if t == table {
			return nil
		}
	}

	available := strings.Join(tables, ", ")
	if len(tables) > 10 {
		available = strings.Join(tables[:10], ", ") + ", ..."
	}

	return errors.New(errors.ErrorTypeNotFound,
		fmt.Sprintf("table '%s' is not supported. Available tables: %s", table, available)).
		WithDetail("table", table)
}

// parseTableName splits a qualified "schema.table" name; an unqualified
// name defaults to the public schema.
func parseTableName(table string) (string, string) {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "public", table
}

// Health verifies the execution path with a trivial round-trip query.
func (s *RedshiftSource) Health(ctx context.Context) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	if _, err := s.executeAndFetch(ctx, "SELECT 1"); err != nil {
		return err
	}
	return nil
}

// Metrics returns performance metrics
func (s *RedshiftSource) Metrics() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"records_read":        s.recordsRead,
		"statements_executed": s.statementsExecuted,
		"pages_fetched":       s.pagesFetched,
		"database":            s.cfg.Database,
	}
}

// Close releases the client handle. The source can be reused after a new
// Initialize; the client is rebuilt on demand.
func (s *RedshiftSource) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client = nil
	s.isInitialized = false

	s.logger.Info("Redshift source closed",
		zap.Int64("records_read", s.recordsRead),
		zap.Int64("statements_executed", s.statementsExecuted),
		zap.Int64("pages_fetched", s.pagesFetched))

	return nil
}
