package redshift

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata/types"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/redshift-connect/pkg/config"
)

// fakeDataAPI is a scriptable in-memory Data API. Statements get sequential
// ids; DescribeStatement walks the configured status sequence (repeating the
// last entry, FINISHED when none is set); GetStatementResult dispatches to
// resultFn with the statement's SQL and the per-statement call index.
type fakeDataAPI struct {
	mu sync.Mutex

	executeErr     error
	describeErr    error
	resultErr      error
	statuses       []types.StatusString
	statementError *string

	resultFn func(sql string, call int) (*redshiftdata.GetStatementResultOutput, error)

	lastExecuteInput *redshiftdata.ExecuteStatementInput
	executedSQL      []string
	sqlByID          map[string]string
	resultCalls      map[string]int
	seenTokens       []string
	describeCalls    int
	totalResultCalls int
}

func newFakeDataAPI() *fakeDataAPI {
	return &fakeDataAPI{
		sqlByID:     make(map[string]string),
		resultCalls: make(map[string]int),
	}
}

func (f *fakeDataAPI) ExecuteStatement(ctx context.Context, params *redshiftdata.ExecuteStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.ExecuteStatementOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.executeErr != nil {
		return nil, f.executeErr
	}

	f.lastExecuteInput = params
	sql := aws.ToString(params.Sql)
	f.executedSQL = append(f.executedSQL, sql)
	id := fmt.Sprintf("stmt-%d", len(f.executedSQL))
	f.sqlByID[id] = sql

	return &redshiftdata.ExecuteStatementOutput{Id: aws.String(id)}, nil
}

func (f *fakeDataAPI) DescribeStatement(ctx context.Context, params *redshiftdata.DescribeStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.DescribeStatementOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.describeCalls++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	status := types.StatusStringFinished
	if len(f.statuses) > 0 {
		if f.describeCalls <= len(f.statuses) {
			status = f.statuses[f.describeCalls-1]
		} else {
			status = f.statuses[len(f.statuses)-1]
		}
	}

	return &redshiftdata.DescribeStatementOutput{
		Status: status,
		Error:  f.statementError,
	}, nil
}

func (f *fakeDataAPI) GetStatementResult(ctx context.Context, params *redshiftdata.GetStatementResultInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.GetStatementResultOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resultErr != nil {
		return nil, f.resultErr
	}

	f.totalResultCalls++
	f.seenTokens = append(f.seenTokens, aws.ToString(params.NextToken))

	id := aws.ToString(params.Id)
	call := f.resultCalls[id]
	f.resultCalls[id] = call + 1

	if f.resultFn != nil {
		return f.resultFn(f.sqlByID[id], call)
	}
	return &redshiftdata.GetStatementResultOutput{}, nil
}

// Field constructors for scripted responses

func strField(s string) types.Field { return &types.FieldMemberStringValue{Value: s} }

func longField(n int64) types.Field { return &types.FieldMemberLongValue{Value: n} }

func nullField() types.Field { return &types.FieldMemberIsNull{Value: true} }

// resultPage builds a result page with the given rows, column names and
// continuation token (empty token means final page).
func resultPage(rows [][]types.Field, next string, columns ...string) *redshiftdata.GetStatementResultOutput {
	out := &redshiftdata.GetStatementResultOutput{Records: rows}
	if next != "" {
		out.NextToken = aws.String(next)
	}
	for _, c := range columns {
		out.ColumnMetadata = append(out.ColumnMetadata, types.ColumnMetadata{Name: aws.String(c)})
	}
	return out
}

// tablesPage builds an information_schema.tables response of
// (schema, table) pairs.
func tablesPage(pairs [][2]string) *redshiftdata.GetStatementResultOutput {
	rows := make([][]types.Field, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []types.Field{strField(p[0]), strField(p[1])})
	}
	return resultPage(rows, "")
}

// newTestSource builds an initialized source wired to the fake client. The
// poll interval is zero so tests run without sleeping.
func newTestSource(t *testing.T, fake DataAPI, overrides map[string]string) *RedshiftSource {
	t.Helper()

	cfg := config.New("test-redshift", "redshift")
	cfg.Options["region"] = "us-east-1"
	cfg.Options["database"] = "dev"
	cfg.Options["cluster_identifier"] = "test-cluster"
	cfg.Options["poll_interval"] = "0"
	for k, v := range overrides {
		cfg.Options[k] = v
	}
	if _, ok := overrides["workgroup_name"]; ok {
		delete(cfg.Options, "cluster_identifier")
	}

	src, err := NewRedshiftSource(cfg)
	require.NoError(t, err)

	source, ok := src.(*RedshiftSource)
	require.True(t, ok)
	require.NoError(t, source.Initialize(context.Background(), cfg))
	source.client = fake

	return source
}
