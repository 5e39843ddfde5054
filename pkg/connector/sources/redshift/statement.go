package redshift

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata/types"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redshift-connect/pkg/errors"
)

// executeStatement submits sql for asynchronous execution and returns the
// statement id. Addressing is by cluster or workgroup, never both; a
// configured database user only applies to cluster addressing.
func (s *RedshiftSource) executeStatement(ctx context.Context, sql string) (string, error) {
	client, err := s.api(ctx)
	if err != nil {
		return "", err
	}

	input := &redshiftdata.ExecuteStatementInput{
		Database: aws.String(s.cfg.Database),
		Sql:      aws.String(sql),
	}

	if s.cfg.ClusterID != "" {
		input.ClusterIdentifier = aws.String(s.cfg.ClusterID)
		if s.cfg.DbUser != "" {
			input.DbUser = aws.String(s.cfg.DbUser)
		}
	} else {
		input.WorkgroupName = aws.String(s.cfg.Workgroup)
	}

	if s.cfg.SecretARN != "" {
		input.SecretArn = aws.String(s.cfg.SecretARN)
	}

	out, err := client.ExecuteStatement(ctx, input)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeSubmit, "failed to execute SQL statement")
	}

	s.mu.Lock()
	s.statementsExecuted++
	s.mu.Unlock()

	id := aws.ToString(out.Id)
	s.logger.Debug("statement submitted", zap.String("statement_id", id))

	return id, nil
}

// waitForStatement polls statement status at a fixed interval until a
// terminal state, bounded by MaxPollAttempts. Describe failures are not
// retried here; the host pipeline owns retry policy.
func (s *RedshiftSource) waitForStatement(ctx context.Context, id string) (*redshiftdata.DescribeStatementOutput, error) {
	client, err := s.api(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.cfg.MaxPollAttempts; attempt++ {
		out, err := client.DescribeStatement(ctx, &redshiftdata.DescribeStatementInput{
			Id: aws.String(id),
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeDescribe, "failed to describe statement").
				WithDetail("statement_id", id)
		}

		switch out.Status {
		case types.StatusStringFinished:
			return out, nil
		case types.StatusStringFailed:
			reason := aws.ToString(out.Error)
			if reason == "" {
				reason = "unknown error"
			}
			return nil, errors.New(errors.ErrorTypeStatementFailed,
				fmt.Sprintf("SQL statement failed: %s", reason)).
				WithDetail("statement_id", id)
		case types.StatusStringAborted:
			return nil, errors.New(errors.ErrorTypeStatementAborted, "SQL statement was aborted").
				WithDetail("statement_id", id)
		}

		// SUBMITTED, PICKED or STARTED: wait out the interval and poll again
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.cfg.PollInterval):
		}
	}

	return nil, errors.New(errors.ErrorTypeTimeout,
		fmt.Sprintf("statement timed out after %d polling attempts", s.cfg.MaxPollAttempts)).
		WithDetail("statement_id", id).
		WithDetail("attempts", s.cfg.MaxPollAttempts)
}

// fetchAllResults retrieves every result page for a completed statement,
// following the continuation token until a page omits it. A failure on any
// page fetch propagates; there is no silent partial result.
func (s *RedshiftSource) fetchAllResults(ctx context.Context, id string) ([][]types.Field, error) {
	client, err := s.api(ctx)
	if err != nil {
		return nil, err
	}

	var records [][]types.Field
	var next *string

	for {
		out, err := client.GetStatementResult(ctx, &redshiftdata.GetStatementResultInput{
			Id:        aws.String(id),
			NextToken: next,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFetch, "failed to get statement results").
				WithDetail("statement_id", id)
		}

		records = append(records, out.Records...)

		s.mu.Lock()
		s.pagesFetched++
		s.mu.Unlock()

		if out.NextToken == nil || *out.NextToken == "" {
			return records, nil
		}
		next = out.NextToken
	}
}

// executeAndFetch runs sql through the full submit/poll/paginate pipeline
// and returns all raw result rows.
func (s *RedshiftSource) executeAndFetch(ctx context.Context, sql string) ([][]types.Field, error) {
	id, err := s.executeStatement(ctx, sql)
	if err != nil {
		return nil, err
	}

	if _, err := s.waitForStatement(ctx, id); err != nil {
		return nil, err
	}

	return s.fetchAllResults(ctx, id)
}
