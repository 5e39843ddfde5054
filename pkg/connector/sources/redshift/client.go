package redshift

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"

	"github.com/ajitpratap0/redshift-connect/pkg/config"
	"github.com/ajitpratap0/redshift-connect/pkg/errors"
)

// DataAPI is the subset of the Redshift Data API client the connector uses.
// The concrete *redshiftdata.Client satisfies it; tests substitute a fake.
type DataAPI interface {
	ExecuteStatement(ctx context.Context, params *redshiftdata.ExecuteStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.ExecuteStatementOutput, error)
	DescribeStatement(ctx context.Context, params *redshiftdata.DescribeStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.DescribeStatementOutput, error)
	GetStatementResult(ctx context.Context, params *redshiftdata.GetStatementResultInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.GetStatementResultOutput, error)
}

const (
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollAttempts = 300
)

// sourceConfig is the parsed, immutable connection target. It holds only
// configuration data; the live client is built from it on first use so the
// source never carries a connection handle across a serialization boundary.
type sourceConfig struct {
	Region          string
	Database        string
	ClusterID       string
	Workgroup       string
	DbUser          string
	SecretARN       string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	SchemaFilter    []string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// parseSourceConfig extracts and validates the connection target from the
// host's flat options map. All failures here are configuration errors,
// raised once at construction.
func parseSourceConfig(cfg *config.Config) (sourceConfig, error) {
	sc := sourceConfig{
		Region:          cfg.Get("region"),
		Database:        cfg.Get("database"),
		ClusterID:       cfg.Get("cluster_identifier"),
		Workgroup:       cfg.Get("workgroup_name"),
		DbUser:          cfg.Get("db_user"),
		SecretARN:       cfg.Get("secret_arn"),
		AccessKeyID:     cfg.Get("access_key_id"),
		SecretAccessKey: cfg.Get("secret_access_key"),
		SessionToken:    cfg.Get("session_token"),
		SchemaFilter:    cfg.GetList("schema_filter"),
		PollInterval:    cfg.GetSeconds("poll_interval", defaultPollInterval),
		MaxPollAttempts: cfg.GetInt("max_poll_attempts", defaultMaxPollAttempts),
	}

	if sc.Region == "" {
		return sc, errors.New(errors.ErrorTypeConfig, "redshift source requires 'region' in options")
	}
	if sc.Database == "" {
		return sc, errors.New(errors.ErrorTypeConfig, "redshift source requires 'database' in options")
	}
	if sc.ClusterID == "" && sc.Workgroup == "" {
		return sc, errors.New(errors.ErrorTypeConfig, "redshift source requires either 'cluster_identifier' or 'workgroup_name'")
	}
	if sc.ClusterID != "" && sc.Workgroup != "" {
		return sc, errors.New(errors.ErrorTypeConfig, "redshift source cannot specify both 'cluster_identifier' and 'workgroup_name'")
	}
	if sc.MaxPollAttempts <= 0 {
		sc.MaxPollAttempts = defaultMaxPollAttempts
	}

	return sc, nil
}

// newDataAPIClient builds a live Redshift Data API client from the stored
// configuration. Static credentials take precedence when present; otherwise
// the default AWS credential chain applies.
func newDataAPIClient(ctx context.Context, sc sourceConfig) (DataAPI, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(sc.Region),
	}

	if sc.AccessKeyID != "" && sc.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKeyID, sc.SecretAccessKey, sc.SessionToken)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to load AWS configuration")
	}

	return redshiftdata.NewFromConfig(awsCfg), nil
}
