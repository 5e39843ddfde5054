package redshift

import (
	"github.com/ajitpratap0/redshift-connect/pkg/connector/registry"
)

func init() {
	// Register the Redshift source connector
	registry.RegisterSource("redshift", NewRedshiftSource)

	// Register connector metadata
	registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "redshift",
		Type:        "source",
		Description: "Amazon Redshift source connector using the Redshift Data API",
		Version:     "1.0.0",
		Author:      "Redshift Connect Team",
		Capabilities: []string{
			"snapshot",
			"streaming",
			"schema_discovery",
			"primary_key_metadata",
			"serverless_workgroups",
			"provisioned_clusters",
			"health_checks",
			"metrics",
		},
		ConfigSchema: map[string]interface{}{
			"region": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "AWS region (e.g., us-east-1)",
			},
			"database": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Database name",
			},
			"cluster_identifier": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Provisioned cluster identifier (mutually exclusive with workgroup_name)",
			},
			"workgroup_name": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Serverless workgroup name (mutually exclusive with cluster_identifier)",
			},
			"db_user": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Database user for cluster addressing (IAM when omitted)",
			},
			"secret_arn": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Secrets Manager ARN holding database credentials",
			},
			"schema_filter": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Comma-separated schema allow-list (all non-system schemas when omitted)",
			},
			"poll_interval": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"default":     2,
				"description": "Seconds between statement status polls",
			},
			"max_poll_attempts": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"default":     300,
				"description": "Maximum polling attempts before timing out",
			},
		},
	})
}
