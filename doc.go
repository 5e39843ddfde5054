// Package redshiftconnect is a data-ingestion connector for Amazon Redshift
// built on the Redshift Data API.
//
// The Data API replaces a persistent database session with stateless REST
// calls and an asynchronous execution model: a statement is submitted, its
// status polled until terminal, and its results retrieved page by page with
// continuation tokens. Because no connection is held open, the connector
// works equally against provisioned clusters (with database-user or Secrets
// Manager credentials) and serverless workgroups, and it survives
// serialization boundaries by rebuilding its client from configuration on
// demand.
//
// The connector exposes catalog discovery (table listing, schema and
// primary-key introspection) and full-snapshot table reads as a record
// stream. Change data capture is not available through the Data API, so
// every read is a snapshot.
//
// See cmd/redshift-connect for the command-line interface and
// pkg/connector/sources/redshift for the implementation.
package redshiftconnect
