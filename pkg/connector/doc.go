// Package connector provides the framework for building data source
// connectors on top of asynchronous query services.
//
// The package is organized into sub-packages:
//
//   - core: Defines the Source interface and the supporting types every
//     connector works in terms of: schemas, table metadata, record streams,
//     and snapshot offsets.
//
//   - registry: Implements a factory pattern for connector discovery and
//     instantiation. Connectors self-register during initialization, so
//     importing a connector package for side effects is enough to make it
//     available by name.
//
//   - sources: Contains the source connector implementations. The redshift
//     source reads Amazon Redshift through the Redshift Data API, covering
//     both provisioned clusters and serverless workgroups.
//
// A host pipeline configures a connector with a flat string-keyed options
// map (see the config package), initializes it, and then drives catalog
// discovery and table reads through the core.Source interface. Table reads
// deliver records on a bounded channel so the consumer controls memory
// pressure, with a separate error channel signalling an incomplete stream.
package connector
