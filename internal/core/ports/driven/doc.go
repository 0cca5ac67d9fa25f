// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusConnector: Walks the corpus tree and classifies files
//   - Extractor: Pulls title and body text out of one source format
//   - ExtractorRegistry: Selects the appropriate extractor
//   - RecordProcessor: Transforms a record under construction
//   - ProcessorPipeline: Chains record processors
//   - Emitter: Writes and verifies one dataset artifact
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AuditStore: Run and per-file outcome persistence. Without it,
//     builds still work but leave no audit trail.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
