// Package domain defines the core business entities for corpusctl.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A fully processed corpus document ready for emission
//   - RecordSet: The insertion-ordered collection all emitters consume
//   - SourceFile: A classified file discovered by the corpus connector
//   - FingerprintSet: Content fingerprints seen during a run
//   - Config: The corpus, dataset and policy configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
