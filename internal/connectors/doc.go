// Package connectors provides implementations of the CorpusConnector
// interface. The filesystem corpus walker is the only production
// implementation; it lives in the corpus subpackage.
package connectors
