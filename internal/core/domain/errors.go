package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedKind indicates a source file kind no extractor handles.
	ErrUnsupportedKind = errors.New("unsupported kind")

	// ErrBuildInProgress indicates a build is already running.
	ErrBuildInProgress = errors.New("build in progress")

	// ErrConnectorClosed indicates use of a connector after Close.
	ErrConnectorClosed = errors.New("connector closed")

	// Per-file errors. These reject a single file and never abort a run.

	// ErrDuplicateContent indicates a file whose normalized body was already seen.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrEmptyContent indicates extraction yielded no usable text.
	ErrEmptyContent = errors.New("empty content")

	// ErrSkipped indicates a file excluded by a configured skip rule.
	ErrSkipped = errors.New("skipped by rule")

	// Artifact errors.

	// ErrEmptyDataset indicates no records survived the pipeline.
	// Emitting empty artifacts would silently publish a broken dataset.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrIntegrity indicates emitted artifacts failed verification.
	// The files are left in place for inspection.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrAuditUnavailable indicates the audit store is not configured.
	ErrAuditUnavailable = errors.New("audit store unavailable")
)
