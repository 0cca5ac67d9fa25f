package tui

import "errors"

// ErrMissingOrchestrator is returned when the build orchestrator is not provided.
var ErrMissingOrchestrator = errors.New("tui: build orchestrator is required")
