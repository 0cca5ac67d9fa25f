package cli

import (
	"context"
	"testing"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
)

// mockOrchestrator is a mock implementation of driving.BuildOrchestrator.
type mockOrchestrator struct {
	summary *domain.BuildSummary
	status  driving.BuildStatus
	err     error
}

func (m *mockOrchestrator) Build(_ context.Context) (*domain.BuildSummary, error) {
	return m.summary, m.err
}

func (m *mockOrchestrator) Status() driving.BuildStatus {
	return m.status
}

// mockVerifier is a mock implementation of driving.Verifier.
type mockVerifier struct {
	report *driving.VerifyReport
	err    error
}

func (m *mockVerifier) Verify(_ context.Context, _ *domain.RecordSet) (*driving.VerifyReport, error) {
	return m.report, m.err
}

// mockConnector is a mock implementation of driven.CorpusConnector.
type mockConnector struct {
	root         string
	capabilities driven.ConnectorCapabilities
	changes      chan domain.FileChange
	watchErr     error
}

func (m *mockConnector) Root() string {
	return m.root
}

func (m *mockConnector) Capabilities() driven.ConnectorCapabilities {
	return m.capabilities
}

func (m *mockConnector) Validate(_ context.Context) error {
	return nil
}

func (m *mockConnector) Walk(_ context.Context) (<-chan domain.SourceFile, <-chan error) {
	files := make(chan domain.SourceFile)
	errs := make(chan error)
	close(files)
	close(errs)
	return files, errs
}

func (m *mockConnector) Watch(_ context.Context) (<-chan domain.FileChange, error) {
	return m.changes, m.watchErr
}

func (m *mockConnector) Close() error {
	return nil
}

// mockAuditStore is a mock implementation of driven.AuditStore.
type mockAuditStore struct {
	runs      []domain.Run
	err       error
	gotLimit  int
	listCalls int
}

func (m *mockAuditStore) BeginRun(_ context.Context, _ *domain.Run) error {
	return m.err
}

func (m *mockAuditStore) FinishRun(_ context.Context, _ *domain.Run) error {
	return m.err
}

func (m *mockAuditStore) RecordEvent(_ context.Context, _ *domain.FileEvent) error {
	return m.err
}

func (m *mockAuditStore) ListRuns(_ context.Context, limit int) ([]domain.Run, error) {
	m.gotLimit = limit
	m.listCalls++
	return m.runs, m.err
}

func (m *mockAuditStore) ListEvents(_ context.Context, _ string) ([]domain.FileEvent, error) {
	return nil, m.err
}

func (m *mockAuditStore) Close() error {
	return nil
}

// installPipeline points the factory at a fixed pipeline for one test
// and restores the previous factory afterwards.
func installPipeline(t *testing.T, pipeline *Pipeline) {
	t.Helper()

	original := pipelineFactory
	SetPipelineFactory(func(_ string) (*Pipeline, func(), error) {
		return pipeline, func() {}, nil
	})
	t.Cleanup(func() { pipelineFactory = original })
}

// forcePlainProgress disables terminal detection for one test.
func forcePlainProgress(t *testing.T) {
	t.Helper()

	original := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = original })
}
