package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
	"github.com/ai-culture-commons/corpusctl/internal/logger"
)

// Ensure BuildOrchestrator implements the interface.
var _ driving.BuildOrchestrator = (*BuildOrchestrator)(nil)

// BuildOrchestrator coordinates a full corpus-to-dataset run.
type BuildOrchestrator struct {
	cfg       *domain.Config
	connector driven.CorpusConnector
	registry  driven.ExtractorRegistry
	pipeline  driven.ProcessorPipeline
	emitters  []driven.Emitter
	verifier  driving.Verifier
	audit     driven.AuditStore

	sections *domain.SectionMapping
	domains  *domain.DomainMapping

	// Status tracking
	mu       sync.RWMutex
	status   driving.BuildStatus
	building bool
}

// NewBuildOrchestrator creates a build orchestrator.
// The audit store is optional - if nil, runs leave no audit trail.
func NewBuildOrchestrator(
	cfg *domain.Config,
	connector driven.CorpusConnector,
	registry driven.ExtractorRegistry,
	pipeline driven.ProcessorPipeline,
	emitters []driven.Emitter,
	verifier driving.Verifier,
	audit driven.AuditStore,
) *BuildOrchestrator {
	return &BuildOrchestrator{
		cfg:       cfg,
		connector: connector,
		registry:  registry,
		pipeline:  pipeline,
		emitters:  emitters,
		verifier:  verifier,
		audit:     audit,
		sections:  cfg.SectionMapping(),
		domains:   cfg.DomainMapping(),
		status:    driving.BuildStatus{State: driving.StateIdle},
	}
}

// Build runs the whole pipeline.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *BuildOrchestrator) Build(ctx context.Context) (*domain.BuildSummary, error) {
	// 1. Claim the single build slot
	o.mu.Lock()
	if o.building {
		o.mu.Unlock()
		return nil, domain.ErrBuildInProgress
	}
	o.building = true
	o.status = driving.BuildStatus{
		State:     driving.StateProcessing,
		StartedAt: time.Now(),
	}
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.building = false
		o.mu.Unlock()
	}()

	logger.Section("Dataset Build")

	summary := domain.NewBuildSummary(o.connector.Root())
	run := &domain.Run{
		StartedAt: summary.StartedAt,
		Root:      summary.Root,
		Verdict:   domain.VerdictAborted,
	}

	// 2. Validate the corpus root before walking
	if o.connector.Capabilities().SupportsValidation {
		if err := o.connector.Validate(ctx); err != nil {
			o.setState(driving.StateFailed)
			return summary, fmt.Errorf("validate corpus: %w", err)
		}
	}

	// 3. Open the audit run
	if o.audit != nil {
		if err := o.audit.BeginRun(ctx, run); err != nil {
			return summary, fmt.Errorf("begin audit run: %w", err)
		}
		defer func() {
			run.FinishedAt = time.Now().UTC()
			run.Records = summary.Records
			if err := o.audit.FinishRun(context.WithoutCancel(ctx), run); err != nil {
				logger.Warn("Finish audit run: %v", err)
			}
		}()
	}

	logger.Info("Building dataset %q from %s", o.cfg.Dataset.Name, summary.Root)

	// 4. Walk and process, one file at a time
	set := domain.NewRecordSet()
	dedupe := NewDeduplicator()
	align := NewAlignmentValidator(o.cfg.Corpus.Languages)

	filesCh, errsCh := o.connector.Walk(ctx)
	if err := o.consumeWalk(ctx, filesCh, errsCh, set, dedupe, align, run, summary); err != nil {
		o.setState(driving.StateFailed)
		return summary, err
	}

	if summary.FilesMatched == 0 {
		o.setState(driving.StateFailed)
		run.Verdict = domain.VerdictEmpty
		return summary, fmt.Errorf("no corpus files under %s: %w", summary.Root, domain.ErrEmptyDataset)
	}

	// 5. Validate alignment, drop incomplete groups whole
	o.setState(driving.StateAligning)
	result := align.Validate(set)
	summary.GroupsTotal = result.GroupsTotal
	summary.GroupsAligned = result.GroupsAligned
	summary.GroupsDropped = len(result.Dropped)
	for _, dropped := range result.Dropped {
		for _, rec := range dropped.Records {
			o.recordEvent(ctx, run, &domain.FileEvent{
				Path:       rec.Path,
				Identifier: rec.Identifier,
				Status:     domain.EventUnaligned,
				Reason:     dropped.Reason,
			})
		}
	}

	aligned := result.Aligned
	if aligned.Len() == 0 {
		o.setState(driving.StateFailed)
		run.Verdict = domain.VerdictEmpty
		return summary, fmt.Errorf("no aligned article groups: %w", domain.ErrEmptyDataset)
	}

	for _, rec := range aligned.Records() {
		summary.CountRecord(rec)
	}
	o.setRecords(summary.Records)
	logger.Info("Aligned %d/%d groups, %d records",
		summary.GroupsAligned, summary.GroupsTotal, summary.Records)

	// 6. Emit every artifact from the same set
	o.setState(driving.StateEmitting)
	for _, emitter := range o.emitters {
		logger.Debug("Emitting %s to %s", emitter.Name(), emitter.Path())
		if err := emitter.Emit(ctx, aligned); err != nil {
			o.setState(driving.StateFailed)
			return summary, fmt.Errorf("emit %s: %w", emitter.Name(), err)
		}
		summary.Artifacts = append(summary.Artifacts, emitter.Path())
	}

	// 7. Verify what we just wrote
	o.setState(driving.StateVerifying)
	report, err := o.verifier.Verify(ctx, aligned)
	if err != nil {
		o.setState(driving.StateFailed)
		return summary, fmt.Errorf("verify artifacts: %w", err)
	}
	summary.IntegrityPassed = report.Passed()
	summary.FinishedAt = time.Now().UTC()

	if !summary.IntegrityPassed {
		o.setState(driving.StateFailed)
		run.Verdict = domain.VerdictFailed
		failures := report.Failures()
		for _, f := range failures {
			logger.Warn("Integrity: %s", f)
		}
		return summary, fmt.Errorf("%d problems in emitted artifacts: %w",
			len(failures), domain.ErrIntegrity)
	}

	o.setState(driving.StateComplete)
	run.Verdict = domain.VerdictPassed
	logger.Info("Build complete: %d records, %d words, %d artifacts in %s",
		summary.Records, summary.Words, len(summary.Artifacts),
		summary.Duration().Round(time.Millisecond))
	return summary, nil
}

// Status returns a snapshot of the running build.
func (o *BuildOrchestrator) Status() driving.BuildStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// consumeWalk drains the connector channels, processing each file.
//
//nolint:gocognit // Orchestration function coordinating multiple async operations
func (o *BuildOrchestrator) consumeWalk(
	ctx context.Context,
	filesCh <-chan domain.SourceFile,
	errsCh <-chan error,
	set *domain.RecordSet,
	dedupe *Deduplicator,
	align *AlignmentValidator,
	run *domain.Run,
	summary *domain.BuildSummary,
) error {
	for filesCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			var fileErr *domain.FileError
			if errors.As(err, &fileErr) {
				// One unreadable file rejects that file, not the run.
				summary.Errors++
				o.bumpRejected()
				align.Taint(o.articleKey(&fileErr.File), "read error")
				o.recordEvent(ctx, run, &domain.FileEvent{
					Path:   fileErr.File.RelPath,
					Status: domain.EventError,
					Reason: fileErr.Err.Error(),
				})
				logger.Warn("Read %s: %v", fileErr.File.RelPath, fileErr.Err)
				continue
			}
			return fmt.Errorf("walk corpus: %w", err)

		case file, ok := <-filesCh:
			if !ok {
				filesCh = nil
				continue
			}
			o.processFile(ctx, &file, set, dedupe, align, run, summary)
		}
	}
	return nil
}

// processFile runs one file through classification checks, extraction,
// the processor pipeline and deduplication. Every outcome is counted
// and audited; nothing here aborts the run.
func (o *BuildOrchestrator) processFile(
	ctx context.Context,
	file *domain.SourceFile,
	set *domain.RecordSet,
	dedupe *Deduplicator,
	align *AlignmentValidator,
	run *domain.Run,
	summary *domain.BuildSummary,
) {
	summary.FilesSeen++
	o.setCurrent(file.RelPath, summary.FilesSeen, summary.FilesMatched)

	if !file.Supported() {
		summary.Unsupported++
		o.recordEvent(ctx, run, &domain.FileEvent{
			Path:   file.RelPath,
			Status: domain.EventUnsupported,
			Reason: "no extractor for this path",
		})
		return
	}

	summary.FilesMatched++
	o.setCurrent(file.RelPath, summary.FilesSeen, summary.FilesMatched)
	key := o.articleKey(file)

	if err := o.skipCheck(file); err != nil {
		summary.Skipped++
		o.bumpRejected()
		o.recordEvent(ctx, run, &domain.FileEvent{
			Path:   file.RelPath,
			Status: domain.EventSkipped,
			Reason: err.Error(),
		})
		logger.Debug("Skipping %s: %v", file.RelPath, err)
		return
	}

	rec, err := o.buildRecord(ctx, file)
	if err != nil {
		summary.Errors++
		o.bumpRejected()
		align.Taint(key, "extraction failed")
		o.recordEvent(ctx, run, &domain.FileEvent{
			Path:   file.RelPath,
			Status: domain.EventError,
			Reason: err.Error(),
		})
		logger.Warn("Extract %s: %v", file.RelPath, err)
		return
	}

	if rec.Text == "" && o.cfg.Policies.EmptyContent == domain.EmptyContentReject {
		summary.Empty++
		o.bumpRejected()
		align.Taint(key, "empty content")
		o.recordEvent(ctx, run, &domain.FileEvent{
			Path:       file.RelPath,
			Identifier: rec.Identifier,
			Status:     domain.EventEmpty,
			Reason:     "no text after extraction",
		})
		logger.Debug("Empty content: %s", file.RelPath)
		return
	}

	if err := dedupe.Admit(rec); err != nil {
		summary.Duplicates++
		o.bumpRejected()
		align.Taint(key, "duplicate content")
		o.recordEvent(ctx, run, &domain.FileEvent{
			Path:       file.RelPath,
			Identifier: rec.Identifier,
			Status:     domain.EventDuplicate,
			Reason:     err.Error(),
		})
		return
	}

	if err := set.Add(rec); err != nil {
		summary.Errors++
		o.bumpRejected()
		align.Taint(key, "identifier collision")
		o.recordEvent(ctx, run, &domain.FileEvent{
			Path:       file.RelPath,
			Identifier: rec.Identifier,
			Status:     domain.EventError,
			Reason:     err.Error(),
		})
		logger.Warn("Add %s: %v", rec.Identifier, err)
		return
	}

	o.bumpAccepted()
	o.recordEvent(ctx, run, &domain.FileEvent{
		Path:       file.RelPath,
		Identifier: rec.Identifier,
		Status:     domain.EventAccepted,
	})
}

// buildRecord derives the record's identity and runs the processor
// pipeline on the extracted content.
func (o *BuildOrchestrator) buildRecord(
	ctx context.Context,
	file *domain.SourceFile,
) (*domain.Record, error) {
	// 1. EXTRACT
	result, err := o.registry.Extract(ctx, file, file.Content)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	// 2. DERIVE IDENTITY
	stem := strings.ToLower(strings.TrimSuffix(file.Name, path.Ext(file.Name)))
	key := o.sections.CanonicalStem(stem)
	section := o.sections.SectionOf(key)

	rec := &domain.Record{
		Identifier: file.Language + "/" + file.Name,
		ArticleKey: key,
		Section:    section,
		Domain:     o.domains.Resolve(section, file.Kind),
		Language:   file.Language,
		Kind:       file.Kind,
		RawTitle:   result.Title,
		Title:      result.Title,
		RawText:    result.Text,
		Text:       result.Text,
		Path:       file.RelPath,
		URL:        o.cfg.Dataset.URLFor(file.Language, o.cfg.Corpus.SourceLanguage, file.RelPath),
		Added:      time.Now().UTC().Truncate(time.Second),
	}
	if rec.Section == "" {
		rec.Section = "main"
	}
	if file.Language != o.cfg.Corpus.SourceLanguage {
		sourceName := key + path.Ext(file.Name)
		rec.TranslationOf = o.cfg.Dataset.SourceURL(sourceName)
	}
	if o.cfg.Dataset.IncludeRawHTML {
		rec.RawHTML = result.RawHTML
	}

	// 3. RUN RECORD PIPELINE (normalization, counting)
	if err := o.pipeline.Process(ctx, rec); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	// 4. FINGERPRINT the normalized body
	rec.Fingerprint = domain.Fingerprint(rec.Text)
	return rec, nil
}

// articleKey derives the cross-language key straight from a file,
// used to taint groups before a record exists.
func (o *BuildOrchestrator) articleKey(file *domain.SourceFile) string {
	stem := strings.ToLower(strings.TrimSuffix(file.Name, path.Ext(file.Name)))
	return o.sections.CanonicalStem(stem)
}

// skipCheck applies the configured skip rules to a file.
// Returns nil when nothing matches.
func (o *BuildOrchestrator) skipCheck(file *domain.SourceFile) error {
	for _, suffix := range o.cfg.Corpus.SkipSuffixes {
		if strings.HasSuffix(file.Name, suffix) {
			return fmt.Errorf("%w: filename suffix %s", domain.ErrSkipped, suffix)
		}
	}
	for _, marker := range o.cfg.Corpus.SkipMarkers {
		if bytes.Contains(file.Content, []byte(marker)) {
			return fmt.Errorf("%w: content marker %q", domain.ErrSkipped, marker)
		}
	}
	return nil
}

func (o *BuildOrchestrator) setState(state driving.BuildState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.State = state
}

func (o *BuildOrchestrator) setCurrent(relPath string, seen, matched int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.CurrentPath = relPath
	o.status.FilesSeen = seen
	o.status.FilesMatched = matched
}

func (o *BuildOrchestrator) setRecords(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.Records = n
}

func (o *BuildOrchestrator) bumpAccepted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.Accepted++
}

func (o *BuildOrchestrator) bumpRejected() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.Rejected++
}

// recordEvent writes one audit event, stamping the run ID.
// Audit failures are logged, never fatal.
func (o *BuildOrchestrator) recordEvent(ctx context.Context, run *domain.Run, event *domain.FileEvent) {
	if o.audit == nil {
		return
	}
	event.RunID = run.ID
	if err := o.audit.RecordEvent(ctx, event); err != nil {
		logger.Debug("Audit event for %s: %v", event.Path, err)
	}
}
