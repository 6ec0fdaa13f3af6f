package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/internal/core/ports"
	"github.com/kamal-hamza/imgcheck/pkg/naming"
)

// RunRequest holds the inputs of a single check
type RunRequest struct {
	CatalogPath string
	ProjectPath string
	Extensions  domain.ExtensionFilter
	Threshold   int

	// Reporter receives progress; nil discards it.
	Reporter ports.Reporter
}

// ReportService checks every catalog asset against a project tree
type ReportService struct {
	catalog ports.CatalogScanner
	counter ports.UsageCounter
	workers int
	logger  *slog.Logger
}

// NewReportService creates a new report service.
// workers <= 1 checks assets one after another.
func NewReportService(catalog ports.CatalogScanner, counter ports.UsageCounter, workers int, logger *slog.Logger) *ReportService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		catalog: catalog,
		counter: counter,
		workers: workers,
		logger:  logger,
	}
}

// Run builds the usage report. Entries are sorted by asset name.
// Missing input directories return ErrCatalogNotFound or ErrProjectNotFound;
// a project directory that cannot be listed aborts the run.
func (s *ReportService) Run(ctx context.Context, req RunRequest) (*domain.Report, error) {
	start := time.Now()

	if !isDir(req.CatalogPath) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, req.CatalogPath)
	}
	if !isDir(req.ProjectPath) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, req.ProjectPath)
	}

	var reporter ports.Reporter = discardReporter{}
	if req.Reporter != nil {
		reporter = req.Reporter
	}

	names, err := s.catalog.CollectAssetNames(ctx, req.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset catalog: %w", err)
	}
	for _, name := range names {
		reporter.AssetFound(name)
	}
	reporter.CatalogScanned(len(names))
	s.logger.Debug("collected assets", "catalog", req.CatalogPath, "count", len(names))

	entries, err := s.checkAll(ctx, names, req, reporter)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		CatalogPath: req.CatalogPath,
		ProjectPath: req.ProjectPath,
		Threshold:   req.Threshold,
		Extensions:  req.Extensions,
		Entries:     entries,
		Duration:    time.Since(start),
	}
	report.SortEntries()

	return report, nil
}

// checkResult is what a worker hands back for the asset at idx
type checkResult struct {
	idx   int
	entry domain.UsageEntry
	err   error
}

// checkAll fans assets out to the worker pool. Workers never touch the
// reporter; results are collected here and reported in catalog order, so
// console output is the same for any worker count.
func (s *ReportService) checkAll(parent context.Context, names []domain.AssetName, req RunRequest, reporter ports.Reporter) ([]domain.UsageEntry, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan int, len(names))
	results := make(chan checkResult, len(names))
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				entry, err := s.check(ctx, names[idx], req)
				results <- checkResult{idx: idx, entry: entry, err: err}
				if err != nil {
					return
				}
			}
		}()
	}

	for i := range names {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	entries := make([]domain.UsageEntry, len(names))
	ready := make([]bool, len(names))
	next := 0
	var firstErr error

	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		if firstErr != nil {
			continue
		}

		entries[res.idx] = res.entry
		ready[res.idx] = true
		for next < len(names) && ready[next] {
			emit(reporter, entries[next])
			next++
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// emit reports the file matches of entry followed by the entry itself
func emit(reporter ports.Reporter, entry domain.UsageEntry) {
	for _, path := range entry.Files {
		reporter.FileMatched(entry.Identifier, path)
	}
	reporter.EntryReady(entry)
}

// check normalizes, counts and classifies a single asset
func (s *ReportService) check(ctx context.Context, name domain.AssetName, req RunRequest) (domain.UsageEntry, error) {
	id := domain.Identifier(naming.Normalize(string(name)))

	usage, err := s.counter.Count(ctx, id, req.ProjectPath, req.Extensions)
	if err != nil {
		return domain.UsageEntry{}, fmt.Errorf("failed to scan project for %q: %w", name, err)
	}

	return domain.UsageEntry{
		Name:       name,
		Identifier: id,
		Count:      usage.Count,
		Verdict:    domain.Classify(usage.Count, req.Threshold),
		Files:      usage.Files,
	}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// discardReporter stands in when a run has no reporter
type discardReporter struct{}

func (discardReporter) AssetFound(domain.AssetName) {}
func (discardReporter) CatalogScanned(int) {}
func (discardReporter) FileMatched(domain.Identifier, string) {}
func (discardReporter) EntryReady(domain.UsageEntry) {}
