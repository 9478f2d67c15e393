package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/pipeline"
)

// Analyzer defines the interface for analyzing one transcript file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*pipeline.AnalysisResult, error)
}

// AnalyzeJob represents a transcript analysis job
type AnalyzeJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute runs the analysis job
func (j AnalyzeJob) Execute(ctx context.Context) *AnalyzeResult {
	result, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	if err != nil {
		return &AnalyzeResult{Path: j.Path, Error: err}
	}
	return &AnalyzeResult{Path: j.Path, Report: result.Report}
}

// AnalyzeResult represents the result of one transcript analysis
type AnalyzeResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// BatchProcessor analyzes multiple transcripts concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes multiple transcript files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(AnalyzeJob{
			Path:     path,
			Analyzer: b.analyzer,
		})
	}

	return pool.Wait()
}

// ProcessList reads transcript paths from a list file and analyzes
// them concurrently.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*AnalyzeResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessDir discovers transcript files in a directory and analyzes
// them concurrently.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*AnalyzeResult, error) {
	paths, err := DiscoverTranscripts(dir)
	if err != nil {
		return nil, fmt.Errorf("discover transcripts: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads transcript paths from a file (one per line).
// Empty lines and comments are skipped, duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// transcriptExtensions are the file formats the ingest layer understands
var transcriptExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
	".html": true,
	".htm":  true,
}

// DiscoverTranscripts walks a directory and returns all transcript
// files in supported formats, sorted by path.
func DiscoverTranscripts(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if transcriptExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return paths, nil
}
