package worker

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comparia/comparia/internal/model"
)

// Analyzer runs one item analysis
type Analyzer interface {
	Analyze(ctx context.Context, item model.ItemAttributes) (*model.MarketSnapshot, error)
}

// AnalysisJob analyzes one catalog item
type AnalysisJob struct {
	Item     model.ItemAttributes
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	snap, err := j.Analyzer.Analyze(ctx, j.Item)
	if err != nil {
		return &AnalysisResult{
			Item:  j.Item,
			Error: err,
		}
	}
	return &AnalysisResult{
		Item:     j.Item,
		Snapshot: snap,
	}
}

// AnalysisResult is the outcome for one item
type AnalysisResult struct {
	Item     model.ItemAttributes
	Snapshot *model.MarketSnapshot
	Error    error
}

// GetError returns the error from the analysis
func (r *AnalysisResult) GetError() error {
	return r.Error
}

// SessionFactory builds a fresh analyzer per item. Each item gets its
// own query state, so concurrent analyses never share mutable state.
type SessionFactory func() Analyzer

// BatchProcessor analyzes many catalog items concurrently
type BatchProcessor struct {
	factory     SessionFactory
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(factory SessionFactory, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		factory:     factory,
		concurrency: concurrency,
	}
}

// ProcessItems analyzes the items concurrently
func (b *BatchProcessor) ProcessItems(ctx context.Context, items []model.ItemAttributes) []*AnalysisResult {
	if len(items) == 0 {
		return []*AnalysisResult{}
	}

	// Every item is submitted before Wait drains, so the pool queues
	// must hold the whole batch.
	pool := NewSizedPool(b.concurrency, len(items))
	pool.Start()

	for _, item := range items {
		pool.Submit(&AnalysisJob{
			Item:     item,
			Analyzer: b.factory(),
		})
	}

	results := pool.Wait()

	analysisResults := make([]*AnalysisResult, len(results))
	for i, result := range results {
		analysisResults[i] = result.(*AnalysisResult)
	}

	return analysisResults
}

// ProcessFile reads catalog items from a YAML file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalysisResult, error) {
	items, err := ReadItemsFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	return b.ProcessItems(ctx, items), nil
}

// ReadItemsFile loads catalog items from a YAML file. Both a document
// with a top-level "items" key and a bare list are accepted.
func ReadItemsFile(filePath string) ([]model.ItemAttributes, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var wrapped struct {
		Items []model.ItemAttributes `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items, nil
	}

	var items []model.ItemAttributes
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items file: %w", err)
	}
	return items, nil
}
