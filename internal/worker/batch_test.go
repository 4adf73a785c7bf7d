package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/comparia/comparia/internal/model"
)

// fakeAnalyzer implements Analyzer
type fakeAnalyzer struct {
	shouldError bool
	analyses    *int32
}

func (a *fakeAnalyzer) Analyze(_ context.Context, item model.ItemAttributes) (*model.MarketSnapshot, error) {
	time.Sleep(5 * time.Millisecond)
	if a.analyses != nil {
		atomic.AddInt32(a.analyses, 1)
	}
	if a.shouldError {
		return nil, errors.New("resolution failed")
	}
	return &model.MarketSnapshot{
		Query:              item.Title,
		CombinedConfidence: 0.3,
	}, nil
}

func TestBatchProcessor_ProcessItems(t *testing.T) {
	var analyses int32
	processor := NewBatchProcessor(func() Analyzer {
		return &fakeAnalyzer{analyses: &analyses}
	}, 2)

	items := []model.ItemAttributes{
		{Title: "Armbandsur, Omega"},
		{Title: "Mynt, riksdaler"},
		{Title: "Ring, guld"},
	}

	results := processor.ProcessItems(context.Background(), items)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if atomic.LoadInt32(&analyses) != 3 {
		t.Errorf("expected 3 analyses, got %d", analyses)
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Item.Title, res.Error)
		}
		if res.Snapshot == nil {
			t.Errorf("expected a snapshot for %q", res.Item.Title)
		}
	}
}

func TestBatchProcessor_ItemErrorDoesNotStopBatch(t *testing.T) {
	var built int32
	processor := NewBatchProcessor(func() Analyzer {
		// Fail every second item.
		return &fakeAnalyzer{shouldError: atomic.AddInt32(&built, 1)%2 == 0}
	}, 2)

	items := []model.ItemAttributes{
		{Title: "Armbandsur, Omega"},
		{Title: "Mynt, riksdaler"},
		{Title: "Ring, guld"},
		{Title: "Tavla, olja"},
	}

	results := processor.ProcessItems(context.Background(), items)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			if res.Snapshot != nil {
				t.Error("expected nil snapshot on error")
			}
		}
	}
	if failures != 2 {
		t.Errorf("expected 2 failures, got %d", failures)
	}
}

func TestBatchProcessor_ProcessItems_Empty(t *testing.T) {
	processor := NewBatchProcessor(func() Analyzer { return &fakeAnalyzer{} }, 2)

	results := processor.ProcessItems(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_LargeBatchDoesNotStall(t *testing.T) {
	// Far more items than the worker count: the pool queues must hold
	// the whole batch, since nothing drains results during submission.
	items := make([]model.ItemAttributes, 30)
	for i := range items {
		items[i] = model.ItemAttributes{Title: fmt.Sprintf("Föremål %d", i+1)}
	}

	processor := NewBatchProcessor(func() Analyzer { return &fakeAnalyzer{} }, 2)

	done := make(chan []*AnalysisResult, 1)
	go func() { done <- processor.ProcessItems(context.Background(), items) }()

	select {
	case results := <-done:
		if len(results) != len(items) {
			t.Fatalf("expected %d results, got %d", len(items), len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("batch stalled with more items than the worker buffers")
	}
}

func TestReadItemsFile_WrappedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	content := `items:
  - object_type: armbandsur
    title: "Omega Seamaster stål"
    cataloger_valuation: 4000
  - title: "Mynt, riksdaler, 1776"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	items, err := ReadItemsFile(path)
	if err != nil {
		t.Fatalf("ReadItemsFile failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ObjectType != "armbandsur" || items[0].CatalogerValuation != 4000 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Title != "Mynt, riksdaler, 1776" {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}

func TestReadItemsFile_BareList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	content := `- title: "Ring, 18k guld, diamant"
- title: "Tavla, olja på duk"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	items, err := ReadItemsFile(path)
	if err != nil {
		t.Fatalf("ReadItemsFile failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestReadItemsFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := ReadItemsFile(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}

	if _, err := ReadItemsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	content := `items:
  - title: "Armbandsur, Certina DS"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	processor := NewBatchProcessor(func() Analyzer { return &fakeAnalyzer{} }, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 1 || results[0].Snapshot == nil {
		t.Errorf("expected one successful result, got %+v", results)
	}
}
