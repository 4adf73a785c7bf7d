package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/comparia/comparia/internal/cache"
	"github.com/comparia/comparia/internal/model"
	"github.com/comparia/comparia/internal/session"
	"github.com/comparia/comparia/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// market, oracle and vocabulary flags are defined in analyze.go and
	// shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple items from a YAML file in parallel",
	Long: `Batch analyzes a list of cataloging items concurrently:
- Read items from a YAML file (a bare list or an "items:" document)
- Analyze items in parallel, one query session per item
- Write one snapshot JSON per item into the output directory

Example:
  comparia batch items.yaml
  comparia batch items.yaml --concurrency 8 --output-dir ./snapshots
  comparia batch items.yaml --mock --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (0 takes the configured default)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./comparia-snapshots", "output directory for snapshot JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Marketplace flags shared with analyze
	batchCmd.Flags().StringVar(&baseURL, "base-url", "", "marketplace search API base URL (empty selects the offline mock)")
	batchCmd.Flags().BoolVar(&mockMarket, "mock", false, "force the deterministic offline marketplace client")
	batchCmd.Flags().Int64Var(&mockSeed, "seed", 0, "mock client seed (0 derives one from the clock)")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable snapshot cache (force fresh lookups)")
	batchCmd.Flags().StringVar(&vocabFile, "vocabulary", "", "YAML vocabulary overlay file (optional)")

	// Oracle flags
	batchCmd.Flags().StringVar(&oracleName, "oracle", "", "classification oracle provider (openai, ollama)")
	batchCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name (e.g. gpt-4o-mini, llama3.1:8b)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	applyMarketFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if err := configureOracle(cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Comparia Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.Oracle.Provider != "" {
		fmt.Fprintf(os.Stderr, "  Oracle:       %s/%s\n", cfg.Oracle.Provider, cfg.Oracle.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	log := newLogger(cfg.Log)
	client, err := buildSearchClient(cfg)
	if err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	baseOpts := []session.Option{session.WithLogger(log)}
	if vocabFile != "" {
		classifier, err := classifierWithOverlay(vocabFile)
		if err != nil {
			return err
		}
		baseOpts = append(baseOpts, session.WithClassifier(classifier))
	}

	// One shared store lets duplicate items reuse each other's snapshots.
	// Query state stays per session, so items never bleed terms.
	if store := cache.New(cfg.Cache); store != nil {
		baseOpts = append(baseOpts, session.WithStore(store))
	}

	factory := func() worker.Analyzer {
		return session.New(cfg, client, baseOpts...)
	}
	processor := worker.NewBatchProcessor(factory, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing items with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	// Process results
	successCount := 0
	failureCount := 0

	for _, result := range results {
		label := result.Item.Title
		if label == "" {
			label = result.Item.ObjectType
		}

		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", label, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(label)
		path := filepath.Join(outputDir, slug+".json")
		if err := writeSnapshotJSON(result.Snapshot, path); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write snapshot: %v\n", label, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (query %q, confidence %.2f, %d insights)\n",
			label, result.Snapshot.Query, result.Snapshot.CombinedConfidence, len(result.Snapshot.Insights))
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d items\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeSnapshotJSON writes one snapshot to disk as indented JSON
func writeSnapshotJSON(snap *model.MarketSnapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "item"
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Keep names readable in a directory listing
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
