package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comparia/comparia/internal/classify"
	"github.com/comparia/comparia/internal/marketdata"
	"github.com/comparia/comparia/internal/model"
	"github.com/comparia/comparia/internal/session"
)

var (
	objectType  string
	description string
	valuation   int
	vocabFile   string
	outJSON     bool
	mockMarket  bool
	mockSeed    int64
	baseURL     string
	httpProxy   string
	httpsProxy  string
	noCache     bool
	timeout     time.Duration
	oracleName  string
	oracleModel string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <title>",
	Short: "Analyze one item and print its market snapshot",
	Long: `Analyze classifies an auction item and resolves comparable market data:
- Extract typed terms (brand, material, gemstone, period ...) from the text
- Synthesize the initial search query with a strategy confidence
- Walk ended and live listings through progressive query relaxation
- Fuse both markets into significance-ranked insights

Example:
  comparia analyze "Omega Seamaster automatic stål 1965" --type armbandsur
  comparia analyze "Armband 18K guld med briljanter" --type armband --valuation 12000
  comparia analyze "Rolex Datejust" --type armbandsur --oracle openai --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Item flags
	analyzeCmd.Flags().StringVar(&objectType, "type", "", "object type from the cataloging form (e.g. armbandsur)")
	analyzeCmd.Flags().StringVar(&description, "description", "", "longer item description (optional)")
	analyzeCmd.Flags().IntVar(&valuation, "valuation", 0, "cataloger valuation in whole currency units")
	analyzeCmd.Flags().StringVar(&vocabFile, "vocabulary", "", "YAML vocabulary overlay file (optional)")

	// Marketplace flags
	analyzeCmd.Flags().StringVar(&baseURL, "base-url", "", "marketplace search API base URL (empty selects the offline mock)")
	analyzeCmd.Flags().BoolVar(&mockMarket, "mock", false, "force the deterministic offline marketplace client")
	analyzeCmd.Flags().Int64Var(&mockSeed, "seed", 0, "mock client seed (0 derives one from the clock)")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable snapshot cache (force fresh lookups)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")

	// Oracle flags
	analyzeCmd.Flags().StringVar(&oracleName, "oracle", "", "classification oracle provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name (e.g. gpt-4o-mini, llama3.1:8b)")

	// Output flags
	analyzeCmd.Flags().BoolVar(&outJSON, "json", false, "print the snapshot as JSON instead of a report")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	item := model.ItemAttributes{
		ObjectType:         objectType,
		Title:              args[0],
		Description:        description,
		CatalogerValuation: valuation,
	}

	cfg := loadConfig()
	applyMarketFlags(cfg)
	if err := configureOracle(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := newLogger(cfg.Log)
	client, err := buildSearchClient(cfg)
	if err != nil {
		return err
	}

	opts := []session.Option{session.WithLogger(log)}
	if vocabFile != "" {
		classifier, err := classifierWithOverlay(vocabFile)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithClassifier(classifier))
	}

	sess := session.New(cfg, client, opts...)
	snapshot, err := sess.Analyze(ctx, item)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outJSON {
		return printJSON(os.Stdout, snapshot)
	}
	printSnapshot(os.Stdout, snapshot)
	return nil
}

// applyMarketFlags overlays marketplace and cache flags onto the config
func applyMarketFlags(cfg *model.Config) {
	if baseURL != "" {
		cfg.Marketplace.BaseURL = baseURL
	}
	if mockMarket {
		cfg.Marketplace.Mock = true
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if oracleName != "" {
		cfg.Oracle.Provider = oracleName
	}
	if oracleModel != "" {
		cfg.Oracle.Model = oracleModel
	}
}

// configureOracle resolves oracle credentials from the environment for
// the configured provider
func configureOracle(cfg *model.Config) error {
	switch cfg.Oracle.Provider {
	case "openai":
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.Oracle.BaseURL == "" {
			cfg.Oracle.BaseURL = baseURL
		}
	}
	return nil
}

// buildSearchClient selects the marketplace client. An empty base URL
// falls back to the deterministic offline mock.
func buildSearchClient(cfg *model.Config) (marketdata.SearchClient, error) {
	if cfg.Marketplace.Mock || cfg.Marketplace.BaseURL == "" {
		return marketdata.NewMockClient(mockSeed), nil
	}
	return marketdata.NewHTTPClient(marketdata.HTTPOptions{
		BaseURL:           cfg.Marketplace.BaseURL,
		UserAgent:         cfg.HTTP.UserAgent,
		Timeout:           cfg.HTTP.Timeout,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		RespectRobots:     cfg.Marketplace.RespectRobots,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
}

// classifierWithOverlay builds a classifier whose vocabulary is extended
// from a YAML overlay file
func classifierWithOverlay(path string) (*classify.Classifier, error) {
	overlay, err := classify.LoadVocabularyOverlay(path)
	if err != nil {
		return nil, err
	}
	registry := classify.NewRegistry()
	registry.ApplyOverlay(overlay)
	return classify.NewClassifierWithRegistry(registry), nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printSnapshot renders a snapshot as a human-readable report
func printSnapshot(w io.Writer, snap *model.MarketSnapshot) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Market Snapshot\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Query:       %q\n", snap.Query)
	if snap.StrategyTag != "" {
		fmt.Fprintf(w, "  Strategy:    %s\n", snap.StrategyTag)
	}
	fmt.Fprintf(w, "  Confidence:  %.2f\n", snap.CombinedConfidence)
	fmt.Fprintf(w, "\n")

	if hist := snap.Historical; hist != nil {
		fmt.Fprintf(w, "  Historical:  %d sales, %d-%d (median %d) via %q\n",
			hist.SampleSize, hist.PriceRange.Low, hist.PriceRange.High, hist.PriceRange.Median, hist.Query)
		printAttempts(w, hist.Attempts)
	} else {
		fmt.Fprintf(w, "  Historical:  no comparable sales\n")
	}
	if live := snap.Live; live != nil {
		fmt.Fprintf(w, "  Live:        %d listings, avg estimate %d, %d bids, %.0f%% reserve met via %q\n",
			live.SampleSize, live.AvgEstimate, live.TotalBids, live.ReserveMetPct, live.Query)
		printAttempts(w, live.Attempts)
	} else {
		fmt.Fprintf(w, "  Live:        no comparable listings\n")
	}
	fmt.Fprintf(w, "\n")

	if len(snap.Insights) == 0 {
		fmt.Fprintf(w, "  No insights: not enough comparable data.\n")
	}
	for _, ins := range snap.Insights {
		fmt.Fprintf(w, "  %s %s\n", significanceMarker(ins.Significance), ins.Message)
	}
	fmt.Fprintf(w, "\n")
}

// printAttempts shows the relaxation ladder trail in verbose mode
func printAttempts(w io.Writer, attempts []model.SearchAttempt) {
	if !verbose {
		return
	}
	for _, a := range attempts {
		mark := "✗"
		if a.Succeeded {
			mark = "✓"
		}
		note := ""
		if a.Emergency {
			note = " (emergency)"
		}
		fmt.Fprintf(w, "               %s %q -> %d results%s\n", mark, a.Query, a.ResultCount, note)
	}
}

func significanceMarker(s model.Significance) string {
	switch s {
	case model.SignificanceHigh:
		return "‼"
	case model.SignificanceMedium:
		return "•"
	default:
		return "·"
	}
}
