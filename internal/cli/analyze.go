package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finlens/finlens/internal/chat"
	"github.com/finlens/finlens/internal/llm"
	"github.com/finlens/finlens/internal/model"
	"github.com/finlens/finlens/internal/pipeline"
	"github.com/finlens/finlens/internal/report"
)

var (
	analyzeJSON     string
	analyzeNoCache  bool
	analyzeCacheDir string
	analyzeLLM      bool
	analyzeProvider string
	analyzeModel    string
	analyzeTimeout  time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a statement file and print the derived report",
	Long: `Analyze reads a three-column statement file (CSV or HTML table with
label, prior-year value, current-year value), derives growth rates,
composition weights and the current liquidity ratio, and prints the
report.

Example:
  finlens analyze statement.csv
  finlens analyze statement.csv --json report.json
  finlens analyze balance.html --llm --llm-provider gemini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "write enriched statement JSON to path (optional)")

	// Cache flags
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "disable the derivation cache")
	analyzeCmd.Flags().StringVar(&analyzeCacheDir, "cache-dir", "", "persist derived statements under this directory")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&analyzeLLM, "llm", false, "add an AI analyst commentary to the report")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "llm-provider", "gemini", "LLM provider (gemini, openai, ollama)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "llm-model", "", "LLM model name (provider default if empty)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "llm-timeout", 30*time.Second, "LLM request timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(analyzeNoCache, analyzeCacheDir, analyzeProvider, analyzeModel, analyzeTimeout)

	p := pipeline.New(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", args[0])
	}

	st, err := p.AnalyzeFile(args[0])
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	fmt.Println(report.Table(st))
	fmt.Println("Key metrics:")
	fmt.Print(report.MetricsBlock(report.Metrics(st)))

	if analyzeJSON != "" {
		if err := writeStatementJSON(st, analyzeJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", analyzeJSON)
		}
	}

	if !analyzeLLM {
		return nil
	}

	provider, limiter, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Requesting AI commentary from %s...\n", provider.Name())
	}

	analyst := chat.NewAnalyst(provider, limiter)
	comment, err := analyst.Comment(context.Background(), report.Context(st))
	if err != nil {
		// The derived report above is already printed; the commentary
		// failure is local to this request
		fmt.Fprintf(os.Stderr, "AI analysis failed (%s): %v\n", llm.KindOf(err), err)
		return nil
	}

	fmt.Println("\nAI analysis:")
	fmt.Println(comment)
	return nil
}

// buildConfig assembles the effective configuration from defaults and
// command-line flags.
func buildConfig(noCache bool, cacheDir, provider, llmModel string, llmTimeout time.Duration) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Cache.Enabled = !noCache
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	cfg.LLM.Provider = provider
	cfg.LLM.Model = llmModel
	if llmTimeout > 0 {
		cfg.LLM.Timeout = int(llmTimeout.Seconds())
	}
	return cfg
}

// buildProvider constructs the configured LLM provider and its
// throttle, resolving the API key from the environment.
func buildProvider(cfg *model.Config) (llm.Provider, *chat.Limiter, error) {
	key, err := resolveAPIKey(cfg.LLM.Provider)
	if err != nil {
		return nil, nil, err
	}
	cfg.LLM.APIKey = key

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, err
	}
	if provider == nil {
		return nil, nil, fmt.Errorf("no LLM provider configured")
	}

	return provider, chat.NewLimiter(cfg.LLM.RequestsPerMinute, 3), nil
}

func writeStatementJSON(st *model.Statement, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
