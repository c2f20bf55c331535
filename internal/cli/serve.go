package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finlens/finlens/internal/api"
	"github.com/finlens/finlens/internal/chat"
	"github.com/finlens/finlens/internal/llm"
	"github.com/finlens/finlens/internal/pipeline"
)

var (
	serveAddr     string
	serveCacheDir string
	serveProvider string
	serveModel    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve starts the HTTP API:

  POST /api/analyze  multipart statement upload, returns the derived report
  POST /api/chat     one conversation turn about an analyzed statement
  GET  /api/health   liveness check

The chat endpoint is stateless: clients hold their own conversation
history and identify the statement by the fingerprint returned from
/api/analyze. When no LLM provider is configured the analyze endpoint
still works and chat returns a configuration error.

Example:
  finlens serve
  finlens serve --addr :9090 --llm-provider gemini`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringVar(&serveCacheDir, "cache-dir", "", "persist derived statements under this directory")
	serveCmd.Flags().StringVar(&serveProvider, "llm-provider", "", "LLM provider (gemini, openai, ollama; empty = chat disabled)")
	serveCmd.Flags().StringVar(&serveModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(false, serveCacheDir, serveProvider, serveModel, 0)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	var provider llm.Provider
	var limiter *chat.Limiter
	if cfg.LLM.Provider != "" {
		var err error
		provider, limiter, err = buildProvider(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "LLM provider: %s\n", provider.Name())
	} else {
		fmt.Fprintln(os.Stderr, "No LLM provider configured; /api/chat is disabled")
	}

	handler := &api.Handler{
		Pipeline:       pipeline.New(cfg),
		Provider:       provider,
		Limiter:        limiter,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // chat turns wait on the provider
	}

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	return server.ListenAndServe()
}
