package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finlens/finlens/internal/chat"
	"github.com/finlens/finlens/internal/llm"
	"github.com/finlens/finlens/internal/pipeline"
	"github.com/finlens/finlens/internal/report"
)

var (
	chatNoCache  bool
	chatCacheDir string
	chatProvider string
	chatModel    string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Ask questions about an analyzed statement interactively",
	Long: `Chat analyzes the given statement file, prints the derived report,
and opens an interactive session where questions are answered by the
configured language-model provider grounded in the derived numbers.

The analyzed data is resent with every turn, so each answer stays
anchored to the statement. Type "exit" or "quit" (or press Ctrl-D) to
leave the session.

Example:
  finlens chat statement.csv
  finlens chat balance.html --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&chatNoCache, "no-cache", false, "disable the derivation cache")
	chatCmd.Flags().StringVar(&chatCacheDir, "cache-dir", "", "persist derived statements under this directory")
	chatCmd.Flags().StringVar(&chatProvider, "llm-provider", "gemini", "LLM provider (gemini, openai, ollama)")
	chatCmd.Flags().StringVar(&chatModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(chatNoCache, chatCacheDir, chatProvider, chatModel, 0)

	provider, limiter, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	st, err := p.AnalyzeFile(args[0])
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	fmt.Println(report.Table(st))
	fmt.Println("Key metrics:")
	fmt.Print(report.MetricsBlock(report.Metrics(st)))
	fmt.Println()
	fmt.Println("Ask about the statement. Type 'exit' to quit.")

	session := chat.NewSession(provider, limiter, report.Context(st))
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		reply, err := session.Ask(context.Background(), question)
		if err != nil {
			// A failed turn doesn't end the session
			fmt.Fprintf(os.Stderr, "Error (%s): %v\n", llm.KindOf(err), err)
			continue
		}

		fmt.Println(reply)
		fmt.Println()
	}

	return scanner.Err()
}
