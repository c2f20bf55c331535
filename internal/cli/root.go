package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "finlens",
	Short: "finlens - Two-period financial statement analysis with AI Q&A",
	Long: `finlens analyzes a two-period financial statement (label, prior-year
value, current-year value per row) and derives:

- growth rates per line item
- composition weights against the total-assets line
- the current liquidity ratio for both periods

The derived report can be rendered as a table, explained by an AI
analyst, or explored interactively in a chat session backed by a
language-model provider (Gemini, OpenAI, or a local Ollama).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for finlens.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("finlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.finlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// API keys commonly live in a local .env; absence is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.finlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match FINLENS_*
	viper.SetEnvPrefix("FINLENS")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// resolveAPIKey finds the credential for a provider from the
// environment. A missing key is a configuration error reported before
// any provider call is attempted.
func resolveAPIKey(provider string) (string, error) {
	switch provider {
	case "gemini", "google":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		return key, nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return key, nil
	case "ollama":
		// Ollama doesn't need an API key
		return "", nil
	default:
		return "", fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
