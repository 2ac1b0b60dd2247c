package cli

import (
	"fmt"
	"log/slog"
	"os"

	"meetdeck/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

// SetVersion sets the version reported by --version.
func SetVersion(version string) {
	rootCmd.Version = version
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slidegen",
	Short: "Turn meeting transcripts into slide decks",
	Long: `slidegen - summarize meeting transcripts into presentation slides

Uses the same providers and configuration as the HTTP API: Hugging Face
first, Gemini as fallback, configured through .env, environment variables
or a YAML file passed with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()

		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_FILE")
		}

		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: $CONFIG_FILE)")
}
