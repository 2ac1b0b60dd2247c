package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"meetdeck/pkg/llm"
	"meetdeck/pkg/render"

	"github.com/spf13/cobra"
)

var (
	summarizeOutput   string
	summarizeHTML     string
	summarizeDOCX     string
	summarizeTitle    string
	summarizeProvider string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [transcript-file]",
	Short: "Generate a slide deck from a transcript",
	Long: `Generate a summary and slide deck from a meeting transcript.

Reads the transcript from the given file, or from stdin when no file
(or "-") is given. The deck is written to stdout as JSON unless --output
is set.

Examples:
  slidegen summarize standup.txt
  slidegen summarize standup.txt --html standup.html --docx standup.docx
  cat standup.txt | slidegen summarize --provider gemini -o deck.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVarP(&summarizeOutput, "output", "o", "", "Write the deck JSON to this file instead of stdout")
	summarizeCmd.Flags().StringVar(&summarizeHTML, "html", "", "Also export the deck as a standalone HTML file")
	summarizeCmd.Flags().StringVar(&summarizeDOCX, "docx", "", "Also export the deck as a Word document")
	summarizeCmd.Flags().StringVar(&summarizeTitle, "title", render.DefaultTitle, "Title used for HTML and DOCX exports")
	summarizeCmd.Flags().StringVar(&summarizeProvider, "provider", "", "Use only this provider (huggingface, gemini, anthropic)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	transcript, err := readTranscript(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return summarizeTranscript(cmd, transcript)
}

// summarizeTranscript runs generation and writes every requested output.
func summarizeTranscript(cmd *cobra.Command, transcript string) error {
	ctx := cmd.Context()

	dispatcher, err := newDispatcher(ctx, summarizeProvider)
	if err != nil {
		return err
	}

	result, err := dispatcher.GenerateDeck(ctx, transcript)
	if err != nil {
		return fmt.Errorf("failed to generate summary: %w", err)
	}

	out := cmd.OutOrStdout()
	if summarizeOutput != "" {
		f, err := os.Create(summarizeOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeDeckJSON(out, result); err != nil {
		return err
	}

	if summarizeHTML != "" {
		f, err := os.Create(summarizeHTML)
		if err != nil {
			return fmt.Errorf("failed to create HTML file: %w", err)
		}
		defer f.Close()

		if err := render.HTML(f, result.Deck, summarizeTitle); err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "HTML written to %s\n", summarizeHTML)
	}

	if summarizeDOCX != "" {
		if err := render.DOCX(result.Deck, summarizeTitle, summarizeDOCX); err != nil {
			return fmt.Errorf("failed to render DOCX: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "DOCX written to %s\n", summarizeDOCX)
	}

	return nil
}

func newDispatcher(ctx context.Context, only string) (*llm.Dispatcher, error) {
	settings, err := selectProviders(cfg.ProviderSettings(), only)
	if err != nil {
		return nil, err
	}

	providers, err := llm.NewProviders(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}
	return llm.NewDispatcher(providers...).WithAttemptTimeout(cfg.Server.RequestTimeout), nil
}

// selectProviders narrows the configured providers to the one named, or
// returns them unchanged when name is empty.
func selectProviders(settings []llm.ProviderSettings, name string) ([]llm.ProviderSettings, error) {
	if name == "" {
		return settings, nil
	}

	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range settings {
		if s.Name == name {
			return []llm.ProviderSettings{s}, nil
		}
	}
	return nil, fmt.Errorf("provider %q is not configured", name)
}

func readTranscript(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}

	return string(data), nil
}

func writeDeckJSON(w io.Writer, result *llm.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(result.Document()); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	return nil
}
