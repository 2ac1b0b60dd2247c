package cli

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"meetdeck/pkg/asr"
	"meetdeck/pkg/render"

	"github.com/spf13/cobra"
)

var transcribeSummarize bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a meeting recording",
	Long: `Transcribe an audio recording with the Hugging Face speech model.

The transcript is printed to stdout. With --summarize the transcript is
passed straight to deck generation; the summarize flags (--output, --html,
--docx, --title, --provider) apply.

Examples:
  slidegen transcribe standup.mp3
  slidegen transcribe standup.webm --summarize --html standup.html`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().BoolVar(&transcribeSummarize, "summarize", false, "Generate a slide deck from the transcript")
	transcribeCmd.Flags().StringVarP(&summarizeOutput, "output", "o", "", "Write the deck JSON to this file instead of stdout")
	transcribeCmd.Flags().StringVar(&summarizeHTML, "html", "", "Also export the deck as a standalone HTML file")
	transcribeCmd.Flags().StringVar(&summarizeDOCX, "docx", "", "Also export the deck as a Word document")
	transcribeCmd.Flags().StringVar(&summarizeTitle, "title", render.DefaultTitle, "Title used for HTML and DOCX exports")
	transcribeCmd.Flags().StringVar(&summarizeProvider, "provider", "", "Use only this provider (huggingface, gemini, anthropic)")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	path := args[0]

	contentType, err := audioContentType(path)
	if err != nil {
		return err
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	var client asr.Transcriber = asr.NewHuggingFaceClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.TranscribeModel, cfg.TranscriptionOptions())
	slog.Debug("transcribing", "file", path, "content_type", contentType, "size", len(audio), "provider", client.Name())

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
	defer cancel()

	transcript, err := client.Transcribe(ctx, audio, contentType)
	if err != nil {
		return fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if !transcribeSummarize {
		fmt.Fprintln(cmd.OutOrStdout(), transcript)
		return nil
	}

	return summarizeTranscript(cmd, transcript)
}

// audioContentType maps a file extension to the audio MIME type sent
// upstream, preferring audioTypes over the system MIME table.
func audioContentType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	ct, ok := audioTypes[ext]
	if !ok {
		ct = mime.TypeByExtension(ext)
	}
	if !strings.HasPrefix(ct, "audio/") {
		return "", fmt.Errorf("unsupported audio file %q", filepath.Base(path))
	}
	return ct, nil
}

// webm and m4a map to video/* in some system MIME tables.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".aac":  "audio/aac",
	".opus": "audio/opus",
}
