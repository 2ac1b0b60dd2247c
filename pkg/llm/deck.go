package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const MinTranscriptLength = 50

type Slide struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// SlideDeck is the typed view used for rendering. Raw holds the validated
// object exactly as the provider returned it, including keys the typed view
// does not know about.
type SlideDeck struct {
	Summary string          `json:"summary"`
	Slides  []Slide         `json:"slides"`
	Raw     json.RawMessage `json:"-"`
}

// Result is a generated deck together with the provider that produced it.
type Result struct {
	Deck     *SlideDeck
	Provider string
	Model    string
}

// Document returns the provider's object unchanged with provider and model
// added. Decks built without Raw fall back to the typed fields.
func (r *Result) Document() map[string]any {
	doc := make(map[string]any)
	if len(r.Deck.Raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(r.Deck.Raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			doc = make(map[string]any)
		}
	}
	if len(doc) == 0 {
		doc["summary"] = r.Deck.Summary
		doc["slides"] = r.Deck.Slides
	}

	doc["provider"] = r.Provider
	doc["model"] = r.Model
	return doc
}

// ValidateTranscript checks the transcript before any provider is called.
// Length is counted in runes after trimming surrounding whitespace.
func ValidateTranscript(transcript string) error {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return ErrTranscriptEmpty
	}

	n := utf8.RuneCountInString(trimmed)
	if n < MinTranscriptLength {
		return fmt.Errorf("%w: got %d characters, need at least %d", ErrTranscriptTooShort, n, MinTranscriptLength)
	}
	return nil
}
