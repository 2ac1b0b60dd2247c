package handler

import "meetdeck/pkg/llm"

type SummarizeRequest struct {
	Transcript string `json:"transcript"`
}

type SlideResponse struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

type HealthResponse struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	Providers     []string `json:"providers"`
	Transcription bool     `json:"transcription"`
}

type ExportRequest struct {
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Slides  []SlideResponse `json:"slides"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func (r ExportRequest) toDeck() *llm.SlideDeck {
	deck := &llm.SlideDeck{
		Summary: r.Summary,
		Slides:  make([]llm.Slide, len(r.Slides)),
	}
	for i, s := range r.Slides {
		deck.Slides[i] = llm.Slide{Title: s.Title, Points: s.Points}
	}
	return deck
}
