package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_+-]*")

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = fenceMarker.ReplaceAllString(content, "")
		content = strings.TrimSpace(content)
	}

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// ParseDeck turns raw completion text into a SlideDeck. The object must have
// a truthy summary and an array of slides; slides are not validated
// individually, so a slide without a title or points passes through.
func ParseDeck(raw string) (*SlideDeck, error) {
	content := cleanJSONResponse(raw)

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidShape)
	}

	if !truthy(obj["summary"]) {
		return nil, fmt.Errorf("%w: missing summary", ErrInvalidShape)
	}

	rawSlides, ok := obj["slides"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: slides is not an array", ErrInvalidShape)
	}

	deck := &SlideDeck{
		Summary: summaryText(obj["summary"]),
		Slides:  make([]Slide, 0, len(rawSlides)),
		Raw:     json.RawMessage(content),
	}
	for _, s := range rawSlides {
		deck.Slides = append(deck.Slides, slideFromJSON(s))
	}
	return deck, nil
}

// truthy follows JSON-in-JavaScript truthiness: null, false, 0 and "" fail.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// summaryText flattens a summary into prose. A list of paragraphs is joined
// with blank lines.
func summaryText(v any) string {
	items, ok := v.([]any)
	if !ok {
		return textOf(v)
	}

	paragraphs := make([]string, 0, len(items))
	for _, item := range items {
		if item != nil {
			paragraphs = append(paragraphs, textOf(item))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// textOf returns strings as-is and any other value as compact JSON.
func textOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func slideFromJSON(v any) Slide {
	var slide Slide

	m, ok := v.(map[string]any)
	if !ok {
		return slide
	}

	if title, ok := m["title"].(string); ok {
		slide.Title = title
	}

	points, ok := m["points"].([]any)
	if !ok {
		return slide
	}
	slide.Points = make([]string, 0, len(points))
	for _, p := range points {
		if p != nil {
			slide.Points = append(slide.Points, textOf(p))
		}
	}
	return slide
}
