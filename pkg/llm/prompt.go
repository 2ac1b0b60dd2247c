package llm

import "fmt"

const promptVersion = "v1"

const deckPrompt = `You are an expert meeting analyst and presentation designer. Read the meeting transcript below and produce two things.

1. A summary of the meeting in 2-3 paragraphs. Cover the main topics, the decisions that were made and the action items with their owners when they are mentioned.
2. A slide outline of 5-8 slides. Each slide has a short title and 3-5 concise bullet points.

Format the result as a JSON object with exactly this structure:
{
  "summary": "the 2-3 paragraph summary",
  "slides": [
    {
      "title": "slide title",
      "points": ["bullet point 1", "bullet point 2", "bullet point 3"]
    }
  ]
}

Return ONLY valid JSON, no additional text or markdown.

Transcript:
---
%s
---`

// BuildDeckPrompt returns the provider-independent instruction for the
// given transcript.
func BuildDeckPrompt(transcript string) string {
	return fmt.Sprintf(deckPrompt, transcript)
}
