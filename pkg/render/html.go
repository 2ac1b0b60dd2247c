package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"meetdeck/pkg/llm"

	"github.com/yuin/goldmark"
)

const DefaultTitle = "Meeting Summary"

// Raw HTML in model output is dropped: goldmark runs without WithUnsafe.
var markdown = goldmark.New()

var pageTemplate = template.Must(template.New("deck").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 0; background: #f3f4f6; color: #111827; }
  header { padding: 32px 48px 0; }
  header h1 { margin: 0 0 4px; font-size: 28px; }
  header p { margin: 0; color: #6b7280; font-size: 13px; }
  section.summary { background: #fff; margin: 24px 48px; padding: 24px 32px; border-radius: 8px; line-height: 1.6; }
  section.slide { background: #fff; margin: 24px 48px; padding: 40px 48px; border-radius: 8px; min-height: 320px; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
  section.slide .number { color: #9ca3af; font-size: 12px; text-transform: uppercase; letter-spacing: .08em; }
  section.slide h2 { margin: 8px 0 24px; font-size: 26px; color: #1e3a8a; }
  section.slide li { margin: 0 0 12px; font-size: 18px; line-height: 1.5; }
  @media print {
    body { background: #fff; }
    section.summary, section.slide { box-shadow: none; margin: 0; border-radius: 0; page-break-after: always; }
  }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p>Generated {{.Generated}} &middot; {{len .Slides}} slides</p>
</header>
<section class="summary">
  <h2>Summary</h2>
  {{.Summary}}
</section>
{{range $i, $s := .Slides}}<section class="slide">
  <div class="number">Slide {{inc $i}}</div>
  <h2>{{$s.Title}}</h2>
  <ul>
  {{range $s.Points}}<li>{{.}}</li>
  {{end}}</ul>
</section>
{{end}}</body>
</html>
`))

type pageSlide struct {
	Title  string
	Points []template.HTML
}

type page struct {
	Title     string
	Generated string
	Summary   template.HTML
	Slides    []pageSlide
}

// HTML writes the deck as a standalone, printable HTML document.
func HTML(w io.Writer, deck *llm.SlideDeck, title string) error {
	if deck == nil {
		return fmt.Errorf("render html: nil deck")
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	summary, err := toHTML(deck.Summary)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	p := page{
		Title:     title,
		Generated: time.Now().Format("2006-01-02 15:04"),
		Summary:   summary,
		Slides:    make([]pageSlide, 0, len(deck.Slides)),
	}

	for i, s := range deck.Slides {
		slide := pageSlide{Title: s.Title}
		for _, point := range s.Points {
			h, err := inlineHTML(point)
			if err != nil {
				return fmt.Errorf("render slide %d: %w", i+1, err)
			}
			slide.Points = append(slide.Points, h)
		}
		p.Slides = append(p.Slides, slide)
	}

	return pageTemplate.Execute(w, p)
}

func toHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// inlineHTML renders a single bullet without the wrapping paragraph.
func inlineHTML(md string) (template.HTML, error) {
	h, err := toHTML(md)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(h))
	s = strings.TrimPrefix(s, "<p>")
	s = strings.TrimSuffix(s, "</p>")
	return template.HTML(s), nil
}
