package render

import (
	"fmt"
	"regexp"
	"strings"

	"meetdeck/pkg/llm"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Calibri"
	fontSize  = 12
	titleSize = 20
	slideSize = 15
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// DOCX writes the deck to a Word document at outputPath: summary first, then
// one heading and bullet list per slide.
func DOCX(deck *llm.SlideDeck, title, outputPath string) error {
	if deck == nil {
		return fmt.Errorf("render docx: nil deck")
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	addStyledRun(doc.AddParagraph(""), "Summary", true, slideSize)
	for _, para := range splitParagraphs(deck.Summary) {
		addRichText(doc.AddParagraph(""), para)
	}

	for i, s := range deck.Slides {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", i+1, s.Title), true, slideSize)
		for _, point := range s.Points {
			addRichText(doc.AddParagraph(""), "• "+point)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
