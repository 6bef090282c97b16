package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/lasso/internal/domain"
)

// minWrapWidth keeps narrow terminals from collapsing rendered markdown.
const minWrapWidth = 24

// markdownRenderer renders markdown for terminal views and rebuilds the
// glamour renderer only when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI-styled text wrapped at width. Render
// failures fall back to the raw markdown.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(width, minWrapWidth)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}
	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// selectionMarkdown lists selected catalog items in selection order, at most
// limit of them.
func selectionMarkdown(items []domain.CatalogItem, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Selection (%d)\n\n", len(items))
	if len(items) == 0 {
		b.WriteString("_Nothing selected._\n")
		return b.String()
	}
	for idx, item := range items {
		if limit > 0 && idx == limit {
			fmt.Fprintf(&b, "\n…and %d more\n", len(items)-limit)
			break
		}
		fmt.Fprintf(&b, "- **%s** `%s`", item.Label, item.Kind)
		if item.Notes != "" {
			b.WriteString(" " + item.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}
