// Package export renders items to portable formats. Export is a read-only
// view over an item's stored body and never mutates store state.
package export

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/scribe/pkg/content"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

// Exporter renders an item body to a byte stream plus its media type.
type Exporter interface {
	Export(item *models.Item, body *content.Body) ([]byte, string, error)
}

// Markdown renders documents as-is and flattens presentations into one
// Markdown section per slide.
type Markdown struct{}

func (Markdown) Export(
	item *models.Item, body *content.Body,
) ([]byte, string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", item.Title)

	switch body.Kind {
	case content.KindDocument:
		b.WriteString(body.Markdown)
		if !strings.HasSuffix(body.Markdown, "\n") {
			b.WriteString("\n")
		}
	case content.KindPresentation:
		for i, slide := range body.Slides {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "## %s\n", slide.Title)
			for _, bullet := range slide.Bullets {
				fmt.Fprintf(&b, "- %s\n", bullet)
			}
		}
	default:
		return nil, "", fmt.Errorf("unknown body kind: %q", body.Kind)
	}

	return []byte(b.String()), "text/markdown; charset=utf-8", nil
}
