package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/scribe/pkg/content"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

func TestMarkdownExportDocument(t *testing.T) {
	item := &models.Item{Title: "Plan"}
	body := content.NewDocumentBody("Some **bold** text.")

	got, contentType, err := Markdown{}.Export(item, body)
	require.NoError(t, err)

	assert.Equal(t, "text/markdown; charset=utf-8", contentType)
	assert.Equal(t, "# Plan\n\nSome **bold** text.\n", string(got))
}

func TestMarkdownExportPresentation(t *testing.T) {
	item := &models.Item{Title: "Deck"}
	body := content.NewPresentationBody([]content.Slide{
		{Title: "Intro", Bullets: []string{"one", "two"}},
		{Title: "Outro", Bullets: []string{"bye"}},
	})

	got, _, err := Markdown{}.Export(item, body)
	require.NoError(t, err)

	want := "# Deck\n\n" +
		"## Intro\n- one\n- two\n\n" +
		"## Outro\n- bye\n"
	assert.Equal(t, want, string(got))
}

func TestMarkdownExportUnknownKind(t *testing.T) {
	_, _, err := Markdown{}.Export(
		&models.Item{Title: "X"}, &content.Body{Kind: "spreadsheet"})
	assert.Error(t, err)
}
