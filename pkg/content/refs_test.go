package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	tests := []struct {
		name string
		body *Body
		want []string
	}{
		{
			name: "no references",
			body: NewDocumentBody("plain text"),
			want: []string{},
		},
		{
			name: "single reference",
			body: NewDocumentBody("![diagram](resource://8f14e45f-ceea)"),
			want: []string{"8f14e45f-ceea"},
		},
		{
			name: "multiple references",
			body: NewDocumentBody(
				"see resource://first and ![x](resource://second.png)"),
			want: []string{"first", "second.png"},
		},
		{
			name: "duplicate references count once",
			body: NewDocumentBody("resource://dup resource://dup"),
			want: []string{"dup"},
		},
		{
			name: "presentation references nothing",
			body: NewPresentationBody([]Slide{
				{Title: "resource://not-extracted"},
			}),
			want: []string{},
		},
		{
			name: "nil body references nothing",
			body: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.body.References()
			assert.Len(t, got, len(tt.want))
			for _, id := range tt.want {
				assert.True(t, got.Contains(id), "missing %s", id)
			}
		})
	}
}

func TestRefSetOperations(t *testing.T) {
	a := NewRefSet("one", "two", "three")
	b := NewRefSet("two", "four")

	union := a.Union(b)
	assert.Len(t, union, 4)

	diff := a.Diff(b)
	assert.Len(t, diff, 2)
	assert.True(t, diff.Contains("one"))
	assert.True(t, diff.Contains("three"))
	assert.False(t, diff.Contains("two"))

	assert.Empty(t, NewRefSet().Diff(a))
}
