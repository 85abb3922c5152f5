// Package content defines the variant body payload carried by items and the
// extraction of embedded resource references from it.
//
// A document body is serialized rich markup (markdown) that may embed zero or
// more resource references. A presentation body is an ordered list of slides,
// each a title plus an ordered list of bullet strings. Both variants share the
// same lifecycle semantics; only the payload shape differs.
package content

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind discriminates the body payload variant.
type Kind string

const (
	KindDocument     Kind = "document"
	KindPresentation Kind = "presentation"
)

// Slide is a single presentation slide.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Body is the tagged-union payload stored in an item's body column.
// Exactly one of Markdown or Slides is meaningful, selected by Kind.
type Body struct {
	Kind     Kind    `json:"kind"`
	Markdown string  `json:"markdown,omitempty"`
	Slides   []Slide `json:"slides,omitempty"`
}

// NewDocumentBody returns a document body wrapping the given markup.
func NewDocumentBody(markdown string) *Body {
	return &Body{Kind: KindDocument, Markdown: markdown}
}

// NewPresentationBody returns a presentation body wrapping the given slides.
func NewPresentationBody(slides []Slide) *Body {
	return &Body{Kind: KindPresentation, Slides: slides}
}

// Validate checks that the body kind is known and the payload matches it.
func (b *Body) Validate() error {
	if err := validation.ValidateStruct(b,
		validation.Field(&b.Kind, validation.Required,
			validation.In(KindDocument, KindPresentation)),
	); err != nil {
		return err
	}
	switch b.Kind {
	case KindDocument:
		if b.Slides != nil {
			return fmt.Errorf("document body must not carry slides")
		}
	case KindPresentation:
		if b.Markdown != "" {
			return fmt.Errorf("presentation body must not carry markup")
		}
	}
	return nil
}

// DeepCopy returns a structurally independent copy of the body. Embedded
// resource references are copied by value, so the copy points at the same
// underlying resource files as the original.
func (b *Body) DeepCopy() *Body {
	if b == nil {
		return nil
	}
	out := &Body{Kind: b.Kind, Markdown: b.Markdown}
	if b.Slides != nil {
		out.Slides = make([]Slide, len(b.Slides))
		for i, s := range b.Slides {
			out.Slides[i] = Slide{Title: s.Title}
			if s.Bullets != nil {
				out.Slides[i].Bullets = append([]string{}, s.Bullets...)
			}
		}
	}
	return out
}

// Marshal serializes the body for storage.
func (b *Body) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

// Unmarshal deserializes a stored body payload.
func Unmarshal(data []byte) (*Body, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body payload")
	}
	var b Body
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("error unmarshaling body payload: %w", err)
	}
	return &b, nil
}
