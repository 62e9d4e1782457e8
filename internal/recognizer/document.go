// Package recognizer models the output of the external text-recognition
// engine and provides the HTTP client used to reach it. The engine itself is
// an opaque collaborator; this package never interprets image content.
package recognizer

import (
	"context"
	"fmt"
	"strings"
)

// Line is a single recognized text line.
type Line struct {
	Text string `json:"text"`
}

// Block is an ordered group of lines as emitted by the recognizer. Block
// order reflects the engine's internal layout traversal and is
// platform-dependent; it is not guaranteed to be reading order.
type Block struct {
	Lines []Line `json:"lines"`
}

// Document is the full recognition result for one image. Immutable once
// produced.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Engine produces a Document from encoded image bytes. Recognize is the one
// potentially blocking call in an extraction; callers cancel it through ctx.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (*Document, error)
}

// RecognitionError reports a failed recognition call.
type RecognitionError struct {
	Status  int
	Message string
}

func (e *RecognitionError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("recognition failed (status %d): %s", e.Status, e.Message)
	}
	return "recognition failed: " + e.Message
}

// Lines flattens the document into its line texts in block order.
func (d *Document) Lines() []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, b := range d.Blocks {
		for _, l := range b.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

// BlockTexts returns one string per block, lines joined with newlines.
func (d *Document) BlockTexts() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts := make([]string, 0, len(b.Lines))
		for _, l := range b.Lines {
			parts = append(parts, l.Text)
		}
		out = append(out, strings.Join(parts, "\n"))
	}
	return out
}

// Text joins every line in the document with newlines.
func (d *Document) Text() string {
	return strings.Join(d.Lines(), "\n")
}

// Empty reports whether the document contains no text at all.
func (d *Document) Empty() bool {
	if d == nil {
		return true
	}
	for _, b := range d.Blocks {
		for _, l := range b.Lines {
			if strings.TrimSpace(l.Text) != "" {
				return false
			}
		}
	}
	return true
}

// FromLines builds a single-block document, one line per entry. Intended for
// tests and for replaying stored recognition output.
func FromLines(lines ...string) *Document {
	b := Block{Lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		b.Lines = append(b.Lines, Line{Text: l})
	}
	return &Document{Blocks: []Block{b}}
}

// FromBlocks builds a document with one block per entry, splitting each
// entry into lines at newlines.
func FromBlocks(blocks ...string) *Document {
	d := &Document{Blocks: make([]Block, 0, len(blocks))}
	for _, text := range blocks {
		b := Block{}
		for _, l := range strings.Split(text, "\n") {
			b.Lines = append(b.Lines, Line{Text: l})
		}
		d.Blocks = append(d.Blocks, b)
	}
	return d
}
