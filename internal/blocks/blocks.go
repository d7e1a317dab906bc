// Package blocks is the thin external collaborator §1 calls out: it
// walks a goldmark Markdown AST and flattens it into the stream of block
// events (heading, paragraph, code-block) the extractor consumes. It
// carries no task semantics of its own — callers that want metadata must
// look inside the raw text of each event themselves.
package blocks

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kind identifies the shape of a block event.
type Kind int

const (
	KindHeading Kind = iota
	KindParagraph
	KindCodeBlock
)

// Event is one block-level unit of a Markdown document, in document
// order.
type Event struct {
	Kind  Kind
	Line  int    // 1-based line number of the block's first line
	Level int    // heading depth (1-6); zero for non-heading events
	Text  string // raw source text of the block, before inline parsing
}

// Parse walks source with goldmark and returns its block events in
// document order. Only headings, paragraphs, and code blocks (fenced or
// indented) are surfaced — list markers, blockquote markers, thematic
// breaks, and the like are not part of the grammar this package's
// callers care about.
func Parse(source []byte) []Event {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var events []Event
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			events = append(events, Event{
				Kind:  KindHeading,
				Line:  lineAt(source, node),
				Level: node.Level,
				Text:  rawText(source, node),
			})
		case *ast.Paragraph:
			events = append(events, Event{
				Kind: KindParagraph,
				Line: lineAt(source, node),
				Text: rawText(source, node),
			})
		case *ast.FencedCodeBlock:
			events = append(events, Event{
				Kind: KindCodeBlock,
				Line: lineAt(source, node),
				Text: rawText(source, node),
			})
		case *ast.CodeBlock:
			events = append(events, Event{
				Kind: KindCodeBlock,
				Line: lineAt(source, node),
				Text: rawText(source, node),
			})
		}

		return ast.WalkContinue, nil
	})

	return events
}

// linesOf is satisfied by any goldmark block node: it exposes the raw
// source lines the node spans, before inline parsing rewrites its
// children.
type linesOf interface {
	Lines() *text.Segments
}

func rawText(source []byte, n linesOf) string {
	lines := n.Lines()
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func lineAt(source []byte, n linesOf) int {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0
	}
	offset := lines.At(0).Start
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
