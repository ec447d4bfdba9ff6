package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// WordsPerMinute is the narration pace used for duration estimates.
const WordsPerMinute = 150

type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

type OutlineResult struct {
	Headings         []Heading `json:"headings"`
	Words            int       `json:"words"`
	NarrationMinutes int       `json:"narration_minutes"`
}

// Title is the first level-1 heading, if any.
func (o OutlineResult) Title() string {
	for _, h := range o.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

type Outliner struct {
	md goldmark.Markdown
}

func NewOutliner() *Outliner {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &Outliner{md: md}
}

// Outline parses a normalized script and reports its section headings and
// spoken length. Only text nodes count as words, so markup is not narrated.
func (o *Outliner) Outline(src []byte) OutlineResult {
	ctx := parser.NewContext()
	doc := o.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	var (
		heads []Heading
		words int
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			var idStr string
			if id, ok := node.AttributeString("id"); ok {
				switch v := id.(type) {
				case string:
					idStr = v
				case []byte:
					idStr = string(v)
				}
			}
			heads = append(heads, Heading{
				Level: node.Level,
				ID:    idStr,
				Text:  strings.TrimSpace(nodeText(node, src)),
			})
		case *ast.Text:
			words += len(strings.Fields(string(node.Segment.Value(src))))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				words += len(strings.Fields(string(seg.Value(src))))
			}
		}
		return ast.WalkContinue, nil
	})

	return OutlineResult{
		Headings:         heads,
		Words:            words,
		NarrationMinutes: narrationMinutes(words),
	}
}

func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func narrationMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
