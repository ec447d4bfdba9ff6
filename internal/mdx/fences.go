package mdx

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Context window sizes, in runes, around a fenced block.
const (
	ImmediateWindow = 100
	WideWindow      = 200
)

// fenceRe matches a triple-backtick block. The language tag is the bare word
// right after the opening fence; attributes after it (title="...") are
// ignored. A fence without a tag must end its line, so a stray ``` in prose
// never opens a block.
var fenceRe = regexp.MustCompile("(?s)```(?:([\\w+#.-]+)(?:[ \\t][^\\n`]*)?)?[ \\t]*\\n(.*?)```")

// CodeBlockSpan is a fenced block located in a document, together with the
// context captured before any replacement happened.
type CodeBlockSpan struct {
	Text   string
	Lang   string
	Body   string
	Start  int
	End    int
	Before string
	After  string
}

// LocateBlocks returns every fenced block of text in document order. The
// Before/After windows hold up to WideWindow runes of the surrounding text.
func LocateBlocks(text string) []CodeBlockSpan {
	locs := fenceRe.FindAllStringSubmatchIndex(text, -1)
	spans := make([]CodeBlockSpan, 0, len(locs))
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		var lang string
		if loc[2] >= 0 {
			lang = text[loc[2]:loc[3]]
		}
		spans = append(spans, CodeBlockSpan{
			Text:   text[start:end],
			Lang:   lang,
			Body:   text[loc[4]:loc[5]],
			Start:  start,
			End:    end,
			Before: tailRunes(text[:start], WideWindow),
			After:  headRunes(text[end:], WideWindow),
		})
	}
	return spans
}

// splice is the accumulator of the replacement fold: the text rewritten so
// far and the total length change of all replacements applied to it.
type splice struct {
	text  string
	delta int
}

// apply substitutes repl for the span. Span offsets refer to the text before
// any replacement, so they are shifted by the running delta first.
func (s splice) apply(sp CodeBlockSpan, repl string) splice {
	start, end := sp.Start+s.delta, sp.End+s.delta
	return splice{
		text:  s.text[:start] + repl + s.text[end:],
		delta: s.delta + len(repl) - (sp.End - sp.Start),
	}
}

// ReplaceSpans replaces every span (located in text, in ascending order)
// with the string produced by render.
func ReplaceSpans(text string, spans []CodeBlockSpan, render func(CodeBlockSpan) string) string {
	acc := splice{text: text}
	for _, sp := range spans {
		acc = acc.apply(sp, render(sp))
	}
	return acc.text
}

// outsideFences applies fn to the text between fenced blocks and leaves the
// blocks themselves untouched.
func outsideFences(text string, fn func(string) string) string {
	locs := fenceRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return fn(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, loc := range locs {
		b.WriteString(fn(text[prev:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(fn(text[prev:]))
	return b.String()
}

func tailRunes(s string, n int) string {
	i := len(s)
	for k := 0; k < n && i > 0; k++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

func headRunes(s string, n int) string {
	i := 0
	for k := 0; k < n && i < len(s); k++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
