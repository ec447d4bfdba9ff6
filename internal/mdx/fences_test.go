package mdx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateBlocks(t *testing.T) {
	text := "Intro\n```go title=\"main.go\"\nfmt.Println(1)\n```\nmid\n```\nplain\n```\n"
	spans := LocateBlocks(text)
	require.Len(t, spans, 2)

	assert.Equal(t, "go", spans[0].Lang)
	assert.Equal(t, "fmt.Println(1)\n", spans[0].Body)
	assert.Equal(t, text[spans[0].Start:spans[0].End], spans[0].Text)
	assert.Equal(t, "Intro\n", spans[0].Before)

	assert.Equal(t, "", spans[1].Lang)
	assert.Equal(t, "plain\n", spans[1].Body)
	assert.Equal(t, "\n", spans[1].After)
}

func TestLocateBlocksStrayFenceInProse(t *testing.T) {
	text := "Type ``` to open a fence.\n\nKEEP\n\n```js\nlet a = 1;\n```\n"
	spans := LocateBlocks(text)
	require.Len(t, spans, 1)
	assert.Equal(t, "js", spans[0].Lang)
	assert.Equal(t, "let a = 1;\n", spans[0].Body)
	assert.Equal(t, strings.Index(text, "```js"), spans[0].Start)

	assert.Empty(t, LocateBlocks("A bare ``` marker and ```another``` one.\n"))
}

func TestLocateBlocksUnclosedFenceIsIgnored(t *testing.T) {
	assert.Empty(t, LocateBlocks("Intro\n```js\nconst a = 1;\n"))
}

func TestReplaceSpansKeepsProseStable(t *testing.T) {
	prose := []string{
		"# Title\n\nFirst paragraph.\n\n",
		"\n\nBetween one and two, with ❌ glyphs.\n\n",
		"\n\nA much longer paragraph " + strings.Repeat("of filler ", 30) + "\n\n",
		"\n\nTrailing prose.\n",
	}
	blocks := []string{
		"```js\nfunction addItem(item) {\n  return cart.push(item);\n}\n```",
		"```bash\nnpm i\n```",
		"```python\n" + strings.Repeat("print('line')\n", 12) + "```",
	}
	doc := prose[0] + blocks[0] + prose[1] + blocks[1] + prose[2] + blocks[2] + prose[3]

	spans := LocateBlocks(doc)
	require.Len(t, spans, 3)

	// replacements shorter, equal-ish and longer than the originals
	repl := []string{"[A]", "[" + strings.Repeat("b", len(blocks[1])) + "]", "[" + strings.Repeat("c", 400) + "]"}
	i := 0
	got := ReplaceSpans(doc, spans, func(sp CodeBlockSpan) string {
		r := repl[i]
		i++
		return r
	})
	want := prose[0] + repl[0] + prose[1] + repl[1] + prose[2] + repl[2] + prose[3]
	assert.Equal(t, want, got)

	described := DescribeCodeBlocks(doc)
	var b strings.Builder
	for k, sp := range spans {
		b.WriteString(prose[k])
		b.WriteString(DescribeBlock(sp.Text, sp.Before, sp.After))
	}
	b.WriteString(prose[3])
	assert.Equal(t, b.String(), described)
	assert.NotContains(t, described, "```")
}

func TestOutsideFencesLeavesBlocksAlone(t *testing.T) {
	text := "a <b>\n```html\n<b>keep</b>\n```\nc <b>"
	got := outsideFences(text, stripHTML)
	assert.Equal(t, "a \n```html\n<b>keep</b>\n```\nc ", got)
}

func TestRuneWindows(t *testing.T) {
	assert.Equal(t, "❌b", tailRunes("a❌b", 2))
	assert.Equal(t, "a❌", headRunes("a❌b", 2))
	assert.Equal(t, "ab", tailRunes("ab", 10))
	assert.Equal(t, "", headRunes("", 3))
}
