package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestParseFrontMatter(t *testing.T) {
	raw := []byte("---\r\ntitle: Context Windows\r\nsidebar_position: 3\r\ntags: [LLM, Prompts]\r\n---\r\n# Body\r\n")
	fm, body, err := ParseFrontMatter(raw)
	require.NoError(t, err)
	assert.Equal(t, "Context Windows", fm.Title)
	assert.Equal(t, 3, fm.Position)
	assert.Equal(t, []string{"LLM", "Prompts"}, fm.Tags)
	assert.Equal(t, "# Body\n", string(body))
}

func TestParseFrontMatterVariants(t *testing.T) {
	_, body, err := ParseFrontMatter([]byte("# No header"))
	assert.ErrorIs(t, err, errNoFrontMatter)
	assert.Equal(t, "# No header", string(body))

	fm, body, err := ParseFrontMatter([]byte("---\n---\nbody"))
	require.NoError(t, err)
	assert.Equal(t, FrontMatter{}, fm)
	assert.Equal(t, "body", string(body))

	_, _, err = ParseFrontMatter([]byte("---\ntitle: never closed\n"))
	assert.ErrorIs(t, err, errInvalidFrontMatter)

	_, _, err = ParseFrontMatter([]byte("---\ntitle: [unbalanced\n---\n"))
	assert.Error(t, err)
}

func TestResolveSlug(t *testing.T) {
	assert.Equal(t, "intro", ResolveSlug(FrontMatter{Slug: "/Intro/"}, "a/b.mdx"))
	assert.Equal(t, "prompting-101-basics", ResolveSlug(FrontMatter{Title: "Prompting 101: Basics"}, "a/b.mdx"))
	assert.Equal(t, "context-windows", ResolveSlug(FrontMatter{}, "lessons/context_windows.mdx"))
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "intro.md"), "---\ntitle: Intro\n---\nHello")
	writeFile(t, filepath.Join(dir, "lessons", "one.mdx"), "---\ntitle: One\ntags: [A, a, b]\n---\nBody")
	writeFile(t, filepath.Join(dir, "lessons", "draft.mdx"), "---\ntitle: WIP\ndraft: true\n---\n")
	writeFile(t, filepath.Join(dir, "lessons", "untitled.md"), "No header at all")
	writeFile(t, filepath.Join(dir, "lessons", "broken.md"), "---\ntitle: [oops\n---\nstill a document")
	writeFile(t, filepath.Join(dir, "_partials", "shared.md"), "fragment")
	writeFile(t, filepath.Join(dir, "lessons", "_inline.mdx"), "fragment")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	docs, warns, err := Ingest(dir, Options{})
	require.NoError(t, err)

	var rels []string
	for _, d := range docs {
		rels = append(rels, d.Source.RelPath)
		assert.NotEmpty(t, d.Source.ContentHash)
	}
	assert.Equal(t, []string{"intro.md", "lessons/broken.md", "lessons/one.mdx", "lessons/untitled.md"}, rels)
	assert.Equal(t, []string{"a", "b"}, docs[2].Meta.Tags)
	assert.Equal(t, "untitled", docs[3].Meta.Slug)
	assert.Equal(t, "lessons/untitled.md", docs[3].DisplayTitle())

	var msgs []string
	for _, w := range warns {
		msgs = append(msgs, filepath.Base(w.Path)+": "+w.Msg)
	}
	assert.Len(t, msgs, 3)
	assert.Contains(t, msgs, "untitled.md: title is empty")
	assert.Contains(t, msgs, "broken.md: title is empty")

	withDrafts, _, err := Ingest(dir, Options{IncludeDraft: true})
	require.NoError(t, err)
	assert.Len(t, withDrafts, 5)
}

func TestIngestDuplicateSlugs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "setup.md"), "---\ntitle: Setup\n---\n")
	writeFile(t, filepath.Join(dir, "b", "setup.md"), "---\ntitle: Setup\n---\n")

	docs, warns, err := Ingest(dir, Options{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Msg, "already used by a/setup.md")
}

func TestIngestMissingDir(t *testing.T) {
	_, _, err := Ingest(filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}
