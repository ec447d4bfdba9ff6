package mdx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImports(t *testing.T) {
	src := `import Diagram from '@site/src/visual-elements/Diagram';
import Prompt from "@site/shared-prompts/_review.md"
import {Tabs, TabItem} from '@theme/Tabs';
import Prompt from '@site/shared-prompts/_other.md';

` + "```js\nimport Hidden from 'inside-a-sample';\n```\n"

	imports := ExtractImports(src)
	assert.Equal(t, ImportMap{
		"Diagram": "@site/src/visual-elements/Diagram",
		"Prompt":  "@site/shared-prompts/_other.md",
	}, imports)
}

func TestExtractImportsEmpty(t *testing.T) {
	imports := ExtractImports("# Just prose\n\nnothing imported here")
	require.NotNil(t, imports)
	assert.Empty(t, imports)
}

func TestStripImports(t *testing.T) {
	src := "import A from 'a';\nimport {B} from \"b\"\nimport './side.css';\n# Heading\nimported text stays\n"
	assert.Equal(t, "# Heading\nimported text stays\n", stripImports(src))
}

func TestPathResolver(t *testing.T) {
	root := filepath.FromSlash("/srv/course")
	r := PathResolver{Root: root, SiteDir: "website", Alias: "@site/"}

	assert.Equal(t,
		filepath.Join(root, "website", "shared-prompts", "_code_review.md"),
		r.Resolve(`@site/shared-prompts/\_code\_review.md`))
	assert.Equal(t, "./partials/_intro.md", r.Resolve(`./partials/\_intro.md`))
	assert.Equal(t, "../x.md", r.Resolve("../x.md"))
}

func TestPathResolverDefaultSiteDir(t *testing.T) {
	r := PathResolver{Root: "/p", Alias: "@site/"}
	assert.Equal(t, filepath.Join("/p", "website", "a.md"), r.Resolve("@site/a.md"))
}

func TestClassify(t *testing.T) {
	imports := ImportMap{
		"Diagram": "@site/src/components/visual-elements/Diagram",
		"Prompt":  "@site/shared-prompts/_review.md",
		"Both":    "@site/visual-elements/shared-prompts/X",
		"Tabs":    "@theme/Tabs",
	}
	assert.Equal(t, ClassVisual, Classify("Diagram", imports))
	assert.Equal(t, ClassSharedPrompt, Classify("Prompt", imports))
	assert.Equal(t, ClassVisual, Classify("Both", imports), "visual is checked first")
	assert.Equal(t, ClassUnknown, Classify("Tabs", imports))
	assert.Equal(t, ClassUnknown, Classify("NotImported", imports))
}
