// Package mdx turns MDX/Markdown lesson sources into plain narrative text
// for narration and slide scripts.
//
// Normalization is a fixed sequence of regex passes. Passes that rewrite
// prose skip fenced code blocks, so code survives verbatim until the
// description pass (or for good, when code is preserved). Every pass is
// fail-open: text a pattern does not recognize is left as it is.
package mdx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"lessonscript/internal/domain/content"
)

type Options struct {
	Mode         content.RenderMode
	PreserveCode bool
}

type Result struct {
	Text      string
	Fragments []FragmentRef
}

// MissingFragments lists the import paths that resolved to no file.
func (r Result) MissingFragments() []string {
	var out []string
	for _, f := range r.Fragments {
		if f.Missing {
			out = append(out, f.ImportPath)
		}
	}
	return out
}

// Normalizer is safe for concurrent use. Its only state is a cache of
// fragment file contents.
type Normalizer struct {
	paths     PathResolver
	fragments *lru.Cache[string, string]
}

func NewNormalizer(paths PathResolver, cacheSize int) (*Normalizer, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("mdx: fragment cache: %w", err)
	}
	return &Normalizer{paths: paths, fragments: cache}, nil
}

// Purge drops cached fragment contents, e.g. after files changed on disk.
func (n *Normalizer) Purge() {
	n.fragments.Purge()
}

var (
	frontMatterRe = regexp.MustCompile(`\A---[ \t]*\r?\n(?:(?s:.*?)\r?\n)?---[ \t]*(?:\r?\n|\z)`)
	componentRe   = regexp.MustCompile(`<([A-Z][A-Za-z0-9_]*)\s*/>`)
	htmlTagRe     = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)
	inlineCodeRe  = regexp.MustCompile("`([^`\n]+)`")
	imageRe       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
	admonitionRe  = regexp.MustCompile(`(?mi)^:::(tip|warning|info|note|caution)(?:\[([^\]\n]*)\]|[ \t]+([^\n]*?))?[ \t]*$`)
	admonitionEnd = regexp.MustCompile(`(?m)^:::[ \t]*$`)
	newlineRunRe  = regexp.MustCompile(`\n{3,}`)
	docRegionRe   = regionRe("doc")
	docMarkerRe   = markerRe("doc")
	presRegionRe  = regionRe("presentation")
	presMarkerRe  = markerRe("presentation")
)

func modeName(name string) string {
	return name + `\s*-\s*only\s*-\s*`
}

func regionRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<!--\s*` + modeName(name) + `start\s*-->.*?<!--\s*` + modeName(name) + `end\s*-->`)
}

func markerRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`<!--\s*` + modeName(name) + `(?:start|end)\s*-->`)
}

// NormalizeFile reads a document and normalizes it. Fragment paths are
// resolved relative to the document's directory.
func (n *Normalizer) NormalizeFile(path string, opt Options) (string, error) {
	res, err := n.NormalizeDocument(path, opt)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// NormalizeDocument is NormalizeFile plus the fragments that were read.
func (n *Normalizer) NormalizeDocument(path string, opt Options) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return n.Normalize(string(raw), filepath.Dir(path), opt), nil
}

// Normalize runs the full pass sequence over src. The order is significant.
func (n *Normalizer) Normalize(src, baseDir string, opt Options) Result {
	imports := ExtractImports(src)

	text := StripFrontMatter(src)
	text = outsideFences(text, stripImports)

	var refs []FragmentRef
	text = outsideFences(text, func(s string) string {
		return componentRe.ReplaceAllStringFunc(s, func(tag string) string {
			name := componentRe.FindStringSubmatch(tag)[1]
			switch Classify(name, imports) {
			case ClassVisual:
				return "[VISUAL_COMPONENT: " + name + "]"
			case ClassSharedPrompt:
				body, ref := n.InlineFragment(imports[name], baseDir, opt)
				refs = append(refs, ref)
				return body
			default:
				return ""
			}
		})
	})

	text = FilterModes(text, opt.Mode)
	text = outsideFences(text, stripHTML)

	if !opt.PreserveCode {
		text = DescribeCodeBlocks(text)
		text = inlineCodeRe.ReplaceAllString(text, "$1")
	}

	text = outsideFences(text, replaceImages)
	text = outsideFences(text, stripLinks)
	text = outsideFences(text, stripComments)
	text = outsideFences(text, rewriteAdmonitions)
	text = outsideFences(text, CollapseNewlines)

	return Result{Text: strings.TrimSpace(text), Fragments: refs}
}

// StripFrontMatter removes a front matter block that starts at byte 0.
func StripFrontMatter(s string) string {
	return frontMatterRe.ReplaceAllString(s, "")
}

// FilterModes drops the regions meant for the other mode, delimiters
// included, and unwraps the regions meant for mode. An empty mode is doc.
func FilterModes(s string, mode content.RenderMode) string {
	if mode == content.ModePresentation {
		s = docRegionRe.ReplaceAllString(s, "")
		return presMarkerRe.ReplaceAllString(s, "")
	}
	s = presRegionRe.ReplaceAllString(s, "")
	return docMarkerRe.ReplaceAllString(s, "")
}

// DescribeCodeBlocks replaces every fenced block with its description.
func DescribeCodeBlocks(s string) string {
	spans := LocateBlocks(s)
	if len(spans) == 0 {
		return s
	}
	return ReplaceSpans(s, spans, func(sp CodeBlockSpan) string {
		return DescribeBlock(sp.Text, sp.Before, sp.After)
	})
}

// CollapseNewlines turns any run of three or more newlines into one blank line.
func CollapseNewlines(s string) string {
	return newlineRunRe.ReplaceAllString(s, "\n\n")
}

func stripHTML(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}

func replaceImages(s string) string {
	return imageRe.ReplaceAllString(s, "[Image]")
}

func stripLinks(s string) string {
	return linkRe.ReplaceAllString(s, "$1")
}

func stripComments(s string) string {
	return commentRe.ReplaceAllString(s, "")
}

func rewriteAdmonitions(s string) string {
	s = admonitionRe.ReplaceAllStringFunc(s, func(line string) string {
		m := admonitionRe.FindStringSubmatch(line)
		title := strings.TrimSpace(m[2])
		if title == "" {
			title = strings.TrimSpace(m[3])
		}
		if title == "" {
			title = "Note"
		}
		return "[PEDAGOGICAL " + strings.ToUpper(m[1]) + ": " + title + "]"
	})
	return admonitionEnd.ReplaceAllString(s, "[END NOTE]")
}
