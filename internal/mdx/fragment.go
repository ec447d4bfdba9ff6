package mdx

import (
	"os"
	"path/filepath"
	"strings"

	domainbuild "lessonscript/internal/domain/build"
)

// FragmentRef records one shared fragment read while normalizing a document.
type FragmentRef struct {
	ImportPath string `json:"import_path"`
	Path       string `json:"path"`
	Hash       string `json:"hash"`
	Missing    bool   `json:"missing,omitempty"`
}

func missingFragment(importPath string) string {
	return "[SHARED_PROMPT: File not found - " + importPath + "]"
}

// InlineFragment loads a shared fragment and cleans it for splicing into the
// parent document. A missing file becomes a placeholder, never an error.
//
// Fragments are inlined one level deep: component tags inside a fragment are
// not expanded and stay in the returned text as written.
func (n *Normalizer) InlineFragment(importPath, baseDir string, opt Options) (string, FragmentRef) {
	path := n.resolveFragment(importPath, baseDir)
	ref := FragmentRef{ImportPath: importPath, Path: path}

	raw, ok := n.readFragment(path)
	if !ok {
		ref.Missing = true
		return missingFragment(importPath), ref
	}
	ref.Hash = domainbuild.HashBytes([]byte(raw))

	body := StripFrontMatter(raw)
	body = outsideFences(body, stripImports)
	if !opt.PreserveCode {
		body = DescribeCodeBlocks(body)
	}
	body = outsideFences(body, stripLinks)
	body = outsideFences(body, stripComments)
	body = outsideFences(body, CollapseNewlines)
	return strings.TrimSpace(body), ref
}

func (n *Normalizer) resolveFragment(importPath, baseDir string) string {
	p := n.paths.Resolve(importPath)
	if !filepath.IsAbs(p) && baseDir != "" {
		p = filepath.Join(baseDir, p)
	}
	return filepath.Clean(p)
}

func (n *Normalizer) readFragment(path string) (string, bool) {
	if s, ok := n.fragments.Get(path); ok {
		return s, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	s := string(data)
	n.fragments.Add(path, s)
	return s, true
}

// FragmentHash hashes the current content of a fragment file, or returns ""
// when it cannot be read. It bypasses the fragment cache.
func FragmentHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return domainbuild.HashBytes(data)
}
