package mdx

import "regexp"

// ImportMap maps a component's local name to its declared import path.
type ImportMap map[string]string

var (
	importDeclRe = regexp.MustCompile(`(?m)^import\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"\n]+)['"]`)
	importLineRe = regexp.MustCompile(`(?m)^import\s[^\n]*?['"][^'"\n]+['"];?[ \t]*(?:\n|$)`)
)

// ExtractImports collects default-style imports. A name imported twice keeps
// the last path. Imports shown inside fenced code samples are ignored.
func ExtractImports(text string) ImportMap {
	imports := make(ImportMap)
	outsideFences(text, func(s string) string {
		for _, m := range importDeclRe.FindAllStringSubmatch(s, -1) {
			imports[m[1]] = m[2]
		}
		return s
	})
	return imports
}

func stripImports(s string) string {
	return importLineRe.ReplaceAllString(s, "")
}
