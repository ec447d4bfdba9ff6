package mdx

import (
	"path/filepath"
	"strings"
)

// PathResolver turns import paths into filesystem paths. Root is the
// absolute project root, computed once by the caller.
type PathResolver struct {
	Root    string
	SiteDir string
	Alias   string
}

func (r PathResolver) Resolve(raw string) string {
	p := strings.ReplaceAll(raw, `\`, "")
	if r.Alias != "" && strings.HasPrefix(p, r.Alias) {
		site := r.SiteDir
		if site == "" {
			site = "website"
		}
		rest := filepath.FromSlash(strings.TrimPrefix(p, r.Alias))
		return filepath.Join(r.Root, site, rest)
	}
	return p
}
