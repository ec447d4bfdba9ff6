package ingest

import (
	"bytes"
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Slug        string   `yaml:"slug"`
	Label       string   `yaml:"sidebar_label"`
	Position    int      `yaml:"sidebar_position"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
}

// ParseFrontMatter splits raw into its YAML header and body. Documents
// without a header return errNoFrontMatter and the input unchanged.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return FrontMatter{}, raw, errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	var yamlPart, bodyPart []byte
	switch {
	case bytes.HasPrefix(rest, []byte(sepLine)):
		// "---\n---\n": empty header
		bodyPart = rest[len(sepLine):]
	default:
		if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
			yamlPart, bodyPart = parts[0], parts[1]
		} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
			yamlPart = rest[:len(rest)-len("\n"+sep)]
		} else {
			return FrontMatter{}, raw, errInvalidFrontMatter
		}
	}

	var fm FrontMatter
	if y := bytes.TrimSpace(yamlPart); len(y) > 0 {
		if err := yaml.Unmarshal(y, &fm); err != nil {
			return FrontMatter{}, raw, err
		}
	}
	return fm, bodyPart, nil
}

// ResolveSlug prefers the front matter slug, then the title, then the
// file name.
func ResolveSlug(fm FrontMatter, relPath string) string {
	if s := strings.TrimSpace(fm.Slug); s != "" {
		return slugify(strings.Trim(s, "/"))
	}
	if t := strings.TrimSpace(fm.Title); t != "" {
		return slugify(t)
	}
	base := path.Base(relPath)
	return slugify(strings.TrimSuffix(base, path.Ext(base)))
}

func slugify(s string) string {
	s = strings.TrimSpace(s)
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
			lastDash = false
			continue
		}
		if !lastDash && len(out) > 0 {
			out = append(out, '-')
			lastDash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
