package content

import (
	"fmt"
	"strings"

	domainerr "lessonscript/internal/domain/errors"
)

// RenderMode selects which conditionally marked regions survive normalization.
type RenderMode string

const (
	ModeDoc          RenderMode = "doc"
	ModePresentation RenderMode = "presentation"
)

func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDoc:
		return ModeDoc, nil
	case ModePresentation:
		return ModePresentation, nil
	}
	return "", fmt.Errorf("%w: %q", domainerr.ErrUnknownMode, s)
}

func (m RenderMode) String() string { return string(m) }

type DocumentMeta struct {
	Title       string
	Description string
	Slug        string
	Label       string
	Position    int
	Tags        []string
	Draft       bool
}

type SourceRef struct {
	Path        string
	RelPath     string
	ContentHash string
}

type Document struct {
	Meta   DocumentMeta
	Source SourceRef
}

// DisplayTitle falls back from the front matter title to the sidebar label
// and finally to the relative path.
func (d Document) DisplayTitle() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	if d.Meta.Label != "" {
		return d.Meta.Label
	}
	return d.Source.RelPath
}

func (m *DocumentMeta) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	m.Slug = strings.TrimSpace(m.Slug)
	m.Label = strings.TrimSpace(m.Label)
	m.Tags = normalizeStrings(m.Tags)
	if m.Position < 0 {
		m.Position = 0
	}
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
