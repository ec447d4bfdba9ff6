package site

import (
	"strings"
)

type RouteKind string

const (
	RouteScript   RouteKind = "script"
	RouteManifest RouteKind = "manifest"
)

// ManifestPath is the manifest location relative to the output directory.
const ManifestPath = "manifest.json"

type Route struct {
	Kind    RouteKind
	Source  string // document path relative to the source dir, slash separated
	Mode    string
	OutPath string // slash separated, relative to the output dir
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Source != "" {
		parts = append(parts, "src="+r.Source)
	}
	if r.Mode != "" {
		parts = append(parts, "mode="+r.Mode)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
